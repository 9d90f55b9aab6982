package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/xyk/app"
	"github.com/paw-chain/xyk/app/telemetry"
	xyktypes "github.com/paw-chain/xyk/x/xyk/types"
)

// ErrUnexpectedOutcome is returned when a step does not end the way the scenario expects.
var ErrUnexpectedOutcome = errors.New("unexpected step outcome")

// RunCmd runs a scenario file against a fresh chain.
func RunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "Run a YAML scenario of pool operations",
		Long: `Run loads the accounts and params of a scenario into a new chain, then executes
each step in order, committing the ones that succeed. With a persistent db-backend a second run
resumes the committed state and skips the scenario genesis. A step may declare the error class it
expects (precondition, limit, balance, arithmetic, fatal_invariant); any other outcome fails the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(v)
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			provider, err := telemetry.NewProvider(telemetry.Config{
				Endpoint:          cfg.OTLPEndpoint,
				SampleRate:        cfg.TraceSampleRate,
				ChainID:           cfg.ChainID,
				PrometheusEnabled: cfg.MetricsAddr != "",
			})
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := provider.Shutdown(ctx); err != nil {
					logger.Error("telemetry shutdown", "error", err)
				}
			}()

			if cfg.MetricsAddr != "" {
				stop, err := startMetricsServer(cfg.MetricsAddr, logger)
				if err != nil {
					return err
				}
				defer stop()
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			return RunScenario(cmd.OutOrStdout(), logger, db, cfg, scenario)
		},
	}

	cmd.Flags().String(flagMetricsAddr, "", "serve Prometheus metrics on this address while running (e.g. :26660)")
	cmd.Flags().String(flagDBBackend, string(dbm.MemDBBackend), "state database backend (memdb|goleveldb)")
	cmd.Flags().String(flagChainID, "", "chain id (overrides the scenario)")
	cmd.Flags().Bool(flagInvariants, true, "assert the pool invariants after every step")
	cmd.Flags().String(flagOTLP, "", "export operation traces to this OTLP/HTTP collector (e.g. localhost:4318)")
	cmd.Flags().Float64(flagSampleRate, 1, "fraction of operations traced")

	return cmd
}

// RunScenario executes scenario on an app over db and reports every step to out. The scenario
// genesis is loaded only if db holds no committed state.
func RunScenario(out io.Writer, logger log.Logger, db dbm.DB, cfg Config, scenario *Scenario) error {
	genesis, err := scenario.Genesis()
	if err != nil {
		return err
	}
	steps, err := scenario.DecodeSteps()
	if err != nil {
		return err
	}

	chainID := app.DefaultChainID
	switch {
	case cfg.ChainID != "":
		chainID = cfg.ChainID
	case scenario.ChainID != "":
		chainID = scenario.ChainID
	}
	opts := []app.Option{app.WithChainID(chainID)}
	if cfg.CheckInvariants {
		opts = append(opts, app.WithInvariantChecks())
	}

	xykApp, err := app.New(logger, db, opts...)
	if err != nil {
		return err
	}
	// a persistent store keeps the state of earlier runs; genesis is loaded only once
	if height := xykApp.LastBlockHeight(); height > 0 {
		logger.Info("resuming committed state", "height", height)
	} else if err := xykApp.InitChain(genesis); err != nil {
		return err
	}

	var failed int
	for _, step := range steps {
		_, err := xykApp.Execute(step.Action, func(ctx sdk.Context) error {
			return applyStep(ctx, xykApp, step)
		})
		line, ok := describeOutcome(step, err)
		fmt.Fprintln(out, line)
		if !ok {
			failed++
		}
	}

	if err := printPools(out, xykApp); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d steps", ErrUnexpectedOutcome, failed, len(steps))
	}
	return nil
}

func applyStep(ctx sdk.Context, xykApp *app.App, step Step) error {
	who := AccountAddress(step.Who)
	k := xykApp.XYKKeeper

	switch step.Action {
	case ActionCreatePool:
		return k.CreatePool(ctx, who, step.AssetA, step.AssetB, step.Amount, step.Price)
	case ActionAddLiquidity:
		return k.AddLiquidity(ctx, who, step.AssetA, step.AssetB, step.Amount, step.Limit)
	case ActionRemoveLiquidity:
		return k.RemoveLiquidity(ctx, who, step.AssetA, step.AssetB, step.Amount)
	case ActionSell:
		_, err := k.Sell(ctx, who, step.AssetA, step.AssetB, step.Amount, step.Limit, step.Discount)
		return err
	case ActionBuy:
		_, err := k.Buy(ctx, who, step.AssetA, step.AssetB, step.Amount, step.Limit, step.Discount)
		return err
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

// describeOutcome formats the result of a step and reports whether it matched the expectation.
func describeOutcome(step Step, err error) (string, bool) {
	prefix := fmt.Sprintf("step %d %s %s:", step.Index, step.Action, step.Who)
	if err == nil {
		if step.ExpectError != "" {
			return fmt.Sprintf("%s ok, expected %s error", prefix, step.ExpectError), false
		}
		return prefix + " ok", true
	}

	class := xyktypes.ClassOf(err).String()
	if step.ExpectError == class {
		return fmt.Sprintf("%s rejected as expected (%s): %v", prefix, class, err), true
	}
	return fmt.Sprintf("%s rejected (%s): %v", prefix, class, err), false
}

func printPools(out io.Writer, xykApp *app.App) error {
	return xykApp.Query(func(ctx sdk.Context) error {
		pools, err := xykApp.XYKKeeper.GetAllPools(ctx)
		if err != nil {
			return err
		}
		for _, pool := range pools {
			reserveA, reserveB := xykApp.XYKKeeper.GetPoolReserves(ctx, pool.Pair())
			fmt.Fprintf(out, "pool %s account=%s share_token=%d liquidity=%s reserves=%s/%s\n",
				pool.Pair(), pool.Pair().Account(), pool.ShareToken, pool.TotalLiquidity, reserveA, reserveB)
		}
		return nil
	})
}

func openDB(cfg Config) (dbm.DB, error) {
	backend := dbm.BackendType(cfg.DBBackend)
	switch backend {
	case "", dbm.MemDBBackend:
		return dbm.NewMemDB(), nil
	case dbm.GoLevelDBBackend:
		dir := filepath.Join(cfg.Home, "data")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return dbm.NewDB("xyk", backend, dir)
	default:
		return nil, fmt.Errorf("unsupported %s %q", flagDBBackend, cfg.DBBackend)
	}
}

// startMetricsServer serves /metrics on addr until the returned stop function is called.
func startMetricsServer(addr string, logger log.Logger) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
