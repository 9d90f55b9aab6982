// Package app hosts the xyk pool engine on a committing multistore.
//
// The App owns one store per module and wires the keepers together: the tokens ledger holds
// every balance, the asset registry issues share token ids and the xyk keeper settles against
// both. Operations are serialized: each one runs on a fresh cache of the multistore, and the
// cache is written and committed only when the operation succeeds.
package app

import (
	"fmt"
	"strings"
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/xyk/app/telemetry"
	registrykeeper "github.com/paw-chain/xyk/x/assetregistry/keeper"
	registrytypes "github.com/paw-chain/xyk/x/assetregistry/types"
	tokenskeeper "github.com/paw-chain/xyk/x/tokens/keeper"
	tokenstypes "github.com/paw-chain/xyk/x/tokens/types"
	xykkeeper "github.com/paw-chain/xyk/x/xyk/keeper"
	xyktypes "github.com/paw-chain/xyk/x/xyk/types"
)

const (
	Name           = "xyk"
	DefaultChainID = "xyk-local"
)

// App is the host of the xyk modules.
type App struct {
	mu sync.Mutex

	logger    log.Logger
	ctxLogger log.Logger
	chainID   string
	cms       storetypes.CommitMultiStore
	keys      map[string]*storetypes.KVStoreKey

	checkInvariants bool
	invariants      []invariantRoute
	recorder        *telemetry.OperationRecorder

	TokensKeeper        tokenskeeper.Keeper
	AssetRegistryKeeper registrykeeper.Keeper
	XYKKeeper           *xykkeeper.Keeper
}

type invariantRoute struct {
	module string
	route  string
	check  sdk.Invariant
}

// Option configures an App.
type Option func(*App)

// WithChainID sets the chain id placed in every context header.
func WithChainID(chainID string) Option {
	return func(a *App) { a.chainID = chainID }
}

// WithInvariantChecks makes every operation run the registered invariants before it commits.
// A broken invariant rejects the operation.
func WithInvariantChecks() Option {
	return func(a *App) { a.checkInvariants = true }
}

// New mounts the module stores on db, loads the latest committed version and wires the keepers.
func New(logger log.Logger, db dbm.DB, opts ...Option) (*App, error) {
	a := &App{
		logger:    logger.With("module", "app"),
		ctxLogger: logger,
		chainID:   DefaultChainID,
		recorder:  telemetry.NewOperationRecorder(),
		cms:       store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics()),
		keys: storetypes.NewKVStoreKeys(
			tokenstypes.StoreKey,
			registrytypes.StoreKey,
			xyktypes.StoreKey,
		),
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, key := range a.keys {
		a.cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := a.cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load latest version: %w", err)
	}

	a.TokensKeeper = tokenskeeper.NewKeeper(a.keys[tokenstypes.StoreKey])
	a.AssetRegistryKeeper = registrykeeper.NewKeeper(a.keys[registrytypes.StoreKey])
	a.XYKKeeper = xykkeeper.NewKeeper(a.keys[xyktypes.StoreKey], a.TokensKeeper, a.AssetRegistryKeeper)

	xykkeeper.RegisterInvariants(a, *a.XYKKeeper)

	return a, nil
}

// RegisterRoute implements sdk.InvariantRegistry.
func (a *App) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	a.invariants = append(a.invariants, invariantRoute{module: moduleName, route: route, check: invar})
}

// Logger returns the application logger.
func (a *App) Logger() log.Logger {
	return a.logger
}

// LastBlockHeight returns the version of the last commit.
func (a *App) LastBlockHeight() int64 {
	return a.cms.LastCommitID().Version
}

// Execute runs fn as one atomic unit of work named operation. The state changes of fn are
// committed only when it returns nil; the events it emitted are returned either way.
func (a *App) Execute(operation string, fn func(ctx sdk.Context) error) (_ sdk.Events, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cache := a.newContext()
	spanCtx, end := a.recorder.Start(ctx.Context(), operation, ctx.BlockHeight())
	defer func() { end(err) }()
	ctx = ctx.WithContext(spanCtx)

	if err := fn(ctx); err != nil {
		return ctx.EventManager().Events(), err
	}
	if a.checkInvariants {
		if err := a.assertInvariants(ctx); err != nil {
			a.logger.Error("operation rejected by invariant", "operation", operation, "height", ctx.BlockHeight(), "error", err)
			return ctx.EventManager().Events(), err
		}
	}

	cache.Write()
	commitID := a.cms.Commit()
	a.logger.Debug("committed", "operation", operation, "height", commitID.Version, "hash", fmt.Sprintf("%X", commitID.Hash))

	return ctx.EventManager().Events(), nil
}

// Query runs fn on a throwaway cache of the committed state.
func (a *App) Query(fn func(ctx sdk.Context) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, _ := a.newContext()
	return fn(ctx)
}

// CheckInvariants runs every registered invariant against the committed state.
func (a *App) CheckInvariants() error {
	return a.Query(a.assertInvariants)
}

func (a *App) assertInvariants(ctx sdk.Context) error {
	var broken []string
	for _, inv := range a.invariants {
		if msg, stop := inv.check(ctx); stop {
			broken = append(broken, fmt.Sprintf("%s/%s: %s", inv.module, inv.route, msg))
		}
	}
	if len(broken) > 0 {
		return xyktypes.ErrFatalInvariantViolation.Wrap(strings.Join(broken, "; "))
	}
	return nil
}

// newContext returns a context over a fresh cache of the multistore at the next height.
func (a *App) newContext() (sdk.Context, storetypes.CacheMultiStore) {
	cache := a.cms.CacheMultiStore()
	header := cmtproto.Header{
		ChainID: a.chainID,
		Height:  a.LastBlockHeight() + 1,
	}
	return sdk.NewContext(cache, header, false, a.ctxLogger), cache
}
