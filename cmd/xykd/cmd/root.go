package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagHome        = "home"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagMetricsAddr = "metrics-addr"
	flagDBBackend   = "db-backend"
	flagChainID     = "chain-id"
	flagInvariants  = "check-invariants"
	flagOTLP        = "otlp-endpoint"
	flagSampleRate  = "trace-sample-rate"

	envPrefix  = "XYKD"
	configName = "xykd"
)

// DefaultHome is the default directory holding xykd.toml and persistent databases.
var DefaultHome = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xykd"
	}
	return filepath.Join(home, ".xykd")
}()

// Config is the process configuration, merged from flags, XYKD_* env and xykd.toml.
type Config struct {
	Home            string
	LogLevel        string
	LogFormat       string
	MetricsAddr     string
	DBBackend       string
	ChainID         string
	CheckInvariants bool
	OTLPEndpoint    string
	TraceSampleRate float64
}

// NewRootCmd creates the xykd root command.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "xykd",
		Short: "Constant-product liquidity pool engine",
		Long: `xykd hosts the xyk pool engine on a local state store. It runs scenario files
against a fresh chain, derives pool accounts and prints the default parameters.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return loadConfig(v, cmd.Flags())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagHome, DefaultHome, "directory for config and data")
	flags.String(flagLogLevel, zerolog.InfoLevel.String(), "log level (trace|debug|info|warn|error)")
	flags.String(flagLogFormat, "plain", "log format (plain|json)")

	rootCmd.AddCommand(
		RunCmd(v),
		PairAccountCmd(),
		ParamsCmd(),
	)

	return rootCmd
}

// loadConfig binds flags and reads xykd.toml from the home directory if present.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath(v.GetString(flagHome))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read %s.toml: %w", configName, err)
		}
	}
	return nil
}

func configFrom(v *viper.Viper) Config {
	return Config{
		Home:            v.GetString(flagHome),
		LogLevel:        v.GetString(flagLogLevel),
		LogFormat:       v.GetString(flagLogFormat),
		MetricsAddr:     v.GetString(flagMetricsAddr),
		DBBackend:       v.GetString(flagDBBackend),
		ChainID:         v.GetString(flagChainID),
		CheckInvariants: v.GetBool(flagInvariants),
		OTLPEndpoint:    v.GetString(flagOTLP),
		TraceSampleRate: v.GetFloat64(flagSampleRate),
	}
}

// newLogger builds the process logger writing to w.
func newLogger(cfg Config, w io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", flagLogLevel, cfg.LogLevel, err)
	}

	opts := []log.Option{log.LevelOption(level)}
	switch cfg.LogFormat {
	case "", "plain":
		opts = append(opts, log.ColorOption(false))
	case "json":
		opts = append(opts, log.OutputJSONOption())
	default:
		return nil, fmt.Errorf("invalid %s %q", flagLogFormat, cfg.LogFormat)
	}
	return log.NewLogger(w, opts...), nil
}
