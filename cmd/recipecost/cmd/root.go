// Package cmd provides the CLI commands for recipecost.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recipecost/backend/config"
	"github.com/recipecost/backend/internal/bootstrap"
	"github.com/recipecost/backend/internal/pkg/logging"
)

// Version is the CLI release
const Version = "1.0.0"

// options are the persistent flags and state shared by every command
type options struct {
	cfgFile  string
	logLevel string
	logger   *zap.Logger
}

// NewRootCmd builds the recipecost command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "recipecost",
		Short: "Price recipes at their cheapest supplier cost",
		Long: `recipecost prices recipes from a product catalog.

Each ingredient is bought from its cheapest supplier offer, and the recipe's
nutrients are reported per reference quantity (100 grams by default).

Examples:
  recipecost summarize --data dataset.json
  recipecost summarize --data dataset.yaml --format table
  recipecost lowest-cost flour --data dataset.json
  recipecost import --data dataset.json --db recipecost.db`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg := logging.DefaultConfig()
			logCfg.Level = opts.logLevel
			logger, err := logging.New(logCfg)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync(opts.logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default searches ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newSummarizeCmd(opts))
	rootCmd.AddCommand(newLowestCostCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads configuration and points the catalog at dataPath when set
func (o *options) loadConfig(dataPath string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.cfgFile != "" {
		cfg, err = config.LoadFile(o.cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if dataPath != "" {
		cfg.Catalog.Source = config.CatalogSourceFile
		cfg.Catalog.Path = dataPath
	}
	// A one-shot run has nothing to share a cache with
	cfg.Cache = config.CacheConfig{Type: "memory", TTL: cfg.Cache.TTL}
	return cfg, nil
}

// openApp wires the services for a single command run
func (o *options) openApp(ctx context.Context, dataPath string) (*bootstrap.App, error) {
	cfg, err := o.loadConfig(dataPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, o.logger)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recipecost version %s\n", Version)
		},
	}
}
