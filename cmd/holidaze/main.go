// Package main implements the holidaze CLI: it turns a chat export into a
// trip itinerary and serves the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/holidaze/internal/config"
	"github.com/fyrsmithlabs/holidaze/internal/logging"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand once the root command
// has loaded configuration.
type app struct {
	configPath string
	envFile    string
	verbose    bool

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "holidaze",
		Short: "Build a trip itinerary from a WhatsApp group chat",
		Long: `holidaze reads an exported WhatsApp group chat, extracts the flights,
hotels and transfers the group booked, and renders them as an itinerary.

Configuration is read from ~/.config/holidaze/config.yaml and HOLIDAZE_*
environment variables. A .env file in the working directory is loaded first.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync() // Best-effort sync
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/holidaze/config.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before configuration")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newExtractCmd(a),
		newRenderCmd(a),
		newShowCmd(a),
		newMapCmd(a),
		newServeCmd(a),
		newReviewCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the dotenv file, the configuration and the logger.
func (a *app) setup() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	logger.Debug(context.Background(), "configuration loaded",
		zap.String("store", cfg.Store.Backend),
		zap.String("trip", cfg.Trip.Key))
	return nil
}
