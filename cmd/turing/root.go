package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/spf13/cobra"
)

// Shared state prepared by the root command before any subcommand runs.
var (
	cfg        config.Config
	logger     *slog.Logger
	store      ports.MachineStore
	closeStore = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a single-tape Turing machine engine",
	Long: `Turing builds, stores and runs single-tape Turing machines.
Machines are kept in the binary .turingmach format; tapes are plain text files
with one "symbol" or "index: symbol" entry per line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = filepath.Join(dir, config.FileName)
		}

		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded.Resolve(dir)

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		logger = cli.NewLogger(cfg.LogLevel)

		store, closeStore, err = cli.OpenStore(cfg, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Project directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default <dir>/turing.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}
