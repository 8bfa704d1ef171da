package main

import (
	"fmt"
	"os"

	"khaata/pkg/logger"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	cfgFile string
	cfg     *Config
	log     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "khaata",
	Short: "Khaata - a small personal ledger (hisaab) web app",
	Long: `Khaata keeps a per-user list of hisaabs (dated amounts with a
description) behind a server-rendered web UI.

Running khaata with no subcommand starts the web server.`,
	PersistentPreRunE: setupApp,
	RunE:              runServe,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log = logger.New(cfg.Env)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
}
