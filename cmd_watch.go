package main

import (
	"context"
	"os/signal"
	"syscall"

	"khaata/pkg/receipt"
	"khaata/process/inbox"
	"khaata/store"

	"github.com/spf13/cobra"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Record receipts dropped into <dir>/<username>/ as hisaabs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if watchDir == "" {
			watchDir = cfg.Inbox.Dir
		}
		return withDB(ctx, func(ctx context.Context, st *store.Store) error {
			w := inbox.New(watchDir, st, receipt.NewTesseractScanner(cfg.OCR.Languages...), log)
			return w.Run(ctx)
		})
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "inbox directory (default INBOX_DIR)")
	rootCmd.AddCommand(watchCmd)
}
