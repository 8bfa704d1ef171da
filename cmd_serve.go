package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"khaata/pkg/logger"
	"khaata/pkg/receipt"
	"khaata/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == logger.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDB(db); err != nil {
			log.Error("close database", logger.Err(err))
		}
	}()

	a, err := newApp(cfg, db, receipt.NewTesseractScanner(cfg.OCR.Languages...), log)
	if err != nil {
		return err
	}
	return serve(ctx, fmt.Sprintf(":%d", cfg.Port), newRouter(a), log)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// withDB opens the database for one-shot commands and closes it afterwards.
func withDB(ctx context.Context, fn func(ctx context.Context, st *store.Store) error) error {
	db, err := openDB(cfg.DB, log)
	if err != nil {
		return err
	}
	defer closeDB(db)
	return fn(ctx, store.New(db))
}
