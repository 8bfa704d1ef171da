package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"khaata/process/report"
	"khaata/store"

	"github.com/spf13/cobra"
)

var (
	reportUser  string
	reportMonth string
	reportList  bool
	reportPlain bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a monthly summary of one user's hisaabs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if reportUser == "" {
			return errors.New("--username is required")
		}
		if reportMonth == "" {
			reportMonth = time.Now().UTC().Format("2006-01")
		}
		return withDB(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			r, err := report.Build(ctx, st, reportUser, reportMonth, cfg.Currency)
			if err != nil {
				return err
			}
			md := r.Markdown(reportList)
			if reportPlain {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			out, err := report.Render(md)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportUser, "username", "", "owner of the ledger")
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "month as YYYY-MM (default: current month, UTC)")
	reportCmd.Flags().BoolVar(&reportList, "list", false, "include every entry of the month")
	reportCmd.Flags().BoolVar(&reportPlain, "plain", false, "print raw markdown")
	rootCmd.AddCommand(reportCmd)
}
