package main

import (
	"context"
	"fmt"
	"time"

	"khaata/store"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	eraseYes bool
	adminTTL time.Duration
)

var eraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "Delete every user and hisaab",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !eraseYes {
			fmt.Fprintln(cmd.OutOrStdout(), "Destructive operation. Pass --yes to confirm execution. Aborting.")
			return nil
		}
		return withDB(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			n, err := st.DeleteAllUsers(ctx)
			if err != nil {
				return fmt.Errorf("erase: %w", err)
			}
			log.Info("All users erased.", slog.Int64("count", n))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d users\n", n)
			return nil
		})
	},
}

var adminTokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "Print a bearer token for /readall, /readallhisaab and /eraseall",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Session.Secret == devSessionSecret {
			log.Warn("SESSION_SECRET not set, token is signed with the development secret")
		}
		token, err := newTokens(cfg.Session.Secret, cfg.Session.TTL).issue("admin", roleAdmin, adminTTL)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	eraseCmd.Flags().BoolVar(&eraseYes, "yes", false, "confirm deletion")
	adminTokenCmd.Flags().DurationVar(&adminTTL, "ttl", time.Hour, "token lifetime")
	rootCmd.AddCommand(eraseCmd, adminTokenCmd)
}
