package main

import (
	"context"
	"fmt"

	"khaata/store"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg.DB.AutoMigrate = false
		return withDB(cmd.Context(), func(_ context.Context, st *store.Store) error {
			if err := st.Migrate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
