package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"khaata/store"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	userName  string
	userImage string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user <username> [password]",
	Short: "Create a user with an empty ledger",
	Long: `Create a user with an empty ledger.

When the password is not given on the command line it is read from the
terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		password, err := passwordArg(cmd, args)
		if err != nil {
			return err
		}

		return withDB(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			u, err := registerUser(ctx, st, username, password, userName, userImage)
			if errors.Is(err, store.ErrUserExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists\n", username)
				return nil
			}
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s id=%d\n", u.Username, u.ID)
			return nil
		})
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username> [password]",
	Short: "Set a new password for an existing user",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordArg(cmd, args)
		if err != nil {
			return err
		}
		return withDB(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			if err := resetPassword(ctx, st, args[0], password); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("user %s not found", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password reset for user %s\n", args[0])
			return nil
		})
	},
}

// passwordArg returns args[1] or, when absent, reads a password from the
// terminal without echo.
func passwordArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(raw), nil
}

func init() {
	createUserCmd.Flags().StringVar(&userName, "name", "", "display name")
	createUserCmd.Flags().StringVar(&userImage, "image", "", "profile image URL")
	rootCmd.AddCommand(createUserCmd, resetPasswordCmd)
}
