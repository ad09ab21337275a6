package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nfrund/starbeam/internal/account"
)

var assumeYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Erase the account secret and public key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if !assumeYes {
			if !s.prompter.Interactive() {
				return errors.New("refusing to delete without a terminal; pass --yes")
			}
			ok, err := s.prompter.Confirm(fmt.Sprintf("Delete the account in namespace %q?", namespace))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		if err := s.accounts.Delete(cmd.Context(), namespace, s.manager); err != nil {
			slog.Debug("delete failed", "namespace", namespace, "error", err)
			return errors.New(account.UserMessage(account.ActionDelete, err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}
