package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nfrund/starbeam/internal/account"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account after confirming it's you",
	Long: `Create generates a keypair, stores its secret in the system keyring and
records the public key under --namespace.

On a terminal you are asked to allow access and then to type the namespace
back. Without a terminal both prompts are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		record, err := s.accounts.Create(cmd.Context(), namespace, s.manager)
		if err != nil {
			slog.Debug("create failed", "namespace", namespace, "error", err)
			return errors.New(account.UserMessage(account.ActionCreate, err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created account %s\n", record.PublicKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
