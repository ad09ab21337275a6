package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the namespace holds an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		record, ok, err := s.accounts.Status(cmd.Context(), namespace)
		if err != nil {
			return err
		}
		stored, err := s.manager.HasToken()
		if err != nil {
			return fmt.Errorf("read keyring: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Namespace:\t%s\n", namespace)
		if ok {
			fmt.Fprintf(w, "Account:\t%s\n", record.PublicKey)
		} else {
			fmt.Fprintln(w, "Account:\tnone")
		}
		if stored {
			fmt.Fprintln(w, "Secret:\tin keyring")
		} else {
			fmt.Fprintln(w, "Secret:\tnot in keyring")
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
