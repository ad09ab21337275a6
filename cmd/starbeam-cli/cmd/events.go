package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nfrund/starbeam/internal/account"
)

var eventsFormat string

type eventDisplay struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the account events the server publishes",
	Long: `List the topics the server publishes on its event bus whenever an account
is created or deleted.

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events := make([]eventDisplay, len(account.Topics))
		for i, t := range account.Topics {
			events[i] = eventDisplay{Name: t.Name(), Description: t.Description()}
		}

		switch eventsFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Events []eventDisplay `json:"events"`
				Count  int            `json:"count"`
			}{events, len(events)})
		case "table":
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			fmt.Fprintln(w, "----\t-----------")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Description)
			}
			return w.Flush()
		}
		return fmt.Errorf("unsupported output format %q, use table or json", eventsFormat)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().StringVarP(&eventsFormat, "format", "f", "table", "output format (table, json)")
}
