package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sheetsync/internal/config"
	"sheetsync/internal/formatter"
	"sheetsync/internal/models"
	"sheetsync/internal/syncstate"
)

func newStateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the persisted sync state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withState(ctx, func(cfg *config.Config, store syncstate.Store) error {
				state, err := store.Load(ctx)
				if err != nil {
					return fmt.Errorf("loading state: %w", err)
				}

				return printState(cmd.OutOrStdout(), cfg.State.Backend, state, asJSON)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw state as JSON")

	return cmd
}

func printState(w io.Writer, backend string, state *models.SyncState, asJSON bool) error {
	if state == nil {
		fmt.Fprintf(w, "No sync state recorded (%s backend).\n", backend)
		return nil
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(state)
	}

	table := formatter.NewTable("Field", "Value")
	table.AddRow("Backend", backend)
	table.AddRow("Last sync", state.LastSync.Format(time.RFC3339))
	table.AddRow("Songs hash", state.SongsHash)
	table.AddRow("Run", state.RunID)
	table.AddRow("Total songs", strconv.Itoa(state.TotalSongs))
	table.AddRow("Forced", strconv.FormatBool(state.ForcedSync))

	fmt.Fprint(w, table)

	return nil
}
