package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"sheetsync/internal/formatter"
	"sheetsync/internal/syncer"
	"sheetsync/pkg/fingerprint"
)

func newSyncCmd() *cobra.Command {
	var opts syncer.Options

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch the sheet and regenerate song files when it changed",
		Long: "Fetches the worksheet, keeps the completed songs that have at least one PDF, " +
			"and rewrites the per-song JSON files and the manifest when the accepted rows " +
			"differ from the last successful sync.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Regenerate even if nothing changed")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would be written without writing")

	return cmd
}

func runSync(cmd *cobra.Command, opts syncer.Options) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		s, err := d.newSyncer()
		if err != nil {
			return err
		}

		result, err := s.Run(ctx, opts)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		printSummary(cmd.OutOrStdout(), result)

		return nil
	})
}

func printSummary(w io.Writer, r *syncer.Result) {
	table := formatter.NewTable("Metric", "Value")
	table.AddRow("Run", r.RunID)
	table.AddRow("Decision", string(r.Decision))
	table.AddRow("Fingerprint", fingerprint.Short(r.Fingerprint))
	table.AddRow("Rows read", strconv.Itoa(r.RowsRead))
	table.AddRow("Accepted", strconv.Itoa(r.Accepted))

	reasons := make([]string, 0, len(r.Rejections))
	for reason := range r.Rejections {
		reasons = append(reasons, reason)
	}

	sort.Strings(reasons)

	for _, reason := range reasons {
		table.AddRow("Rejected: "+reason, strconv.Itoa(r.Rejections[reason]))
	}

	if r.Synced() {
		table.AddRow("Songs", strconv.Itoa(r.Songs))
		table.AddRow("Duplicate titles", strconv.Itoa(r.Duplicates))
		table.AddRow("Date warnings", strconv.Itoa(r.DateWarnings))
		table.AddRow("Slug collisions", strconv.Itoa(r.Collisions))
		table.AddRow("Empty slugs", strconv.Itoa(r.EmptySlugs))
		table.AddRow("Files", strconv.Itoa(len(r.Files)))
		table.AddRow("Pruned", strconv.Itoa(len(r.Pruned)))
	}

	table.AddRow("Duration", r.Duration.String())

	title := "📊 Sync summary"
	if r.DryRun {
		title += " (dry run)"
	}

	fmt.Fprintf(w, "%s\n\n%s", title, table)
}
