package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"sheetsync/internal/formatter"
	"sheetsync/internal/models"
	"sheetsync/internal/normalizer"
	"sheetsync/pkg/utils"
)

const titleColumnWidth = 40

func newValidateCmd() *cobra.Command {
	var showRejected bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Fetch and normalize the sheet without writing anything",
		Long:  "Runs the filter and normalizer over the worksheet and prints the songs that would be published.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, showRejected)
		},
	}

	cmd.Flags().BoolVar(&showRejected, "rejected", false, "Also list rejected rows")

	return cmd
}

func runValidate(cmd *cobra.Command, showRejected bool) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		records, err := d.Source.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetching records: %w", err)
		}

		processor := normalizer.NewProcessor()
		filtered := processor.Filter(records)
		grouped := processor.Group(filtered.Accepted)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d rows, %d accepted, %d rejected, %d songs\n\n",
			len(records), len(filtered.Accepted), len(filtered.Rejected), len(grouped.Songs))
		if table := songTable(grouped.Songs); table.Len() > 0 {
			fmt.Fprint(out, table)
		} else {
			fmt.Fprintln(out, "No songs would be published.")
		}

		if len(grouped.Warnings) > 0 {
			fmt.Fprintln(out, "\nWarnings:")

			for _, w := range grouped.Warnings {
				fmt.Fprintf(out, "  - %s\n", w)
			}
		}

		if showRejected {
			printRejected(out, filtered.Rejected)
		}

		return nil
	})
}

func songTable(songs map[string]*models.Song) *formatter.Table {
	titles := make([]string, 0, len(songs))
	for title := range songs {
		titles = append(titles, title)
	}

	sort.Strings(titles)

	table := formatter.NewTable("Row", "Title", "File", "Producer", "Release", "PDFs")
	table.MaxWidth = titleColumnWidth

	for _, title := range titles {
		song := songs[title]

		slots := make([]string, 0, len(song.PDFs))
		for _, slot := range normalizer.AttachmentSlots {
			if _, ok := song.PDFs[slot]; ok {
				slots = append(slots, slot)
			}
		}

		file := utils.Slugify(title)
		if file != "" {
			file += ".json"
		}

		table.AddRow(
			fmt.Sprint(song.Row),
			title,
			file,
			song.Producer,
			song.ReleaseDate,
			strings.Join(slots, ","),
		)
	}

	return table
}

func printRejected(w io.Writer, rejected []*normalizer.RejectionError) {
	if len(rejected) == 0 {
		return
	}

	fmt.Fprintln(w, "\nRejected:")

	for _, rej := range rejected {
		fmt.Fprintf(w, "  - %v\n", rej)
	}
}
