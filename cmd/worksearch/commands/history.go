package commands

import (
	"fmt"
	"strconv"
	"time"

	"worksearch/cmd/worksearch/utils"
	"worksearch/internal/archive"
	"worksearch/internal/catalogue"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var dbPath string
	var limit int
	var query catalogue.SearchQuery
	var output outputFlags

	cmd := &cobra.Command{
		Use:   "history --db <path> [id | --title <title> --writer <surname> --performer <performer>]",
		Short: "Lists the searches saved with --db, or prints one of them again.",
		Long: `Lists the searches saved with --db, newest first.

Given an id, the saved search is printed again. Given search terms, the most
recent search with exactly those terms is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasTerms := query.Title != "" || query.Writer != "" || query.Performer != ""
			if len(args) > 0 && hasTerms {
				return fmt.Errorf("give either a search id or search terms, not both")
			}

			store, err := archive.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			var entry archive.Entry
			switch {
			case len(args) > 0:
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid search id %q: %w", args[0], err)
				}
				entry, err = store.Load(cmd.Context(), id)
				if err != nil {
					return err
				}
			case hasTerms:
				entry, err = store.Latest(cmd.Context(), query)
				if err != nil {
					return err
				}
			default:
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				renderHistory(cmd, entries)
				return nil
			}

			err = render(cmd.OutOrStdout(), entry.Result, output)
			if err != nil {
				return err
			}
			if a.verbose {
				return renderSeen(cmd, store, entry)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "The sqlite database searches were saved to.")
	cmd.Flags().IntVar(&limit, "limit", 20, "How many searches to list.")
	cmd.MarkFlagRequired("db")
	registerQueryFlags(cmd, &query)
	output.registerFormat(cmd)

	return cmd
}

func renderHistory(cmd *cobra.Command, entries []archive.Entry) {
	t := utils.NewTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"ID", "Searched At", "Title", "Writer", "Performer", "Found", "Source"})
	for _, entry := range entries {
		t.AppendRow(table.Row{
			entry.ID,
			entry.SearchedAt.Format(time.DateTime),
			entry.Query.Title,
			entry.Query.Writer,
			entry.Query.Performer,
			entry.Result.Found,
			entry.Result.Source,
		})
	}
	t.Render()
}

// renderSeen writes when the entry was searched and how often each of its
// works has turned up across the archive.
func renderSeen(cmd *cobra.Command, store archive.Store, entry archive.Entry) error {
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\nSearch %d, searched at: %s\n", entry.ID, entry.SearchedAt.Format(time.DateTime))
	for _, record := range entry.Result.Results {
		seen, err := store.TimesSeen(cmd.Context(), record.WorkID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s seen in %d saved search(es)\n", record.WorkID, seen)
	}
	return nil
}
