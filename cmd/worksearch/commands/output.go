package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"worksearch/cmd/worksearch/globals"
	"worksearch/cmd/worksearch/utils"
	"worksearch/internal/archive"
	"worksearch/internal/catalogue"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type outputFlags struct {
	json  bool
	table bool
	best  bool
	db    string
}

// registerFormat registers only the flags that pick how a result is printed.
func (o *outputFlags) registerFormat(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Print the result as JSON.")
	cmd.Flags().BoolVar(&o.table, "table", false, "Print the results as a table.")
	cmd.MarkFlagsMutuallyExclusive("json", "table")
}

func (o *outputFlags) register(cmd *cobra.Command) {
	o.registerFormat(cmd)
	cmd.Flags().BoolVar(&o.best, "best", false, "Only print the result that best matches the search terms.")
	cmd.Flags().StringVar(&o.db, "db", "", "Also save the result to this sqlite database.")
}

func echoTerms(w io.Writer, query catalogue.SearchQuery) {
	fmt.Fprintln(w, "Searching for:")
	if query.Title != "" {
		fmt.Fprintf(w, "  Title: %s\n", query.Title)
	}
	if query.Writer != "" {
		fmt.Fprintf(w, "  Writer: %s\n", query.Writer)
	}
	if query.Performer != "" {
		fmt.Fprintf(w, "  Performer: %s\n", query.Performer)
	}
	fmt.Fprintln(w)
}

// emit saves the result when --db is given and prints it.
func emit(cmd *cobra.Command, query catalogue.SearchQuery, result catalogue.SearchResult, output outputFlags) error {
	if output.db != "" {
		err := save(cmd, output.db, query, result)
		if err != nil {
			return err
		}
	}
	if output.best {
		result = bestOnly(query, result)
	}
	return render(cmd.OutOrStdout(), result, output)
}

func save(cmd *cobra.Command, path string, query catalogue.SearchQuery, result catalogue.SearchResult) error {
	g := globals.Get(cmd.Context())

	store, err := archive.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(cmd.Context(), query, result, time.Now())
	if err != nil {
		g.Telemetry.ReportBroken("archive.save", err, path)
		return fmt.Errorf("save to %s: %w", path, err)
	}
	g.Telemetry.ReportDebug("saved search", "id", id, "db", path)
	return nil
}

// bestOnly narrows a result down to its closest match.
func bestOnly(query catalogue.SearchQuery, result catalogue.SearchResult) catalogue.SearchResult {
	best, _, ok := catalogue.BestMatch(query, result.Results)
	if !ok {
		return result
	}
	result.Results = []catalogue.SongRecord{best}
	result.Count = 1
	result.Message = "Found 1 result(s)"
	return result
}

func render(w io.Writer, result catalogue.SearchResult, output outputFlags) error {
	switch {
	case output.json:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case output.table:
		renderTable(w, result)
		return nil
	default:
		_, err := fmt.Fprintln(w, catalogue.FormatResult(result))
		return err
	}
}

func renderTable(w io.Writer, result catalogue.SearchResult) {
	if !result.Found {
		fmt.Fprintln(w, result.Message)
		return
	}

	t := utils.NewTable(w)
	t.AppendHeader(table.Row{"Work ID", "Title", "Writers", "Performers", "Publishers", "AMCOS Control", "Local Work"})
	for _, record := range result.Results {
		local := "No"
		if record.LocalWork {
			local = "Yes"
		}
		t.AppendRow(table.Row{
			record.WorkID,
			record.Title,
			strings.Join(record.Writers, "\n"),
			catalogue.FormatPerformers(record.Performers),
			strings.Join(record.Publishers, "\n"),
			record.AmcosControl,
			local,
		})
	}
	t.Render()
}
