package commands

import (
	"fmt"
	"os"

	"worksearch/internal/catalogue"

	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var query catalogue.SearchQuery
	var output outputFlags

	cmd := &cobra.Command{
		Use:   "parse <saved-results.html>",
		Short: "Parses a results page saved from the catalogue website.",
		Long: `Parses a results page saved from the catalogue website.

1. Go to https://www.apraamcos.com.au/works-search
2. Search for your song manually
3. Save the results page as HTML
4. Run: worksearch parse path/to/saved-results.html

The search flags are optional here, they are only used to rank results with
--best and to label the search saved with --db.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := catalogue.ExtractReader(f)
			if err != nil {
				return err
			}
			result.Source = path

			err = emit(cmd, query, result, output)
			if err != nil {
				return err
			}
			if a.verbose && result.Found {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nParsed from: %s\n", result.Source)
			}
			if !result.Found {
				return errNoResults
			}
			return nil
		},
	}

	registerQueryFlags(cmd, &query)
	output.register(cmd)

	return cmd
}
