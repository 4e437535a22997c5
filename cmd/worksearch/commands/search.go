package commands

import (
	"fmt"

	"worksearch/cmd/worksearch/globals"
	"worksearch/internal/catalogue"

	"github.com/spf13/cobra"
)

func registerQueryFlags(cmd *cobra.Command, query *catalogue.SearchQuery) {
	cmd.Flags().StringVarP(&query.Title, "title", "t", "", "Song title to search for.")
	cmd.Flags().StringVarP(&query.Writer, "writer", "w", "", "Writer surname (last name only).")
	cmd.Flags().StringVarP(&query.Performer, "performer", "p", "", "Performer name.")
}

func runSearch(cmd *cobra.Command, query catalogue.SearchQuery, output outputFlags) error {
	g := globals.Get(cmd.Context())

	err := query.Validate()
	if err != nil {
		return fmt.Errorf("%w (use --title or --performer)", err)
	}

	client, err := catalogue.NewClient(g.ClientOptions())
	if err != nil {
		return err
	}

	if query.Verbose {
		echoTerms(cmd.ErrOrStderr(), query)
	}

	result, err := client.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	err = emit(cmd, query, result, output)
	if err != nil {
		return err
	}
	if query.Verbose && result.Found {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nSearch URL: %s\n", result.SearchURL)
	}
	if !result.Found {
		return errNoResults
	}
	return nil
}
