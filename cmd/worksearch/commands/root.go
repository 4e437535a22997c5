package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"worksearch/cmd/worksearch/globals"
	"worksearch/internal/catalogue"
	"worksearch/internal/components/telemetry"
	"worksearch/internal/config"
	"worksearch/lib/restyutil"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

const serviceName = "worksearch"

// set at build time with -ldflags "-X worksearch/cmd/worksearch/commands.version=..."
var version = "dev"

// errNoResults ends a search that found nothing, the message has already been
// printed so only the exit status is left to set.
var errNoResults = errors.New("no results")

type app struct {
	verbose bool
	dumpDir string
	cleanup []func()
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

// setup reads the config and wires telemetry, the result is stored in the
// command's context for the subcommands to pick up.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	telemetry.InitSlog(a.verbose)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var tel telemetry.API = telemetry.SlogAPI{}

	sentryEnabled, err := telemetry.InitSentry(cfg.SentryDsn, version)
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	if sentryEnabled {
		tel = telemetry.MultiAPI{tel, telemetry.NewSentryAPI(nil)}
		a.cleanup = append(a.cleanup, func() {
			sentry.Flush(2 * time.Second)
		})
	}

	providers, err := telemetry.SetupOtel(cmd.Context(), serviceName, cfg.Telemetry())
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	a.cleanup = append(a.cleanup, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := providers.Shutdown(ctx)
		if err != nil {
			tel.ReportWarning("otel.shutdown", err)
		}
	})

	value := &globals.Value{
		Config:    cfg,
		Telemetry: tel,
		Sentry:    sentryEnabled,
	}
	if a.dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(a.dumpDir)
		if err != nil {
			return fmt.Errorf("create dump directory: %w", err)
		}
		value.Dump = output
	}

	cmd.SetContext(globals.Set(cmd.Context(), value))
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	var query catalogue.SearchQuery
	var output outputFlags

	rootCmd := &cobra.Command{
		Use:   "worksearch --title <title> | --performer <performer> [--writer <surname>]",
		Short: "worksearch searches the APRA AMCOS song catalogue.",
		Example: `  worksearch --title "ordinary" --performer "alex warren"
  worksearch --title "bohemian rhapsody" --writer "mercury"
  worksearch --performer "the beatles"`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			query.Verbose = a.verbose
			return runSearch(cmd, query, output)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output.")
	rootCmd.PersistentFlags().StringVar(&a.dumpDir, "dump", "", "Write every request and response sent to the catalogue to this directory.")
	registerQueryFlags(rootCmd, &query)
	output.register(rootCmd)

	rootCmd.AddCommand(
		newParseCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
	)

	return rootCmd
}

// exitCode maps the error a command returned to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, catalogue.ErrInvalidQuery):
		return 2
	default:
		return 1
	}
}

func ExecuteContext(ctx context.Context) {
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()

	if err != nil && !errors.Is(err, errNoResults) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}
