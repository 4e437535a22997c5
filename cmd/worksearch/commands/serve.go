package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"worksearch/cmd/worksearch/globals"
	"worksearch/internal/api"
	"worksearch/internal/catalogue"
	"worksearch/lib/util/serviceutil"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [--addr <host:port>]",
		Short: "Serves catalogue searches over http.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := globals.Get(cmd.Context())
			if addr == "" {
				addr = g.Config.Serve.Addr
			}
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			client, err := catalogue.NewClient(g.ClientOptions())
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:    addr,
				Handler: api.NewRouter(client, g.Telemetry, api.Options{Sentry: g.Sentry}),
			}

			ctx, cancel := serviceutil.SignalContext(cmd.Context())
			defer cancel()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				err := srv.Shutdown(shutdownCtx)
				if err != nil {
					g.Telemetry.ReportWarning("serve.shutdown", err)
				}
			}()

			slog.Info("listening", "addr", addr)
			err = srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on, defaults to serve.addr in the config.")

	return cmd
}
