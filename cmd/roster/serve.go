package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/roster-core/internal/infrastructure/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long:  "Serves the company, employee and audit endpoints until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides http.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		httpCfg := d.Config.HTTP
		if addr != "" {
			httpCfg.Addr = addr
		}

		api := httpapi.New(d.CompanyHandler, d.EmployeeHandler, d.AuditHandler, d.Metrics, d.Logger)
		srv := httpapi.NewServer(httpCfg, api.Router())

		return httpapi.Serve(ctx, srv, time.Duration(httpCfg.ShutdownTimeout)*time.Second, d.Logger)
	})
}
