package cli

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"taskmcp/internal/config"
	"taskmcp/internal/httpapi"
	"taskmcp/internal/mcpserver"
)

func (a *App) serveCommand() *cobra.Command {
	var transport, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task tools over MCP",
		Long: `Serve the task tools.

With --transport stdio (the default) the server speaks newline-delimited
JSON-RPC on stdin/stdout. With --transport http it serves the REST API,
the OpenAI shim and the MCP streamable HTTP endpoint at /mcp.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("transport") {
				a.cfg.Server.Transport = strings.ToLower(transport)
			}
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			ctx := cmd.Context()
			d, _, err := a.newDispatcher(ctx)
			if err != nil {
				return err
			}
			srv := mcpserver.New(d, mcpserver.Info{Name: a.cfg.Server.Name, Version: Version}, a.log)

			switch a.cfg.Server.Transport {
			case config.TransportStdio:
				if err := srv.ServeStdio(ctx, a.in, a.out); err != nil && !errors.Is(err, ctx.Err()) {
					return backendError(err)
				}
				return nil
			case config.TransportHTTP:
				if !a.cfg.Debug {
					gin.SetMode(gin.ReleaseMode)
				}
				api := httpapi.NewServer(d,
					httpapi.WithLogger(a.log),
					httpapi.WithVersion(Version),
					httpapi.WithMCPHandler(srv.HTTPHandler()),
				)
				if err := api.Run(ctx, a.cfg.Server.Addr); err != nil {
					return backendError(err)
				}
				return nil
			default:
				return userErrorf("invalid transport %q, must be one of: stdio, http", a.cfg.Server.Transport)
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", config.TransportStdio, "Transport: stdio or http")
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "Listen address for the http transport")
	return cmd
}
