package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/morphonent/morphonent/internal/demo"
	"github.com/morphonent/morphonent/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
	)

	cmd := &cobra.Command{
		Use:   "serve [app]",
		Short: "Serve an app with live sessions",
		Long: `Serve a demo app. Every browser tab gets its own live session
that adopts the served markup and pushes updates over WebSocket.

Settings come from morphonent.yaml (or --config), then from the
MORPHONENT_* environment variables, then from flags.

Examples:
  morphonent serve
  morphonent serve ping --port=9090
  morphonent serve --config=deploy/morphonent.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Server.App = args[0]
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			app, err := demo.Lookup(cfg.Server.App)
			if err != nil {
				return err
			}

			logger := cfg.Logger(os.Stderr)
			slog.SetDefault(logger)

			printBanner(cmd.OutOrStdout())
			success(cmd.OutOrStdout(), "Serving %s on http://%s", cfg.Server.App, cfg.Address())
			if cfg.Metrics.Enabled {
				info(cmd.OutOrStdout(), "Metrics at %s", cfg.Metrics.Path)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.AppFunc(app), serverConfig(cfg), server.WithLogger(logger))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (default ./morphonent.yaml)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to")

	return cmd
}
