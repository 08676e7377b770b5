package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kataras/figma-ds-sync/pkg/mcpbridge"
	"github.com/kataras/figma-ds-sync/pkg/server"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP bridge",
		Long:  "Serve token pull/push, validation, platform builds and component specs over HTTP. Without credentials only the local endpoints work.",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if addr == "" {
				addr = cfg.Server.Addr
			}
			logger := server.NewLogger(verbose)

			var syncer server.Syncer
			if s, err := newSyncer(cfg, nil); err != nil {
				logger.Warn("figma routes disabled", "error", err)
			} else {
				syncer = s
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.New(syncer, logger).ListenAndServe(ctx, addr); err != nil {
				fail("%v", err)
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config: :8000)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every request")
	return cmd
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		Run: func(cmd *cobra.Command, args []string) {
			// stdout carries the protocol.
			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			var syncer mcpbridge.Syncer
			if s, err := newSyncer(loadConfig(), nil); err != nil {
				logger.Warn("figma tools disabled", "error", err)
			} else {
				syncer = s
			}

			if err := mcpbridge.NewServer(syncer, logger).ServeStdio(); err != nil {
				logger.Error("server error", "error", err)
				os.Exit(1)
			}
		},
	}
}
