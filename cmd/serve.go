package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/codencytech/smartdesk-mirror/internal/config"
	"github.com/codencytech/smartdesk-mirror/internal/discovery"
	"github.com/codencytech/smartdesk-mirror/internal/gateway"
	agenthttp "github.com/codencytech/smartdesk-mirror/internal/http"
	"github.com/codencytech/smartdesk-mirror/internal/pairing"
	"github.com/codencytech/smartdesk-mirror/internal/providers"
	"github.com/codencytech/smartdesk-mirror/internal/sessions"
)

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the PC agent (HTTP API + discovery beacon)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "smartdesk.yaml", "path to config file (optional)")
	return cmd
}

func runServe(cfg config.Config) error {
	// Protocol state: one instance each, shared by all handlers, gone on exit.
	registry := pairing.NewRegistry()
	store := sessions.NewStore()
	workflow := pairing.NewWorkflow(registry, store)

	metrics := providers.NewMetrics()
	gw := gateway.New(
		store,
		providers.NewScreen(cfg.Frame.Width, cfg.Frame.Height, cfg.Frame.Quality),
		providers.NewAutomation(metrics),
		metrics,
	)

	beacon := discovery.NewBeacon(cfg.DiscoveryPort, cfg.Port, cfg.HostName, registry.Current)
	if err := beacon.Start(); err != nil {
		return fmt.Errorf("start discovery beacon: %w", err)
	}
	defer beacon.Stop()

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: agenthttp.NewHandler(agenthttp.Deps{
			Registry: registry,
			Workflow: workflow,
			Sessions: store,
			Gateway:  gw,
			Config:   cfg,
		}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("agent listening", "addr", srv.Addr, "host", cfg.HostName)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
