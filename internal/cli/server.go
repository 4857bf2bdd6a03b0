package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mock-interview-service/internal/app"
	"mock-interview-service/internal/config"
	"mock-interview-service/internal/logger"
	"mock-interview-service/internal/metrics"
	transport "mock-interview-service/internal/transport/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the interview server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	l, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return err
	}
	defer l.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, l); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := connectBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	scorer, err := buildScorer(ctx, cfg, l)
	if err != nil {
		return err
	}

	m := metrics.NewMetrics()
	service := app.NewInterviewService(buildSessionStore(cfg, b), buildCatalogs(cfg, b), scorer, sessionConfig(cfg, m, l))

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(service, m, l),
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: websocket connections stay open for the whole interview
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		l.Info("starting interview service", zap.String("addr", server.Addr), zap.String("scorer", cfg.Scorer.Provider))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		l.Info("shutting down server...")
	case <-ctx.Done():
		l.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
