package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/maturity"
	httpAdapter "github.com/aretw0/maturity/pkg/adapters/http"
	"github.com/aretw0/maturity/pkg/observability"
	"github.com/aretw0/maturity/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [questionnaire]",
	Short: "Serve the assessment over HTTP",
	Long: `Starts the REST API (see /openapi.yaml), a server-sent events stream at /events
and Prometheus metrics at /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Bool("watch", true, "Reload the questionnaire when its files change")
	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("server.watch", serveCmd.Flags().Lookup("watch"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hooks := observability.LoggingHooks(logger)
	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		hooks = observability.Combine(metrics.Hooks(), hooks)
		gatherer = reg
	}

	engine, err := loadEngine(args, maturity.WithLifecycleHooks(hooks))
	if err != nil {
		return err
	}

	backend, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessionOpts := []session.Option{session.WithLogger(logger), session.WithLockTTL(cfg.Store.LockTTL)}
	if backend.Locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(backend.Locker))
	}
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithSessionOptions(sessionOpts...),
	}
	if gatherer != nil {
		opts = append(opts, httpAdapter.WithMetrics(gatherer))
	}
	handler, err := httpAdapter.NewHandler(engine, backend.Store, opts...)
	if err != nil {
		return err
	}

	if cfg.Server.Watch {
		if err := engine.WatchAndReload(ctx); err != nil {
			if !errors.Is(err, maturity.ErrNotWatchable) {
				return err
			}
			logger.Debug("questionnaire source is not watchable")
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "questionnaire", engine.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
