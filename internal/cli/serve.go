package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taskmaster/internal/auth"
	"taskmaster/internal/server"
	"taskmaster/internal/storage/sqlstore"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	logger.Info("Task Master", slog.String("version", Version))

	hasher, err := auth.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlstore.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		return err
	}
	defer store.Close()

	srv, err := server.New(store, logger, server.Options{
		StaticDir:         cfg.Server.StaticDir,
		StrictTransitions: cfg.Tasks.StrictTransitions,
		CORSOrigins:       cfg.Server.CORSOrigins,
		Hasher:            hasher,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.String("addr", httpServer.Addr),
			slog.String("driver", cfg.Database.Driver),
			slog.Bool("strict_transitions", cfg.Tasks.StrictTransitions),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}
