// Package internal provides the application wiring behind every command.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/modcat/internal/api"
	"github.com/starford/modcat/internal/catalogservice"
	"github.com/starford/modcat/internal/index"
	"github.com/starford/modcat/internal/mcpserver"
	"github.com/starford/modcat/internal/sse"
	"github.com/starford/modcat/internal/storage"
	"github.com/starford/modcat/internal/watch"
)

// setup applies opts, checks the config and installs the JSON logger.
func setup(opts []Option) (*application, *slog.Logger, error) {
	app := newApplication(opts)
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	// stdout carries the catalog, so logs always go to stderr.
	logger := slog.New(slog.NewJSONHandler(app.stderr, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		slog.String("root", app.config.Catalog.Root),
		slog.String("output", app.config.Catalog.Output),
		slog.String("sqlite_path", app.config.SQLite.Path),
		slog.String("log_level", app.config.App.LogLevel.String()))
	return app, logger, nil
}

func (app *application) openStore(logger *slog.Logger) (*storage.FS, error) {
	opts := []storage.Option{storage.WithLogger(logger)}
	if len(app.config.Catalog.Extensions) > 0 {
		opts = append(opts, storage.WithExtensions(app.config.Catalog.Extensions))
	}
	return storage.NewFS(app.config.Catalog.Root, opts...)
}

// catalogRuntime is the live catalog shared by the long-running commands.
type catalogRuntime struct {
	store *storage.FS
	svc   *catalogservice.Service
	db    index.CatalogIndex // nil when sqlite export is off
	close func()
}

// openRuntime builds the catalog service and its first catalog.
func (app *application) openRuntime(ctx context.Context, logger *slog.Logger) (*catalogRuntime, error) {
	store, err := app.openStore(logger)
	if err != nil {
		return nil, err
	}

	rt := &catalogRuntime{store: store, close: func() {}}
	if app.config.SQLite.Enabled() {
		sqlDB, err := index.Open(app.config.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		rt.db = sqlDB
		rt.close = func() { _ = sqlDB.Close() }
	}

	rt.svc = catalogservice.NewService(store, rt.db, logger)
	if _, err := rt.svc.Rebuild(ctx); err != nil {
		rt.close()
		return nil, fmt.Errorf("initial build: %w", err)
	}
	return rt, nil
}

// watchTree rebuilds the catalog after every burst of changes and tells
// SSE subscribers about it. broker may be nil.
func watchTree(ctx context.Context, cfg *Config, store *storage.FS, svc *catalogservice.Service, broker *sse.Broker, logger *slog.Logger) error {
	return watch.Watch(ctx, watch.Config{
		Root:     store.Root(),
		Debounce: cfg.Watch.Debounce,
		Relevant: store.Allowed,
	}, logger, func() {
		changed, err := svc.Rebuild(ctx)
		if err != nil {
			logger.Warn("rebuild failed", slog.String("error", err.Error()))
			if broker != nil {
				broker.Publish(sse.Event{Type: sse.EventRebuildFailed, Data: map[string]string{"error": err.Error()}})
			}
			return
		}
		if changed && broker != nil {
			report, sum := svc.Snapshot()
			broker.PublishCatalogUpdated(report.TotalFiles, sum)
		}
	})
}

// Serve runs the HTTP API over a continuously rebuilt catalog until ctx
// is cancelled or a termination signal arrives.
func Serve(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	rt, err := app.openRuntime(ctx, logger)
	if err != nil {
		return err
	}
	defer rt.close()
	svc := rt.svc

	broker := sse.NewBroker(time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(svc, broker, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.New(app.stderr, "", log.LstdFlags),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		report, sum := svc.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":      "ok",
			"total_files": report.TotalFiles,
			"checksum":    sum,
		})
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watchTree(gCtx, cfg, rt.store, svc, broker, logger)
	})

	g.Go(func() error {
		logger.Info("starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}

// errShutdown stops the errgroup once the HTTP server has been shut down,
// so the watcher exits on signal as well as on ctx cancellation.
var errShutdown = errors.New("shutdown")

// ServeMCP exposes the catalog over MCP on stdin/stdout. The tree is
// watched so answers follow the files on disk.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}

	rt, err := app.openRuntime(ctx, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	watchCtx, cancel := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		if err := watchTree(watchCtx, app.config, rt.store, rt.svc, nil, logger); err != nil {
			logger.Warn("watcher stopped", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		cancel()
		<-watchDone
	}()

	logger.Info("starting MCP server", slog.String("root", rt.store.Root()))
	return mcpserver.New(rt.svc, rt.db, app.version).ServeStdio()
}
