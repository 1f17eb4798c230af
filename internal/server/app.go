// Package server wires configuration, storage, services and the HTTP API
// into one runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/nodekeeper/internal/logging"
	"github.com/dmitrijs2005/nodekeeper/internal/server/api"
	"github.com/dmitrijs2005/nodekeeper/internal/server/config"
	"github.com/dmitrijs2005/nodekeeper/internal/server/models"
	"github.com/dmitrijs2005/nodekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nodekeeper/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	profiles *services.ProfileService
	node     *services.NodeService
	server   *api.Server
}

// NewApp opens and migrates the store, seeds the bootstrap profile and builds
// the HTTP server. Logs go to out, or stdout when out is nil.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.New(logging.Options{
		Backend: c.LogBackend,
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		Output:  out,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, m, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	repomanager.SetLogger(logger.With("component", "migrations"))
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	profiles := services.NewProfileService(db, m)
	node := services.NewNodeService(profiles, c.RPCTimeout, logger)

	app := &App{config: c, logger: logger, db: db, profiles: profiles, node: node}
	if err := app.seed(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	h := api.NewHandler(profiles, node, logger)
	app.server = api.NewServer(h.Routes(), api.ServerOptions{
		Addr:            c.HTTPAddr,
		WriteTimeout:    c.RPCTimeout + api.DefaultWriteSlack,
		ShutdownTimeout: c.ShutdownTimeout,
	}, logger)

	return app, nil
}

// seed stores the configured bootstrap profile when the store is empty.
func (app *App) seed(ctx context.Context) error {
	b := app.config.Bootstrap
	if b.RPCURL == "" {
		return nil
	}
	p, created, err := app.profiles.Seed(ctx, models.NewProfileRequest{
		Name:        b.Name,
		RPCURL:      b.RPCURL,
		RPCUser:     b.RPCUser,
		RPCPassword: b.RPCPassword,
		Network:     b.Network,
	})
	if err != nil {
		return fmt.Errorf("bootstrap profile: %w", err)
	}
	if created {
		app.logger.Info(ctx, "bootstrap node configuration created", "id", p.ID, "name", p.Name)
	}
	return nil
}

// Run serves until ctx is done or SIGINT/SIGTERM arrives, then shuts down
// gracefully and closes the store.
func (app *App) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		_ = app.Close()
		return fmt.Errorf("listen %s: %w", app.config.HTTPAddr, err)
	}
	return app.Serve(ctx, l)
}

// Serve is Run on an existing listener.
func (app *App) Serve(ctx context.Context, l net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Serve(l)
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(context.Background(), "shutting down")
		return app.server.Shutdown(context.Background())
	})

	err := g.Wait()
	return errors.Join(err, app.Close())
}

// Close releases the store and flushes buffered logs.
func (app *App) Close() error {
	err := app.db.Close()
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return err
}
