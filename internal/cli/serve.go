package cli

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bravo-Actual/timegrid/internal/config"
	"github.com/Bravo-Actual/timegrid/internal/server"
	"github.com/Bravo-Actual/timegrid/pkg/cache"
	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
	"github.com/Bravo-Actual/timegrid/pkg/store"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		storeBackend string
		cacheBackend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schedules and layouts over HTTP",
		Long: `Serve schedules and layouts over HTTP.

Routes:
  GET    /healthz
  GET    /api/schedules
  GET    /api/schedules/{id}
  PUT    /api/schedules/{id}
  DELETE /api/schedules/{id}
  POST   /api/layout
  GET    /schedules/{id}/view.svg

Schedules persist in the store backend (file or mongo); layout results go
through the cache backend (file, redis or off). Backends and their
connection details come from the [server], [store] and [cache] sections of
the config file; flags override the backend choice.

Examples:
  timegrid serve
  timegrid serve --addr :9090 --store mongo --cache redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = ":8080"
				if cfg != nil && cfg.Server.Addr != "" {
					addr = cfg.Server.Addr
				}
			}
			if storeBackend == "" {
				storeBackend = config.StoreFile
				if cfg != nil && cfg.Store.Backend != "" {
					storeBackend = cfg.Store.Backend
				}
			}
			if cacheBackend == "" {
				cacheBackend = config.CacheFile
				if cfg != nil && cfg.Cache.Backend != "" {
					cacheBackend = cfg.Cache.Backend
				}
			}

			return c.runServe(cmd.Context(), addr, storeBackend, cacheBackend, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&storeBackend, "store", "", "schedule store backend: file, mongo (default file)")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "layout cache backend: file, redis, off (default file)")

	return cmd
}

// runServe starts the HTTP server and blocks until the context is canceled
// or the listener fails.
func (c *CLI) runServe(ctx context.Context, addr, storeBackend, cacheBackend string, cfg *config.Config) error {
	st, err := buildStore(ctx, storeBackend, cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	layoutCache, err := buildServeCache(ctx, cacheBackend, cfg)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	runner := pipeline.NewRunner(layoutCache, nil, c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(st, runner, c.Logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "store", storeBackend, "cache", cacheBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Drain in-flight requests before exiting.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	c.Logger.Info("server stopped")
	return nil
}

// buildStore creates the schedule store for the chosen backend. File paths
// default to the XDG data directory, mongo settings to a local instance.
func buildStore(ctx context.Context, backend string, cfg *config.Config) (store.Store, error) {
	switch backend {
	case config.StoreFile:
		dir := ""
		if cfg != nil {
			dir = cfg.Store.Path
		}
		if dir == "" {
			base, err := dataDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(base, "schedules")
		}
		return store.NewFileStore(dir)

	case config.StoreMongo:
		var uri, database, collection string
		if cfg != nil {
			uri = cfg.Store.MongoURI
			database = cfg.Store.MongoDatabase
			collection = cfg.Store.MongoCollection
		}
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		if database == "" {
			database = appName
		}
		if collection == "" {
			collection = "schedules"
		}
		return store.NewMongoStore(ctx, uri, database, collection)

	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown store backend %q (valid: file, mongo)", backend)
	}
}

// buildServeCache creates the layout cache for the chosen backend.
func buildServeCache(ctx context.Context, backend string, cfg *config.Config) (cache.Cache, error) {
	switch backend {
	case config.CacheOff:
		return cache.NewNullCache(), nil

	case config.CacheRedis:
		var addr, password string
		var db int
		if cfg != nil {
			addr = cfg.Cache.RedisAddr
			password = cfg.Cache.RedisPassword
			db = cfg.Cache.RedisDB
		}
		if addr == "" {
			addr = "localhost:6379"
		}
		return cache.NewRedisCache(ctx, addr, password, db)

	case config.CacheFile:
		dir := ""
		if cfg != nil {
			dir = cfg.Cache.Dir
		}
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)

	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (valid: file, redis, off)", backend)
	}
}
