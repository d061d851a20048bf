package commands

import (
	"context"
	"fmt"

	"github.com/danielhan/advisor/internal/cache"
	"github.com/danielhan/advisor/internal/engine"
	"github.com/danielhan/advisor/internal/provider/yahoo"
	"github.com/danielhan/advisor/internal/taxonomy"
	"github.com/danielhan/advisor/internal/universe"
	"github.com/danielhan/advisor/pkg/config"
	"github.com/danielhan/advisor/pkg/database"
	"github.com/danielhan/advisor/pkg/httputil"
	"github.com/danielhan/advisor/pkg/logger"
	"github.com/danielhan/advisor/pkg/redis"
)

// app bundles the wired pipeline shared by every command.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	taxonomy *taxonomy.Taxonomy
	yahoo    *yahoo.Client
	resolver *engine.Resolver
	engine   *engine.Engine

	closers []func()
}

// newApp loads config and wires the full pipeline: taxonomy, cache
// backend, provider, resolver and engine.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	a := &app{cfg: cfg, log: log}

	tax, err := loadTaxonomy(cfg)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	a.taxonomy = tax

	store, err := a.newCacheStore()
	if err != nil {
		a.close()
		return nil, err
	}

	httpClient := httputil.
		NewWithTimeout(cfg, log, cfg.Provider.Timeout).
		WithRateLimit(cfg.Provider.RatePerSec, cfg.Provider.RateBurst)
	a.yahoo = yahoo.NewClient(httpClient, cfg.Provider.BaseURL, log)

	a.resolver = engine.NewResolver(store, a.yahoo, cfg.Provider.HistorySpan, cfg.Engine.Workers, log)

	scorer, err := engine.NewScorer(tax, engine.DefaultWeights())
	if err != nil {
		a.close()
		return nil, err
	}

	a.engine = engine.New(
		universe.NewBuilder(tax, log),
		a.resolver,
		engine.NewFilter(tax, log),
		scorer,
		log,
	)

	return a, nil
}

// close releases backend connections in reverse acquisition order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func loadTaxonomy(cfg *config.Config) (*taxonomy.Taxonomy, error) {
	if cfg.TaxonomyPath == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.Load(cfg.TaxonomyPath)
}

// newCacheStore selects the cache backend from config.
func (a *app) newCacheStore() (cache.Store, error) {
	switch a.cfg.Cache.Backend {
	case "postgres":
		db, err := database.New(a.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		store := cache.NewPostgresStore(db.Pool, a.log)
		if err := store.EnsureSchema(context.Background()); err != nil {
			return nil, fmt.Errorf("ensure cache schema: %w", err)
		}
		a.log.Info("Using postgres cache backend")
		return store, nil

	case "redis":
		client, err := redis.New(a.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { client.Close() })

		a.log.Info("Using redis cache backend")
		return cache.NewRedisStore(client, "advisor", a.log), nil

	default:
		store, err := cache.NewFileStore(a.cfg.Cache.Dir, a.log)
		if err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		a.log.WithField("dir", a.cfg.Cache.Dir).Info("Using file cache backend")
		return store, nil
	}
}
