// Package bootstrap wires configuration into the catalog, cache and usecase
// layers shared by the HTTP server and the CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"go.uber.org/zap"

	"github.com/recipecost/backend/config"
	"github.com/recipecost/backend/internal/domain"
	"github.com/recipecost/backend/internal/infrastructure/cache"
	"github.com/recipecost/backend/internal/infrastructure/catalog"
	"github.com/recipecost/backend/internal/infrastructure/catalogapi"
	"github.com/recipecost/backend/internal/infrastructure/units"
	"github.com/recipecost/backend/internal/usecase"
)

// App holds the wired services and the resources they keep open
type App struct {
	Recipes   *usecase.RecipeService
	Summaries *usecase.SummaryService

	closers []io.Closer
}

// New builds the services selected by cfg
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{}

	reference, err := cfg.Nutrition.Reference()
	if err != nil {
		return nil, err
	}
	table, err := units.NewTable(reference)
	if err != nil {
		return nil, err
	}

	products, recipes, err := app.openCatalog(cfg.Catalog, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	summaryCache, err := app.openCache(ctx, cfg.Cache)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Recipes = usecase.NewRecipeService(products, table, usecase.DefaultBridgeRules(), logger)
	app.Summaries = usecase.NewSummaryService(
		recipes,
		app.Recipes,
		summaryCache,
		usecase.SummaryServiceConfig{CacheTTL: cfg.Cache.TTL},
		logger,
	)

	logger.Info("services initialized",
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Stringer("nutrient_reference", reference))

	return app, nil
}

// Close releases every resource opened by New
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openCatalog(cfg config.CatalogConfig, logger *zap.Logger) (domain.CatalogRepository, domain.RecipeRepository, error) {
	matcher := catalog.NewMatcher(catalog.MatcherConfig{
		EnableFuzzyMatching: cfg.FuzzyMatching,
		FuzzyEditDistance:   cfg.FuzzyEditDistance,
	})

	switch cfg.Source {
	case config.CatalogSourceFile:
		dataset, err := catalog.LoadDataset(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		memCatalog := catalog.NewMemoryCatalog(dataset, matcher)
		return memCatalog, memCatalog, nil

	case config.CatalogSourceSQLite:
		store, err := catalog.OpenSQLite(cfg.DSN, matcher)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, store)
		return store, store, nil

	case config.CatalogSourceRemote:
		client := catalogapi.NewClient(catalogapi.ClientConfig{
			BaseURL:           cfg.BaseURL,
			APIKey:            cfg.APIKey,
			RequestsPerSecond: cfg.RateLimit,
			Timeout:           cfg.Timeout,
		}, logger)

		// Recipes still come from the dataset file when one exists
		dataset := &catalog.Dataset{}
		var err error
		if cfg.Path != "" {
			dataset, err = catalog.LoadDataset(cfg.Path)
		}
		switch {
		case errors.Is(err, fs.ErrNotExist) || cfg.Path == "":
			logger.Warn("no recipe dataset found, serving ad-hoc recipes only", zap.String("path", cfg.Path))
			dataset = &catalog.Dataset{}
		case err != nil:
			return nil, nil, err
		}
		return client, catalog.NewMemoryCatalog(dataset, matcher), nil

	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

func (a *App) openCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, redisCache)
		return redisCache, nil
	case "memory", "":
		memCache := cache.NewMemoryCache(cfg.CleanupInterval)
		a.closers = append(a.closers, memCache)
		return memCache, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
