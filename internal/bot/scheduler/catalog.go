// Package scheduler keeps the shared catalog cache warm.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"jarrib-bot/internal/api/jarrib"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogSource is the part of the API the refresher reads
type CatalogSource interface {
	GetCategories(ctx context.Context) ([]jarrib.Category, error)
	FeaturedListings(ctx context.Context) ([]jarrib.Listing, error)
}

// CatalogCache is where the refreshed catalog is written
type CatalogCache interface {
	SetCategories(ctx context.Context, categories []jarrib.Category) error
	SetFeatured(ctx context.Context, listings []jarrib.Listing) error
}

type CatalogRefresher struct {
	cron   *cron.Cron
	source CatalogSource
	cache  CatalogCache
	spec   string
	logger *zap.Logger
}

func New(source CatalogSource, cache CatalogCache, spec string, logger *zap.Logger) *CatalogRefresher {
	return &CatalogRefresher{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		source: source,
		cache:  cache,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the job and runs one refresh right away so the home
// screen does not wait for the first tick.
func (r *CatalogRefresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		r.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	r.cron.Start()
	r.logger.Info("catalog refresher started", zap.String("spec", r.spec))

	go r.refresh(ctx)

	return nil
}

func (r *CatalogRefresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("catalog refresher stopped")
}

func (r *CatalogRefresher) refresh(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		r.logger.Error("catalog refresh failed", zap.Error(err))
	}
}

// Refresh loads categories and featured listings in parallel and caches
// whatever succeeded
func (r *CatalogRefresher) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	var g errgroup.Group

	g.Go(func() error {
		categories, err := r.source.GetCategories(ctx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		jarrib.SortCategories(categories)
		if err := r.cache.SetCategories(ctx, categories); err != nil {
			return fmt.Errorf("cache categories: %w", err)
		}
		r.logger.Debug("categories cached", zap.Int("count", len(categories)))
		return nil
	})

	g.Go(func() error {
		featured, err := r.source.FeaturedListings(ctx)
		if err != nil {
			return fmt.Errorf("featured: %w", err)
		}
		if err := r.cache.SetFeatured(ctx, featured); err != nil {
			return fmt.Errorf("cache featured: %w", err)
		}
		r.logger.Debug("featured listings cached", zap.Int("count", len(featured)))
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	r.logger.Info("catalog refreshed", zap.Duration("took", time.Since(start)))
	return nil
}
