package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"jarrib-bot/internal/api/jarrib"

	"go.uber.org/zap"
)

type fakeSource struct {
	categories  []jarrib.Category
	featured    []jarrib.Listing
	featuredErr error
}

func (f *fakeSource) GetCategories(ctx context.Context) ([]jarrib.Category, error) {
	return append([]jarrib.Category(nil), f.categories...), nil
}

func (f *fakeSource) FeaturedListings(ctx context.Context) ([]jarrib.Listing, error) {
	return f.featured, f.featuredErr
}

type fakeCache struct {
	mu         sync.Mutex
	categories []jarrib.Category
	featured   []jarrib.Listing
}

func (f *fakeCache) SetCategories(ctx context.Context, categories []jarrib.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = categories
	return nil
}

func (f *fakeCache) SetFeatured(ctx context.Context, listings []jarrib.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.featured = listings
	return nil
}

func TestRefreshCachesSortedCatalog(t *testing.T) {
	source := &fakeSource{
		categories: []jarrib.Category{{Slug: "music", NameEn: "Music"}, {Slug: "arts", NameEn: "arts"}},
		featured:   []jarrib.Listing{{ID: "l1"}},
	}
	cache := &fakeCache{}

	r := New(source, cache, "@every 10m", zap.NewNop())
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if len(cache.categories) != 2 || cache.categories[0].Slug != "arts" {
		t.Fatalf("categories = %+v", cache.categories)
	}
	if len(cache.featured) != 1 {
		t.Fatalf("featured = %+v", cache.featured)
	}
}

func TestRefreshKeepsPartialResult(t *testing.T) {
	source := &fakeSource{
		categories:  []jarrib.Category{{Slug: "arts"}},
		featuredErr: errors.New("boom"),
	}
	cache := &fakeCache{}

	r := New(source, cache, "@every 10m", zap.NewNop())
	if err := r.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(cache.categories) != 1 {
		t.Fatal("categories not cached after featured failure")
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	r := New(&fakeSource{}, &fakeCache{}, "every now and then", zap.NewNop())
	if err := r.Start(context.Background()); err == nil {
		t.Fatal("expected spec error")
	}
}
