package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jarrib-bot/internal/api/jarrib"
)

const (
	CatalogCacheTTL    = 30 * time.Minute
	RateLimitWindowTTL = 1 * time.Minute
	UserStateCacheTTL  = 30 * time.Minute
	TempDataTTL        = 2 * time.Hour
)

func CategoriesKey() string {
	return "catalog:categories"
}

func FeaturedKey() string {
	return "catalog:featured"
}

func RateLimitKey(userID int64) string {
	return fmt.Sprintf("ratelimit:user:%d", userID)
}

func UserStateKey(userID int64) string {
	return fmt.Sprintf("state:user:%d", userID)
}

func tempKey(userID int64, key string) string {
	return fmt.Sprintf("temp:user:%d:%s", userID, key)
}

func (c *Cache) GetCategories(ctx context.Context) ([]jarrib.Category, error) {
	var categories []jarrib.Category
	if err := c.getJSON(ctx, CategoriesKey(), &categories, 0); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Cache) SetCategories(ctx context.Context, categories []jarrib.Category) error {
	return c.setJSON(ctx, CategoriesKey(), categories, CatalogCacheTTL)
}

func (c *Cache) GetFeatured(ctx context.Context) ([]jarrib.Listing, error) {
	var listings []jarrib.Listing
	if err := c.getJSON(ctx, FeaturedKey(), &listings, 0); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *Cache) SetFeatured(ctx context.Context, listings []jarrib.Listing) error {
	return c.setJSON(ctx, FeaturedKey(), listings, CatalogCacheTTL)
}

// InvalidateCatalog drops both catalog entries, used after admin edits
func (c *Cache) InvalidateCatalog(ctx context.Context) error {
	return c.del(ctx, CategoriesKey(), FeaturedKey())
}

// IncrementUserRateLimit counts a request in the user's current minute
func (c *Cache) IncrementUserRateLimit(ctx context.Context, userID int64) (int64, error) {
	return c.countInWindow(ctx, RateLimitKey(userID), RateLimitWindowTTL)
}

func (c *Cache) SetUserState(ctx context.Context, userID int64, state string) error {
	return c.setString(ctx, UserStateKey(userID), state, UserStateCacheTTL)
}

// GetUserState returns an empty state when none is set
func (c *Cache) GetUserState(ctx context.Context, userID int64) (string, error) {
	state, err := c.getString(ctx, UserStateKey(userID))
	if errors.Is(err, ErrCacheMiss) {
		return "", nil
	}
	return state, err
}

func (c *Cache) DeleteUserState(ctx context.Context, userID int64) error {
	return c.del(ctx, UserStateKey(userID))
}

func (c *Cache) SetTempData(ctx context.Context, userID int64, key string, value interface{}) error {
	return c.setJSON(ctx, tempKey(userID, key), value, TempDataTTL)
}

// GetTempData reads a conversation value and keeps it alive for another TempDataTTL
func (c *Cache) GetTempData(ctx context.Context, userID int64, key string, dest interface{}) error {
	return c.getJSON(ctx, tempKey(userID, key), dest, TempDataTTL)
}

func (c *Cache) DeleteTempData(ctx context.Context, userID int64, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = tempKey(userID, k)
	}
	return c.del(ctx, full...)
}
