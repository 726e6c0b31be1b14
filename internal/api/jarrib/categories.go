package jarrib

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	data, err := c.get(ctx, "/categories", nil)
	if err != nil {
		c.logger.Error("failed to get categories", zap.Error(err))
		return nil, fmt.Errorf("get categories: %w", err)
	}

	var categories []Category
	if err := c.parseResponse(data, &categories); err != nil {
		c.logger.Error("failed to parse categories response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("categories retrieved", zap.Int("count", len(categories)))

	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, slug, subcategory string, page, limit int) (*CategoryResponse, error) {
	path := fmt.Sprintf("/categories/%s", url.PathEscape(slug))

	queryParams := url.Values{}
	if subcategory != "" {
		queryParams.Set("subcategory", subcategory)
	}
	if page > 0 {
		queryParams.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		queryParams.Set("limit", strconv.Itoa(limit))
	}

	data, err := c.get(ctx, path, queryParams)
	if err != nil {
		c.logger.Error("failed to get category",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get category: %w", err)
	}

	var response CategoryResponse
	if err := c.parseResponse(data, &response); err != nil {
		c.logger.Error("failed to parse category response", zap.Error(err))
		return nil, err
	}

	return &response, nil
}

// SortCategories orders categories by english name
func SortCategories(categories []Category) {
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].NameEn) < strings.ToLower(categories[j].NameEn)
	})
}

// FindCategory looks a category up by slug
func FindCategory(categories []Category, slug string) *Category {
	for i := range categories {
		if categories[i].Slug == slug {
			return &categories[i]
		}
	}
	return nil
}

// Slugify lowercases the name and replaces spaces with dashes
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
