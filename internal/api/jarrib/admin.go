package jarrib

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

type AdminListingsParams struct {
	Status   string
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type AdminUsersParams struct {
	Role   string
	Search string
	Page   int
	Limit  int
}

func pageValues(page, limit int) url.Values {
	queryParams := url.Values{}
	if page > 0 {
		queryParams.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		queryParams.Set("limit", strconv.Itoa(limit))
	}
	return queryParams
}

func (c *Client) Dashboard(ctx context.Context) (*DashboardData, error) {
	data, err := c.get(ctx, "/admin/dashboard", nil)
	if err != nil {
		c.logger.Error("failed to get dashboard", zap.Error(err))
		return nil, fmt.Errorf("get dashboard: %w", err)
	}

	var dashboard DashboardData
	if err := c.parseResponse(data, &dashboard); err != nil {
		return nil, err
	}

	return &dashboard, nil
}

// ==================== Listings ====================

func (c *Client) AdminListings(ctx context.Context, params AdminListingsParams) (*ListingsResponse, error) {
	queryParams := pageValues(params.Page, params.Limit)
	if params.Status != "" {
		queryParams.Set("status", params.Status)
	}
	if params.Category != "" {
		queryParams.Set("category", params.Category)
	}
	if params.Search != "" {
		queryParams.Set("search", params.Search)
	}
	if params.Sort != "" {
		queryParams.Set("sort", params.Sort)
	}

	data, err := c.get(ctx, "/admin/listings", queryParams)
	if err != nil {
		c.logger.Error("failed to get admin listings",
			zap.String("status", params.Status),
			zap.Error(err),
		)
		return nil, fmt.Errorf("admin listings: %w", err)
	}

	var response ListingsResponse
	if err := c.parseResponse(data, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *Client) AdminListing(ctx context.Context, listingID string) (*Listing, error) {
	data, err := c.get(ctx, "/admin/listings/"+url.PathEscape(listingID), nil)
	if err != nil {
		return nil, fmt.Errorf("admin listing: %w", err)
	}

	var listing Listing
	if err := c.parseResponse(data, &listing); err != nil {
		return nil, err
	}

	return &listing, nil
}

func (c *Client) AdminUpdateListing(ctx context.Context, listingID string, fields map[string]interface{}) (*Listing, error) {
	data, err := c.put(ctx, "/admin/listings/"+url.PathEscape(listingID), fields)
	if err != nil {
		return nil, fmt.Errorf("admin update listing: %w", err)
	}

	var listing Listing
	if err := c.parseResponse(data, &listing); err != nil {
		return nil, err
	}

	return &listing, nil
}

func (c *Client) ApproveListing(ctx context.Context, listingID string) (*Listing, error) {
	path := fmt.Sprintf("/admin/listings/%s/approve", url.PathEscape(listingID))

	data, err := c.put(ctx, path, nil)
	if err != nil {
		c.logger.Error("failed to approve listing",
			zap.String("listing_id", listingID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("approve listing: %w", err)
	}

	var listing Listing
	if err := c.parseResponse(data, &listing); err != nil {
		return nil, err
	}

	c.logger.Info("listing approved", zap.String("listing_id", listingID))

	return &listing, nil
}

func (c *Client) RejectListing(ctx context.Context, listingID, reason string) (*Listing, error) {
	path := fmt.Sprintf("/admin/listings/%s/reject", url.PathEscape(listingID))

	data, err := c.put(ctx, path, map[string]string{"reason": reason})
	if err != nil {
		c.logger.Error("failed to reject listing",
			zap.String("listing_id", listingID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("reject listing: %w", err)
	}

	var listing Listing
	if err := c.parseResponse(data, &listing); err != nil {
		return nil, err
	}

	c.logger.Info("listing rejected",
		zap.String("listing_id", listingID),
		zap.String("reason", reason),
	)

	return &listing, nil
}

func (c *Client) AdminDeleteListing(ctx context.Context, listingID string) error {
	if _, err := c.delete(ctx, "/admin/listings/"+url.PathEscape(listingID)); err != nil {
		c.logger.Error("failed to delete listing",
			zap.String("listing_id", listingID),
			zap.Error(err),
		)
		return fmt.Errorf("admin delete listing: %w", err)
	}

	c.logger.Info("listing deleted", zap.String("listing_id", listingID))

	return nil
}

// ==================== Users ====================

func (c *Client) AdminUsers(ctx context.Context, params AdminUsersParams) (*AdminUsersResponse, error) {
	queryParams := pageValues(params.Page, params.Limit)
	if params.Role != "" {
		queryParams.Set("role", params.Role)
	}
	if params.Search != "" {
		queryParams.Set("search", params.Search)
	}

	data, err := c.get(ctx, "/admin/users", queryParams)
	if err != nil {
		c.logger.Error("failed to get admin users",
			zap.String("role", params.Role),
			zap.Error(err),
		)
		return nil, fmt.Errorf("admin users: %w", err)
	}

	var response AdminUsersResponse
	if err := c.parseResponse(data, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *Client) AdminUser(ctx context.Context, userID string) (*User, error) {
	data, err := c.get(ctx, "/admin/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("admin user: %w", err)
	}

	var user User
	if err := c.parseResponse(data, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) AdminUpdateUser(ctx context.Context, userID string, fields map[string]interface{}) (*User, error) {
	data, err := c.put(ctx, "/admin/users/"+url.PathEscape(userID), fields)
	if err != nil {
		c.logger.Error("failed to update user",
			zap.String("target_user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("admin update user: %w", err)
	}

	var user User
	if err := c.parseResponse(data, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	if _, err := c.delete(ctx, "/admin/users/"+url.PathEscape(userID)); err != nil {
		c.logger.Error("failed to delete user",
			zap.String("target_user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("admin delete user: %w", err)
	}

	return nil
}

// ==================== Categories ====================

func (c *Client) AdminCategories(ctx context.Context) ([]Category, error) {
	data, err := c.get(ctx, "/admin/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("admin categories: %w", err)
	}

	var categories []Category
	if err := c.parseResponse(data, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, category Category) (*Category, error) {
	data, err := c.post(ctx, "/admin/categories", categoryPayload(category))
	if err != nil {
		c.logger.Error("failed to create category",
			zap.String("slug", category.Slug),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create category: %w", err)
	}

	var created Category
	if err := c.parseResponse(data, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func (c *Client) UpdateCategory(ctx context.Context, categoryID string, category Category) (*Category, error) {
	data, err := c.put(ctx, "/admin/categories/"+url.PathEscape(categoryID), categoryPayload(category))
	if err != nil {
		c.logger.Error("failed to update category",
			zap.String("category_id", categoryID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("update category: %w", err)
	}

	var updated Category
	if err := c.parseResponse(data, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (c *Client) DeleteCategory(ctx context.Context, categoryID string) error {
	if _, err := c.delete(ctx, "/admin/categories/"+url.PathEscape(categoryID)); err != nil {
		c.logger.Error("failed to delete category",
			zap.String("category_id", categoryID),
			zap.Error(err),
		)
		return fmt.Errorf("delete category: %w", err)
	}

	return nil
}

// categoryPayload drops server managed fields
func categoryPayload(category Category) map[string]interface{} {
	subcategories := category.Subcategories
	if subcategories == nil {
		subcategories = []string{}
	}
	return map[string]interface{}{
		"slug":           category.Slug,
		"name_en":        category.NameEn,
		"name_ar":        category.NameAr,
		"icon":           category.Icon,
		"description_en": category.DescriptionEn,
		"description_ar": category.DescriptionAr,
		"subcategories":  subcategories,
	}
}
