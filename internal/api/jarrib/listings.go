package jarrib

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

type ListingSearchParams struct {
	Query          string
	Category       string
	Area           string // comma separated
	MinPrice       string
	MaxPrice       string
	Days           string // comma separated
	SkillLevel     string // comma separated
	CommitmentType string // comma separated
	Sort           string
	Page           int
	Limit          int
}

func (p ListingSearchParams) values() url.Values {
	queryParams := url.Values{}

	set := func(key, value string) {
		if value != "" {
			queryParams.Set(key, value)
		}
	}

	set("q", p.Query)
	set("category", p.Category)
	set("area", p.Area)
	set("minPrice", p.MinPrice)
	set("maxPrice", p.MaxPrice)
	set("days", p.Days)
	set("skillLevel", p.SkillLevel)
	set("commitmentType", p.CommitmentType)
	set("sort", p.Sort)

	// pagination
	if p.Page > 0 {
		queryParams.Set("page", strconv.Itoa(p.Page))
	}

	if p.Limit > 0 {
		queryParams.Set("limit", strconv.Itoa(p.Limit))
	} else {
		queryParams.Set("limit", "12")
	}

	return queryParams
}

func (c *Client) SearchListings(ctx context.Context, params ListingSearchParams) (*ListingsResponse, error) {
	data, err := c.get(ctx, "/listings", params.values())
	if err != nil {
		c.logger.Error("failed to search listings",
			zap.String("q", params.Query),
			zap.String("category", params.Category),
			zap.Int("page", params.Page),
			zap.Error(err),
		)
		return nil, fmt.Errorf("search listings: %w", err)
	}

	var response ListingsResponse
	if err := c.parseResponse(data, &response); err != nil {
		c.logger.Error("failed to parse listings response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("listings found",
		zap.Int("total", response.Pagination.Total),
		zap.Int("returned", len(response.Listings)),
		zap.String("q", params.Query),
	)

	return &response, nil
}

func (c *Client) FeaturedListings(ctx context.Context) ([]Listing, error) {
	data, err := c.get(ctx, "/listings/featured", nil)
	if err != nil {
		c.logger.Error("failed to get featured listings", zap.Error(err))
		return nil, fmt.Errorf("featured listings: %w", err)
	}

	var listings []Listing
	if err := c.parseResponse(data, &listings); err != nil {
		c.logger.Error("failed to parse featured listings", zap.Error(err))
		return nil, err
	}

	return listings, nil
}

func (c *Client) GetListing(ctx context.Context, listingID string) (*ListingDetail, error) {
	path := fmt.Sprintf("/listings/%s", url.PathEscape(listingID))

	data, err := c.get(ctx, path, nil)
	if err != nil {
		c.logger.Error("failed to get listing",
			zap.String("listing_id", listingID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get listing: %w", err)
	}

	var detail ListingDetail
	if err := c.parseResponse(data, &detail); err != nil {
		c.logger.Error("failed to parse listing detail", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("listing retrieved",
		zap.String("listing_id", listingID),
		zap.Int("related", len(detail.Related)),
	)

	return &detail, nil
}

func (c *Client) CreateListing(ctx context.Context, draft ListingDraft) (*Listing, error) {
	data, err := c.post(ctx, "/listings", draft)
	if err != nil {
		c.logger.Error("failed to create listing",
			zap.String("title_ar", draft.TitleAr),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create listing: %w", err)
	}

	var listing Listing
	if err := c.parseResponse(data, &listing); err != nil {
		return nil, err
	}

	c.logger.Info("listing created", zap.String("listing_id", listing.ID))

	return &listing, nil
}
