package jarrib

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

func (c *Client) SavedListings(ctx context.Context) ([]Listing, error) {
	data, err := c.get(ctx, "/users/saved", nil)
	if err != nil {
		c.logger.Error("failed to get saved listings", zap.Error(err))
		return nil, fmt.Errorf("saved listings: %w", err)
	}

	var listings []Listing
	if err := c.parseResponse(data, &listings); err != nil {
		return nil, err
	}

	return listings, nil
}

func (c *Client) SaveListing(ctx context.Context, listingID string) ([]string, error) {
	path := fmt.Sprintf("/users/saved/%s", url.PathEscape(listingID))

	data, err := c.post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("save listing: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var response SavedResponse
	if err := c.parseResponse(data, &response); err != nil {
		return nil, err
	}

	return response.SavedListings, nil
}

func (c *Client) UnsaveListing(ctx context.Context, listingID string) ([]string, error) {
	path := fmt.Sprintf("/users/saved/%s", url.PathEscape(listingID))

	data, err := c.delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("unsave listing: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var response SavedResponse
	if err := c.parseResponse(data, &response); err != nil {
		return nil, err
	}

	return response.SavedListings, nil
}
