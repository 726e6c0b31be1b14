package jarrib

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

func (c *Client) GetProvider(ctx context.Context, providerID string) (*ProviderResponse, error) {
	path := fmt.Sprintf("/providers/%s", url.PathEscape(providerID))

	data, err := c.get(ctx, path, nil)
	if err != nil {
		c.logger.Error("failed to get provider",
			zap.String("provider_id", providerID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get provider: %w", err)
	}

	var response ProviderResponse
	if err := c.parseResponse(data, &response); err != nil {
		c.logger.Error("failed to parse provider response", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("provider retrieved",
		zap.String("provider_id", providerID),
		zap.Int("listings", len(response.Listings)),
	)

	return &response, nil
}
