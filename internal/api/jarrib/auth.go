package jarrib

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	data, err := c.post(ctx, "/auth/login", payload)
	if err != nil {
		c.logger.Warn("login failed", zap.Error(err))
		return nil, fmt.Errorf("login: %w", err)
	}

	var response AuthResponse
	if err := c.parseResponse(data, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}

	data, err := c.post(ctx, "/auth/register", payload)
	if err != nil {
		c.logger.Warn("register failed", zap.Error(err))
		return nil, fmt.Errorf("register: %w", err)
	}

	var response AuthResponse
	if err := c.parseResponse(data, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Me resolves the user behind the client's token
func (c *Client) Me(ctx context.Context) (*User, error) {
	data, err := c.get(ctx, "/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("get me: %w", err)
	}

	var user User
	if err := c.parseResponse(data, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
