package jarrib

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is returned for every non-2xx response
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// Client for requests to Jarrib REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
	token      string
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:    logger,
		userAgent: "Jarrib-Bot/1.0",
	}
}

// WithToken returns a copy sending the bearer token, sharing the connection pool
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// doRequest performs a single HTTP request, there are no retries
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, payload interface{}) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("successful request",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
		)
		return data, nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil {
		apiErr.Message = errResp.Text()
	}

	c.logger.Warn("API error",
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message),
	)

	return nil, apiErr
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, path, params, nil)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return c.doRequest(ctx, http.MethodPost, path, nil, payload)
}

func (c *Client) put(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return c.doRequest(ctx, http.MethodPut, path, nil, payload)
}

func (c *Client) delete(ctx context.Context, path string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// parseResponse decodes JSON body into dest
func (c *Client) parseResponse(data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
