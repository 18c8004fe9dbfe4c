// Package catalogapi looks up ingredient products from a remote catalog service.
package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/recipecost/backend/internal/domain"
)

// ClientConfig holds configuration for the remote catalog client
type ClientConfig struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	MaxAttempts       int
	RetryBackoff      time.Duration
}

// Client handles communication with the remote catalog API
type Client struct {
	http         *resty.Client
	apiKey       string
	baseURL      string
	rateLimiter  *rate.Limiter
	maxAttempts  int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewClient creates a new remote catalog client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "recipecost/1.0")

	return &Client{
		http:         httpClient,
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		rateLimiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxAttempts:  cfg.MaxAttempts,
		retryBackoff: cfg.RetryBackoff,
		logger:       logger,
	}
}

// backoff returns the wait before the next attempt: base, 2*base, 4*base...
func (c *Client) backoff(attempt int) time.Duration {
	return c.retryBackoff * time.Duration(1<<(attempt-1))
}

// ProductsForIngredient fetches the products offered for an ingredient.
// Transport failures, 429 and 5xx responses are retried; 404 and an empty
// product list map to ErrProductNotFound.
func (c *Client) ProductsForIngredient(ctx context.Context, ingredientName string) ([]domain.Product, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParam("name", ingredientName).
			SetQueryParam("api_key", c.apiKey).
			Get("/v1/ingredients/{name}/products")
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("catalog request failed",
				zap.String("ingredient", ingredientName),
				zap.Int("attempt", attempt),
				zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
			continue
		}

		switch status := resp.StatusCode(); {
		case status == http.StatusOK:
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, ingredientName)
		case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
			c.logger.Warn("catalog API error",
				zap.String("ingredient", ingredientName),
				zap.Int("attempt", attempt),
				zap.Int("status", status))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogAPIFailure, status)
			continue
		default:
			return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrCatalogAPIFailure, status, resp.String())
		}

		var body productsResponse
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrCatalogAPIFailure, err)
		}
		if len(body.Products) == 0 {
			return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, ingredientName)
		}

		products, err := MapProducts(&body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
		}

		c.logger.Debug("fetched catalog products",
			zap.String("ingredient", ingredientName),
			zap.Int("products", len(products)))
		return products, nil
	}

	c.logger.Error("all catalog attempts failed",
		zap.String("ingredient", ingredientName),
		zap.Error(lastErr))
	return nil, lastErr
}
