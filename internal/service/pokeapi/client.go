package pokeapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kapu/pokeapi-artwork-go/internal/util"
	"github.com/kapu/pokeapi-artwork-go/pkg/errors"
)

// Requester performs a single GET against the API. Any status other than
// 200 is returned as *errors.APIError.
type Requester interface {
	DoRequest(ctx context.Context, path string, params url.Values) ([]byte, error)
}

type ClientConfig struct {
	BaseURL       string
	UserAgent     string
	RatePerSecond float64
	RateBurst     int
}

type APIClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewAPIClient builds a client. RatePerSecond <= 0 disables rate limiting.
func NewAPIClient(httpClient *http.Client, cfg ClientConfig, logger *zap.Logger) *APIClient {
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), util.Max(cfg.RateBurst, 1))
	}

	return &APIClient{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		limiter:    limiter,
		logger:     logger,
	}
}

func (c *APIClient) DoRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.NewAPIError("rate limiter wait aborted", 0, "", map[string]any{
				"url": reqURL,
			}).WithCause(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("PokeAPI request", zap.String("url", reqURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("PokeAPI request failed", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.NewAPIError("request failed", 0, "", map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAPIError("failed to read response body", resp.StatusCode, statusReason(resp), map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("PokeAPI unexpected status",
			zap.String("url", reqURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, errors.NewAPIError(fmt.Sprintf("unexpected status: %d", resp.StatusCode), resp.StatusCode, statusReason(resp), map[string]any{
			"url":  reqURL,
			"body": util.TruncateString(string(body), 200),
		})
	}

	return body, nil
}

// statusReason extracts the reason phrase, e.g. "Not Found" from "404 Not Found".
func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
