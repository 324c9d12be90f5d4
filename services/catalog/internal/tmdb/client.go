package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	maxBodyBytes   = 2 << 20
)

// ErrNoCredential is returned without any network call when no API key is set.
var ErrNoCredential = errors.New("tmdb: api key not configured")

// StatusError is a non-200 answer from TMDB.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: status %d body=%q", e.Code, e.Body)
}

// ClientConfig holds the retry policy.
type ClientConfig struct {
	MaxRetries     int
	RetryBaseDelay time.Duration
}

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Config     ClientConfig
	CB         *gobreaker.CircuitBreaker
	Limiter    *rate.Limiter
	Log        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.CB = cb }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.Log = log }
}

// WithRateLimit caps outbound requests per second; rps <= 0 leaves calls
// unthrottled.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.Limiter = nil
			return
		}
		burst := int(math.Ceil(rps))
		c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func New(baseURL, apiKey string, cfg ClientConfig, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 250 * time.Millisecond
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     strings.TrimSpace(apiKey),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Config:     cfg,
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.APIKey != ""
}

// SearchMulti runs a movie+tv+person search and returns the first page.
func (c *Client) SearchMulti(ctx context.Context, query string) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", "1")
	return doWithBreaker[SearchResponse](ctx, c, "/search/multi", q)
}

// Credits returns the cast and crew for a movie or tv show.
func (c *Client) Credits(ctx context.Context, media MediaType, id int64) (*CreditsResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("tmdb: invalid id %d", id)
	}
	path := "/" + string(media) + "/" + strconv.FormatInt(id, 10) + "/credits"
	return doWithBreaker[CreditsResponse](ctx, c, path, url.Values{})
}

func doWithBreaker[T any](ctx context.Context, c *Client, path string, q url.Values) (*T, error) {
	if !c.Configured() {
		return nil, ErrNoCredential
	}
	if c.CB == nil {
		return doJSONWithRetry[T](ctx, c, path, q)
	}
	result, err := c.CB.Execute(func() (interface{}, error) {
		return doJSONWithRetry[T](ctx, c, path, q)
	})
	if err != nil {
		return nil, err
	}
	return result.(*T), nil
}

func doJSONWithRetry[T any](ctx context.Context, c *Client, path string, q url.Values) (*T, error) {
	var lastErr error
	for attempt := 0; attempt <= c.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.Config.RetryBaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			c.Log.Debug("retrying tmdb request", zap.String("path", path), zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		result, err := doJSON[T](ctx, c, path, q)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !Retryable(err) {
			return nil, err
		}
		c.Log.Warn("tmdb request failed", zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func doJSON[T any](ctx context.Context, c *Client, path string, q url.Values) (*T, error) {
	q.Set("api_key", c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "stream-catalog/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// The request URL carries the api key; keep it out of logs.
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = c.BaseURL + path
		}
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(b[:min(len(b), 200)])}
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("tmdb: decode %s: %w", path, err)
	}
	return &out, nil
}

// Retryable reports whether err is worth another attempt: transport
// failures, 429 and 5xx. Decode errors, other 4xx and cancellation are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
