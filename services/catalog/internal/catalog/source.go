package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxFeedBytes = 16 << 20

var ErrMalformedFeed = errors.New("catalog: feed payload is not a JSON array")

// StatusError is returned when the feed answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: feed status %d body=%q", e.Code, e.Body)
}

// Fetcher loads the complete title list from the upstream source.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Title, error)
}

// HTTPSource fetches the title list from a JSON document served over HTTP.
type HTTPSource struct {
	URL        string
	HTTPClient *http.Client
	UserAgent  string
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSource{
		URL:        strings.TrimSpace(url),
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  "stream-catalog/1.0",
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]Title, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(b[:min(len(b), 200)])}
	}
	return decodeFeed(b)
}

func decodeFeed(b []byte) ([]Title, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return nil, ErrMalformedFeed
	}
	var out []Title
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("catalog: decode feed: %w", err)
	}
	if out == nil {
		out = []Title{}
	}
	return out, nil
}
