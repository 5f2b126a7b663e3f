// Package relay fetches raw feed content through a CORS relay such as allorigins.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrNetwork marks transport failures: the relay could not be reached
	ErrNetwork = errors.New("relay unreachable")
	// ErrNoData marks relay responses without usable feed content
	ErrNoData = errors.New("relay returned no feed data")
)

// StatusError is returned when the relay answers with a non-2xx status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.Code)
}

type Options struct {
	Endpoint  string
	Timeout   time.Duration // 0 disables the client timeout
	RateLimit float64       // requests per second, 0 disables limiting
	UserAgent string
}

type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

type response struct {
	Contents *string `json:"contents"`
	Status   struct {
		URL       string          `json:"url"`
		HTTPCode  int             `json:"http_code"`
		Error     json.RawMessage `json:"error"`
		ErrorCode json.RawMessage `json:"error_code"`
	} `json:"status"`
}

func NewClient(opts Options) (*Client, error) {
	endpoint, err := url.Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid relay endpoint: %w", err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("invalid relay endpoint: %q is not absolute", opts.Endpoint)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		userAgent:  opts.UserAgent,
	}, nil
}

// Fetch returns the raw content of feedURL as relayed. Errors wrap ErrNetwork or
// ErrNoData, or are a *StatusError.
func (c *Client) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(feedURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed relay response: %v", ErrNoData, err)
	}

	if truthy(payload.Status.Error) {
		return nil, fmt.Errorf("%w: relay reported error %s", ErrNoData, string(payload.Status.Error))
	}
	if payload.Contents == nil || *payload.Contents == "" {
		return nil, fmt.Errorf("%w: empty contents", ErrNoData)
	}

	slog.Debug("Feed fetched through relay",
		"url", feedURL,
		"http_code", payload.Status.HTTPCode,
		"content_length", len(*payload.Contents))

	return []byte(*payload.Contents), nil
}

func (c *Client) requestURL(feedURL string) string {
	u := *c.endpoint
	query := u.Query()
	query.Set("disableCache", "true")
	query.Set("url", feedURL)
	u.RawQuery = query.Encode()
	return u.String()
}

// truthy mirrors the relay's loose error field: absent, null, false, 0 and "" mean no error
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return true
	}

	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
