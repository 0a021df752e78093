package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	APIBaseURL             = "https://api.scryfall.com"
	DefaultUserAgent       = "OffMeta/1.0"
	DefaultAccept          = "application/json;q=0.9,*/*;q=0.8"
	DefaultRequestInterval = 100 * time.Millisecond // Scryfall asks for 50-100ms between requests
	requestTimeout         = 30 * time.Second
)

type Client struct {
	baseURL     string
	userAgent   string
	accept      string
	client      *http.Client
	rateLimiter *rate.Limiter
}

type ClientOptions struct {
	APIURL          string        // default is "https://api.scryfall.com"
	UserAgent       string        // API docs recomend "{AppName}/1.0"
	Accept          string        // "application/json;q=0.9,*/*;q=0.8"
	Client          *http.Client  // any http client can be used
	ProxyURL        string        // optional proxy URL (e.g., "http://proxy:8080")
	RequestInterval time.Duration // minimum spacing between requests, 0 disables limiting
}

// StatusError is returned for any non-200 response. Details holds the
// service's error detail string when the body carried one.
type StatusError struct {
	StatusCode int
	Code       string
	Details    string
}

func (e *StatusError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Details)
	}
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}

func NewClientWithOptions(co ClientOptions) (*Client, error) {
	client := co.Client
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}

	// Configure HTTP client with proxy if provided
	if co.ProxyURL != "" {
		proxyURL, err := url.Parse(co.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL '%s': %w", co.ProxyURL, err)
		}

		transport := &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
		client = &http.Client{Transport: transport, Timeout: client.Timeout}
	}

	baseURL := strings.TrimRight(co.APIURL, "/")
	if baseURL == "" {
		baseURL = APIBaseURL
	}
	userAgent := co.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	accept := co.Accept
	if accept == "" {
		accept = DefaultAccept
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if co.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(co.RequestInterval), 1)
	}

	return &Client{
		baseURL:     baseURL,
		userAgent:   userAgent,
		accept:      accept,
		client:      client,
		rateLimiter: limiter,
	}, nil
}

// BaseURL returns the API root requests are made against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// makeRequest issues a GET for endpoint (path plus query, relative to the base
// URL) and decodes a 200 body into result. Any other status yields a
// *StatusError carrying the service's details when present.
func (c *Client) makeRequest(ctx context.Context, endpoint string, result any) error {
	// Respect Scryfall's rate limit
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", c.accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(resp.Body)
		var apiErr Error
		if err := json.Unmarshal(body, &apiErr); err == nil {
			statusErr.Code = apiErr.Code
			statusErr.Details = apiErr.Details
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
