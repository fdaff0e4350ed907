package yahoo

import (
	"net/http"
	"time"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches daily bars from the Yahoo Finance chart API. It performs a
// single outbound call per FetchRange; retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
	priority   int
	// suffixes maps a market code to the provider symbol suffix
	// (e.g. BIST -> ".IS", CRYPTO -> "-USD").
	suffixes map[string]string
}

// Option is a configuration option for the Yahoo client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds headers sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithPriority sets the source trust rank stamped on fetched bars.
func WithPriority(priority int) Option {
	return func(c *Client) {
		c.priority = priority
	}
}

// WithSymbolSuffixes replaces the market-to-suffix lookup table.
func WithSymbolSuffixes(suffixes map[string]string) Option {
	return func(c *Client) {
		c.suffixes = suffixes
	}
}

// NewClient creates a Yahoo Finance chart API client.
func NewClient(options ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		header:   http.Header{},
		priority: 1,
		suffixes: map[string]string{
			"BIST":   ".IS",
			"CRYPTO": "-USD",
		},
	}
	c.header.Set("User-Agent", "marketsync/1.0")
	for _, option := range options {
		option(c)
	}
	return c
}

// Name identifies the data source on stored bars.
func (c *Client) Name() string { return "yahoo" }

// Priority returns the source trust rank (lower = more trusted).
func (c *Client) Priority() int { return c.priority }

// providerSymbol maps (ticker, market) to the symbol Yahoo expects.
func (c *Client) providerSymbol(ticker, market string) string {
	if suffix, ok := c.suffixes[market]; ok {
		return ticker + suffix
	}
	return ticker
}
