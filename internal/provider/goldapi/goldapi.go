package goldapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/debran19996/glint-server/internal/convert"
	"github.com/debran19996/glint-server/internal/provider"
)

const baseURL = "https://www.goldapi.io/api"

// Metal symbols as the API spells them. One endpoint per metal.
const (
	symbolGold     = "XAU"
	symbolSilver   = "XAG"
	symbolPlatinum = "XPT"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=goldapi_test -destination=mock_http_client_test.go -source=goldapi.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the primary metal provider. It queries three per-metal
// endpoints concurrently; all three must succeed for the candidate to count.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// token is sent as the x-access-token header on every request.
	token string
	// httpClient performs the requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// Option is a configuration option for the client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// New creates a goldapi client. An empty token is allowed; FetchMetals then
// reports the candidate as not configured without touching the network.
func New(token string, options ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Name() string { return "goldapi" }

// quoteResponse is the per-endpoint shape; price is USD per troy ounce.
type quoteResponse struct {
	Price float64 `json:"price"`
}

func (c *Client) FetchMetals(ctx context.Context) (provider.Metals, error) {
	if c.token == "" {
		return provider.Metals{}, provider.ErrNotConfigured
	}

	var (
		mu      sync.Mutex
		byMetal = make(map[string]float64, 3)
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, symbol := range []string{symbolGold, symbolSilver, symbolPlatinum} {
		g.Go(func() error {
			perGram, err := c.fetchSymbol(ctx, symbol)
			if err != nil {
				return fmt.Errorf("%s: %w", symbol, err)
			}
			mu.Lock()
			byMetal[symbol] = perGram
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return provider.Metals{}, err
	}

	return provider.Metals{
		Gold:     byMetal[symbolGold],
		Silver:   byMetal[symbolSilver],
		Platinum: byMetal[symbolPlatinum],
	}, nil
}

func (c *Client) fetchSymbol(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s/%s/USD", c.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, err
	}
	req.Header.Set("x-access-token", c.token)
	req.Header.Set("Accept", "application/json")
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return 0, fmt.Errorf("GET %s -> %d: %s", url, resp.StatusCode, string(b))
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	perGram, err := convert.PerGram(quote.Price)
	if err != nil {
		return 0, err
	}
	return perGram, nil
}
