package metalsdev

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"

    "github.com/debran19996/glint-server/internal/convert"
    "github.com/debran19996/glint-server/internal/httpx"
    "github.com/debran19996/glint-server/internal/provider"
)

// Config controls the metals.dev provider behavior.
type Config struct {
    Name   string
    URL    string // latest-prices endpoint
    APIKey string // sent as the api_key query parameter
}

// Provider is the secondary metal source: one endpoint returns all three
// metals keyed by name, quoted in USD per troy ounce.
type Provider struct {
    cfg    Config
    client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
    if cfg.Name == "" { cfg.Name = "metals.dev" }
    if cfg.URL == "" { cfg.URL = "https://api.metals.dev/v1/latest" }
    return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

// Response model based on the documented latest-prices payload.
// Pointer fields distinguish a missing metal from a zero quote.
type apiResponse struct {
    Status string    `json:"status"`
    Metals apiMetals `json:"metals"`
}

type apiMetals struct {
    Gold     *float64 `json:"gold"`
    Silver   *float64 `json:"silver"`
    Platinum *float64 `json:"platinum"`
}

// redactKey masks the api_key query value so the credential never ends up
// in error strings or logs.
func redactKey(u *url.URL) string {
    q := u.Query()
    if q.Get("api_key") != "" {
        q.Set("api_key", "REDACTED")
    }
    r := *u
    r.RawQuery = q.Encode()
    return r.String()
}

func (p *Provider) FetchMetals(ctx context.Context) (provider.Metals, error) {
    if p.cfg.APIKey == "" {
        return provider.Metals{}, provider.ErrNotConfigured
    }

    u, err := url.Parse(p.cfg.URL)
    if err != nil { return provider.Metals{}, err }
    q := u.Query()
    q.Set("api_key", p.cfg.APIKey)
    q.Set("currency", "USD")
    q.Set("unit", "toz")
    u.RawQuery = q.Encode()

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
    if err != nil { return provider.Metals{}, err }
    req.Header.Set("Accept", "application/json")
    resp, err := p.client.Do(ctx, req)
    if err != nil { return provider.Metals{}, err }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
        return provider.Metals{}, fmt.Errorf("GET %s -> %d: %s", redactKey(u), resp.StatusCode, string(b))
    }

    var body apiResponse
    if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
        return provider.Metals{}, fmt.Errorf("decode: %w", err)
    }
    if body.Status != "" && body.Status != "success" {
        return provider.Metals{}, fmt.Errorf("provider status: %q", body.Status)
    }

    out := provider.Metals{}
    for _, m := range []struct {
        name  string
        quote *float64
        dst   *float64
    }{
        {"gold", body.Metals.Gold, &out.Gold},
        {"silver", body.Metals.Silver, &out.Silver},
        {"platinum", body.Metals.Platinum, &out.Platinum},
    } {
        if m.quote == nil {
            return provider.Metals{}, fmt.Errorf("missing %s quote", m.name)
        }
        perGram, err := convert.PerGram(*m.quote)
        if err != nil {
            return provider.Metals{}, fmt.Errorf("%s: %w", m.name, err)
        }
        *m.dst = perGram
    }
    return out, nil
}
