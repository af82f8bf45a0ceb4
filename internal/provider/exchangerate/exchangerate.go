package exchangerate

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"

    "github.com/debran19996/glint-server/internal/httpx"
    "github.com/debran19996/glint-server/internal/provider"
)

// Config controls the exchange-rate provider behavior.
type Config struct {
    Name string
    URL  string // latest-rates endpoint; no credential required
}

// Provider fetches USD-based exchange rates for a requested set of codes.
type Provider struct {
    cfg    Config
    client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Provider {
    if cfg.Name == "" { cfg.Name = "exchangerate.host" }
    if cfg.URL == "" { cfg.URL = "https://api.exchangerate.host/latest" }
    return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

type apiResponse struct {
    Base  string             `json:"base"`
    Rates map[string]float64 `json:"rates"`
}

// FetchRates returns the raw USD->code factors for the requested codes.
// Any missing or non-positive rate fails the whole candidate.
func (p *Provider) FetchRates(ctx context.Context, codes []string) (provider.Rates, error) {
    u, err := url.Parse(p.cfg.URL)
    if err != nil { return nil, err }
    q := u.Query()
    q.Set("base", "USD")
    q.Set("symbols", strings.Join(codes, ","))
    u.RawQuery = q.Encode()

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
    if err != nil { return nil, err }
    req.Header.Set("Accept", "application/json")
    resp, err := p.client.Do(ctx, req)
    if err != nil { return nil, err }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
        return nil, fmt.Errorf("GET %s -> %d: %s", u.String(), resp.StatusCode, string(b))
    }

    var body apiResponse
    if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
        return nil, fmt.Errorf("decode: %w", err)
    }

    out := make(provider.Rates, len(codes))
    for _, code := range codes {
        rate, ok := body.Rates[code]
        if !ok {
            return nil, fmt.Errorf("missing rate for %s", code)
        }
        if rate <= 0 {
            return nil, fmt.Errorf("non-positive rate for %s: %v", code, rate)
        }
        out[code] = rate
    }
    return out, nil
}
