package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "time"

    "github.com/joho/godotenv"

    "github.com/debran19996/glint-server/internal/chain"
    "github.com/debran19996/glint-server/internal/config"
    "github.com/debran19996/glint-server/internal/httpx"
    "github.com/debran19996/glint-server/internal/provider"
    "github.com/debran19996/glint-server/internal/provider/exchangerate"
    "github.com/debran19996/glint-server/internal/provider/goldapi"
    "github.com/debran19996/glint-server/internal/provider/metalsdev"
    "github.com/debran19996/glint-server/internal/refresh"
    "github.com/debran19996/glint-server/internal/store"
)

// One-shot fetch against the real providers, printing the resulting
// snapshot. Useful for checking credentials and upstream payloads without
// running the server.
func main() {
    var timeout int
    var configPath string

    _ = godotenv.Load()

    flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 0), "request timeout seconds (0 = use config)")
    flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    cfg.Server.RequestTimeoutSec = resolveTimeout(timeout, cfg.Server.RequestTimeoutSec)

    if cfg.GoldAPI.Token == "" && cfg.MetalsDev.APIKey == "" {
        log.Println("warning: no metal provider credentials set; expecting default metal values")
    }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    gold := goldapi.New(cfg.GoldAPI.Token,
        goldapi.WithBaseURL(cfg.GoldAPI.BaseURL),
        goldapi.WithHTTPClient(httpClient.HTTP),
    )
    metals := metalsdev.New(metalsdev.Config{
        URL:    cfg.MetalsDev.BaseURL,
        APIKey: cfg.MetalsDev.APIKey,
    }, httpClient)
    rates := exchangerate.New(exchangerate.Config{
        URL: cfg.ExchangeRate.BaseURL,
    }, httpClient)

    orch := refresh.New(refresh.Config{}, store.NewMemoryStore(),
        &chain.MetalChain{Providers: []provider.MetalProvider{gold, metals}},
        &chain.CurrencyChain{Providers: []provider.RateProvider{rates}},
    )

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec+5)*time.Second)
    defer cancel()

    snap, err := orch.Scheduled(ctx, "")
    if err != nil { log.Fatalf("refresh: %v", err) }

    b, _ := json.MarshalIndent(snap, "", "  ")
    fmt.Println(string(b))
}

// resolveTimeout prefers an explicit flag or env value and falls back to
// the configured one, keeping a sane floor when neither is set.
func resolveTimeout(flagVal, cfgVal int) int {
    if flagVal > 0 { return flagVal }
    if cfgVal > 0 { return cfgVal }
    return 15
}

func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        _, _ = fmt.Sscanf(v, "%d", &x)
        if x != 0 { return x }
    }
    return def
}
