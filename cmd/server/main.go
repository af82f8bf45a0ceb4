package main

import (
    "compress/gzip"
    "context"
    "encoding/json"
    "errors"
    "io"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "sync"
    "syscall"
    "time"

    "github.com/joho/godotenv"

    "github.com/debran19996/glint-server/internal/chain"
    "github.com/debran19996/glint-server/internal/config"
    "github.com/debran19996/glint-server/internal/httpx"
    "github.com/debran19996/glint-server/internal/price"
    "github.com/debran19996/glint-server/internal/provider"
    "github.com/debran19996/glint-server/internal/provider/exchangerate"
    "github.com/debran19996/glint-server/internal/provider/goldapi"
    "github.com/debran19996/glint-server/internal/provider/metalsdev"
    "github.com/debran19996/glint-server/internal/refresh"
    "github.com/debran19996/glint-server/internal/respond"
    "github.com/debran19996/glint-server/internal/store"
)

// priceService is the slice of the orchestrator the handlers need.
type priceService interface {
    OnDemand(ctx context.Context) price.Snapshot
    Scheduled(ctx context.Context, secret string) (price.Snapshot, error)
}

func main() {
    // .env for local runs; real deployments set the environment directly
    _ = godotenv.Load()

    cfgPath := os.Getenv("CONFIG_FILE")
    cfg, err := config.Load(cfgPath)
    if err != nil { log.Fatalf("config: %v", err) }
    port := cfg.Server.Port

    if cfg.GoldAPI.Token == "" {
        log.Println("warning: GOLDAPI_TOKEN not set; primary metal provider will be skipped")
    }
    if cfg.MetalsDev.APIKey == "" {
        log.Println("warning: METALSDEV_API_KEY not set; secondary metal provider will be skipped")
    }
    if cfg.Refresh.Secret == "" {
        log.Println("warning: REFRESH_SECRET not set; scheduled refresh is unauthenticated")
    }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    var st store.Store
    switch cfg.Cache.Backend {
    case "redis":
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        rs, err := store.NewRedisStore(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
        cancel()
        if err != nil { log.Fatalf("redis: %v", err) }
        defer rs.Close()
        st = rs
    default:
        st = store.NewMemoryStore()
    }

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

    orch := refresh.New(refresh.Config{
        Secret:    cfg.Refresh.Secret,
        Staleness: time.Duration(cfg.Refresh.StalenessSec) * time.Second,
    }, st,
        &chain.MetalChain{Providers: []provider.MetalProvider{gold, metals}},
        &chain.CurrencyChain{Providers: []provider.RateProvider{rates}},
    )

    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    mux.HandleFunc("/api/prices", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleGetPrices(w, r, orch)
    })
    mux.HandleFunc("/api/refresh", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleRefresh(w, r, orch)
    })

    srv := &http.Server{
        Addr:              ":" + port,
        Handler:           withJSONHeaders(withGzip(recoverPanic(limitBody(mux)))),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      20 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.Printf("server listening on :%s", port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}

func handleGetPrices(w http.ResponseWriter, r *http.Request, svc priceService) {
    since := clientTimestamp(r)
    snap := svc.OnDemand(r.Context())
    res := respond.Build(&snap, since, time.Now().UTC())
    if res.NotModified {
        w.WriteHeader(http.StatusNotModified)
        return
    }
    w.Header().Set("Last-Modified", res.Snapshot.UpdatedAt.UTC().Format(http.TimeFormat))
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(res.Snapshot)
}

func handleRefresh(w http.ResponseWriter, r *http.Request, svc priceService) {
    snap, err := svc.Scheduled(r.Context(), bearerToken(r))
    if errors.Is(err, refresh.ErrUnauthorized) {
        http.Error(w, "unauthorized", http.StatusUnauthorized)
        return
    }
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadGateway)
        return
    }
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(snap)
}

// clientTimestamp reads the client's "I have a version as of T" timestamp
// from a `since` RFC 3339 query param or the If-Modified-Since header.
// Zero when absent or unparseable.
func clientTimestamp(r *http.Request) time.Time {
    if v := r.URL.Query().Get("since"); v != "" {
        if t, err := time.Parse(time.RFC3339, v); err == nil {
            return t
        }
    }
    if v := r.Header.Get("If-Modified-Since"); v != "" {
        if t, err := http.ParseTime(v); err == nil {
            return t
        }
    }
    return time.Time{}
}

func bearerToken(r *http.Request) string {
    h := r.Header.Get("Authorization")
    if strings.HasPrefix(h, "Bearer ") {
        return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
    }
    return ""
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        // Basic CORS for browser usage; adjust as needed.
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,If-Modified-Since")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        // Prefer best speed to reduce CPU usage since payloads are JSON
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        gw := gzipResponseWriter{ResponseWriter: w, Writer: gz}
        next.ServeHTTP(gw, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// limitBody caps request body size to avoid memory abuse.
func limitBody(next http.Handler) http.Handler {
    const maxBody = 1 << 20 // 1MB
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method == http.MethodPost && r.Body != nil {
            r.Body = http.MaxBytesReader(w, r.Body, maxBody)
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                log.Printf("panic serving %s: %v", r.URL.Path, rec)
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}
