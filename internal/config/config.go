package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type GoldAPI struct {
    Token   string `json:"token"`
    BaseURL string `json:"base_url"`
}

type MetalsDev struct {
    APIKey  string `json:"api_key"`
    BaseURL string `json:"base_url"`
}

type ExchangeRate struct {
    BaseURL string `json:"base_url"`
}

type Refresh struct {
    Secret       string `json:"secret"`
    StalenessSec int    `json:"staleness_sec"`
}

type Cache struct {
    Backend       string `json:"backend"` // "memory" or "redis"
    RedisAddr     string `json:"redis_addr"`
    RedisPassword string `json:"redis_password"`
    RedisDB       int    `json:"redis_db"`
}

type Config struct {
    Server       Server       `json:"server"`
    GoldAPI      GoldAPI      `json:"goldapi"`
    MetalsDev    MetalsDev    `json:"metalsdev"`
    ExchangeRate ExchangeRate `json:"exchangerate"`
    Refresh      Refresh      `json:"refresh"`
    Cache        Cache        `json:"cache"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 10},
        GoldAPI: GoldAPI{
            BaseURL: "https://www.goldapi.io/api",
        },
        MetalsDev: MetalsDev{
            BaseURL: "https://api.metals.dev/v1/latest",
        },
        ExchangeRate: ExchangeRate{
            BaseURL: "https://api.exchangerate.host/latest",
        },
        Refresh: Refresh{StalenessSec: 300},
        Cache: Cache{
            Backend:   "memory",
            RedisAddr: "localhost:6379",
        },
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields; secrets
// come from the environment only.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
        return cfg, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
    }
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("GOLDAPI_TOKEN"); v != "" { cfg.GoldAPI.Token = v }
    if v := os.Getenv("GOLDAPI_BASE_URL"); v != "" { cfg.GoldAPI.BaseURL = v }
    if v := os.Getenv("METALSDEV_API_KEY"); v != "" { cfg.MetalsDev.APIKey = v }
    if v := os.Getenv("METALSDEV_BASE_URL"); v != "" { cfg.MetalsDev.BaseURL = v }
    if v := os.Getenv("EXCHANGERATE_BASE_URL"); v != "" { cfg.ExchangeRate.BaseURL = v }
    if v := os.Getenv("REFRESH_SECRET"); v != "" { cfg.Refresh.Secret = v }
    if v := os.Getenv("STALENESS_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Refresh.StalenessSec = x }
    }
    if v := os.Getenv("CACHE_BACKEND"); v != "" { cfg.Cache.Backend = strings.ToLower(v) }
    if v := os.Getenv("REDIS_ADDR"); v != "" { cfg.Cache.RedisAddr = v }
    if v := os.Getenv("REDIS_PASSWORD"); v != "" { cfg.Cache.RedisPassword = v }
    if v := os.Getenv("REDIS_DB"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Cache.RedisDB = x }
    }
}
