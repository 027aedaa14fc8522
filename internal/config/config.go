package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects every knob the binaries read from the environment.
// godotenv loads .env in main before this runs; values here are plain
// os.Getenv lookups with defaults.
type Config struct {
	// HTTP server
	HTTPAddr string

	// Kalshi credentials and overrides. The inline PEM wins over the path.
	KalshiAPIKeyID       string
	KalshiPrivateKeyPEM  string
	KalshiPrivateKeyPath string
	KalshiBaseURL        string
	KalshiStatus         string

	// Polymarket endpoint overrides
	PolymarketGammaURL   string
	PolymarketClobURL    string
	PolymarketDataAPIURL string

	// Fetch bounds shared by both venues
	MaxPages  int
	PageLimit int

	// Optional Redis book cache; empty addr disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BookCacheTTL  time.Duration

	// Optional sinks; empty values disable them
	SQLitePath   string
	KafkaEnabled bool

	RequestTimeout time.Duration
}

// Load reads the environment.
func Load() Config {
	return Config{
		HTTPAddr: envStr("HTTP_ADDR", ":8080"),

		KalshiAPIKeyID:       os.Getenv("KALSHI_API_KEY_ID"),
		KalshiPrivateKeyPEM:  os.Getenv("KALSHI_API_PRIVATE_KEY_PEM"),
		KalshiPrivateKeyPath: os.Getenv("KALSHI_API_PRIVATE_KEY"),
		KalshiBaseURL:        os.Getenv("KALSHI_API_BASE_URL"),
		KalshiStatus:         os.Getenv("KALSHI_STATUS"),

		PolymarketGammaURL:   os.Getenv("POLYMARKET_GAMMA_URL"),
		PolymarketClobURL:    os.Getenv("POLYMARKET_CLOB_URL"),
		PolymarketDataAPIURL: os.Getenv("POLYMARKET_DATA_API_URL"),

		MaxPages:  envInt("FETCH_MAX_PAGES", 5),
		PageLimit: envInt("FETCH_PAGE_LIMIT", 0),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		BookCacheTTL:  envDuration("BOOK_CACHE_TTL", 30*time.Second),

		SQLitePath:   os.Getenv("SQLITE_PATH"),
		KafkaEnabled: envBool("KAFKA_ENABLED", false),

		RequestTimeout: envDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

func envStr(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return def
}
