// config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"algo-journey/leaderboard"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DatabaseURL         string
	GatewayServiceToken string
	AllowedOrigins      []string

	GroupOrder leaderboard.GroupOrder

	CodeforcesAPIURL       string
	CodeforcesSyncInterval time.Duration
	StreamInterval         time.Duration

	R2 R2Config
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// Enabled reports whether enough of R2 is configured to upload archives.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.AccessKeySecret != "" && r.Bucket != ""
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:                envOr("PORT", "5200"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		GatewayServiceToken: os.Getenv("GATEWAY_SERVICE_TOKEN"),
		CodeforcesAPIURL:    strings.TrimRight(envOr("CODEFORCES_API_URL", "https://codeforces.com"), "/"),
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable not set")
	}
	if cfg.GatewayServiceToken == "" {
		return nil, errors.New("GATEWAY_SERVICE_TOKEN environment variable not set")
	}
	if p, err := strconv.Atoi(cfg.Port); err != nil || p <= 0 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	origins := envOr("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	order, err := leaderboard.ParseGroupOrder(os.Getenv("CONTEST_GROUP_ORDER"))
	if err != nil {
		return nil, fmt.Errorf("CONTEST_GROUP_ORDER: %w", err)
	}
	cfg.GroupOrder = order

	if cfg.CodeforcesSyncInterval, err = durationEnv("CODEFORCES_SYNC_INTERVAL", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.StreamInterval, err = durationEnv("LEADERBOARD_STREAM_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.StreamInterval <= 0 {
		return nil, errors.New("LEADERBOARD_STREAM_INTERVAL must be positive")
	}

	if cfg.R2.CDNBaseURL == "" && cfg.R2.AccountID != "" {
		cfg.R2.CDNBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2.AccountID)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
