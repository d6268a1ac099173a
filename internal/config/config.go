package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LINE Loginの既定エンドポイント。テストや地域別環境向けに環境変数で上書き可能。
const (
	defaultLineAuthURL    = "https://access.line.me/oauth2/v2.1/authorize"
	defaultLineTokenURL   = "https://api.line.me/oauth2/v2.1/token"
	defaultLineProfileURL = "https://api.line.me/v2/profile"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// LINE Login (OAuth)
	LineClientID     string
	LineClientSecret string
	LineRedirectURL  string
	LineAuthURL      string
	LineTokenURL     string
	LineProfileURL   string

	// Session
	SessionSecret string
	SessionMaxAge int

	// Search upstreams
	OpenAIAPIKey      string
	EmbeddingModel    string
	EmbeddingEndpoint string
	PineconeAPIKey    string
	PineconeIndexHost string
	SearchTopK        int

	// Outbound HTTP
	UpstreamTimeout time.Duration

	// Rate Limit
	RateLimitGeneral int
	RateLimitSearch  int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
// リダイレクトURIの欠落は黙って無視せず起動時に失敗させる。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	required := []struct {
		key  string
		dest *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"LINE_CLIENT_ID", &cfg.LineClientID},
		{"LINE_CLIENT_SECRET", &cfg.LineClientSecret},
		{"LINE_REDIRECT_URL", &cfg.LineRedirectURL},
		{"SESSION_SECRET", &cfg.SessionSecret},
		{"BASE_URL", &cfg.BaseURL},
		{"OPENAI_API_KEY", &cfg.OpenAIAPIKey},
		{"PINECONE_API_KEY", &cfg.PineconeAPIKey},
		{"PINECONE_INDEX_HOST", &cfg.PineconeIndexHost},
	}
	for _, f := range required {
		*f.dest = os.Getenv(f.key)
		if *f.dest == "" {
			missing = append(missing, f.key)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.LineAuthURL = getEnvString("LINE_AUTH_URL", defaultLineAuthURL)
	cfg.LineTokenURL = getEnvString("LINE_TOKEN_URL", defaultLineTokenURL)
	cfg.LineProfileURL = getEnvString("LINE_PROFILE_URL", defaultLineProfileURL)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.EmbeddingModel = getEnvString("EMBEDDING_MODEL", "text-embedding-ada-002")
	cfg.EmbeddingEndpoint = getEnvString("EMBEDDING_ENDPOINT", "https://api.openai.com/v1/embeddings")
	cfg.SearchTopK = getEnvInt("SEARCH_TOP_K", 7)
	cfg.UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSearch = getEnvInt("RATE_LIMIT_SEARCH", 20)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
