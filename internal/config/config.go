package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the hub.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	X          XConfig
	Chat       ChatConfig
	Support    SupportConfig
	Classifier ClassifierConfig
	Poller     PollerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines staff authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// XConfig holds credentials and limits for the X API client.
type XConfig struct {
	BaseURL        string
	BearerToken    string
	AccountID      string
	RequestsPerMin int
	TimeoutSeconds int
}

// ChatConfig routes tickets to the team chat tool via webhooks.
type ChatConfig struct {
	// CategoryWebhooks maps taxonomy names to channel webhook URLs.
	// Missing categories fall back to the general webhook.
	CategoryWebhooks     map[string]string
	NotificationsWebhook string
	TimeoutSeconds       int
}

// SupportConfig holds the reply-template substitution values that the
// staff-facing templates reference.
type SupportConfig struct {
	CompanyName string
	Email       string
	Phone       string
}

// ClassifierConfig points at the external keyword table.
type ClassifierConfig struct {
	KeywordsPath string
}

// PollerConfig controls the inbound polling cycle.
type PollerConfig struct {
	IntervalSeconds         int
	TemplateCacheTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-hub"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		X: XConfig{
			BaseURL:        getEnv("X_API_BASE_URL", "https://api.twitter.com/2"),
			BearerToken:    os.Getenv("X_BEARER_TOKEN"),
			AccountID:      os.Getenv("X_ACCOUNT_ID"),
			RequestsPerMin: getEnvAsInt("X_REQUESTS_PER_MINUTE", 60),
			TimeoutSeconds: getEnvAsInt("X_TIMEOUT_SECONDS", 15),
		},
		Chat: ChatConfig{
			CategoryWebhooks: map[string]string{
				"general":   os.Getenv("CHAT_WEBHOOK_GENERAL"),
				"product":   os.Getenv("CHAT_WEBHOOK_PRODUCT"),
				"technical": os.Getenv("CHAT_WEBHOOK_TECHNICAL"),
				"billing":   os.Getenv("CHAT_WEBHOOK_BILLING"),
				"complaint": os.Getenv("CHAT_WEBHOOK_COMPLAINT"),
				"feature":   os.Getenv("CHAT_WEBHOOK_FEATURE"),
			},
			NotificationsWebhook: os.Getenv("CHAT_WEBHOOK_NOTIFICATIONS"),
			TimeoutSeconds:       getEnvAsInt("CHAT_TIMEOUT_SECONDS", 10),
		},
		Support: SupportConfig{
			CompanyName: getEnv("SUPPORT_COMPANY_NAME", "株式会社サンプル"),
			Email:       getEnv("SUPPORT_EMAIL", "support@example.com"),
			Phone:       getEnv("SUPPORT_PHONE", "03-1234-5678"),
		},
		Classifier: ClassifierConfig{
			KeywordsPath: getEnv("CLASSIFIER_KEYWORDS_PATH", "config/category_keywords.json"),
		},
		Poller: PollerConfig{
			IntervalSeconds:         getEnvAsInt("POLL_INTERVAL_SECONDS", 600),
			TemplateCacheTTLSeconds: getEnvAsInt("TEMPLATE_CACHE_TTL_SECONDS", 3600),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Interval returns the polling cycle duration.
func (p PollerConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// TemplateCacheTTL returns the template cache freshness window.
func (p PollerConfig) TemplateCacheTTL() time.Duration {
	return time.Duration(p.TemplateCacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
