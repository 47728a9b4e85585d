package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"eventdesk/internal/shared/constants"
)

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port            string
	GinMode         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	CORSOrigins     []string

	// Remote events API
	API APIConfig

	// Browser session cookie
	Cookie CookieConfig

	Database DatabaseConfig
	Redis    RedisConfig

	RateLimit RateLimitConfig

	Kafka KafkaConfig

	// Logging
	LogLevel string
	LogFile  string
}

// APIConfig holds the remote events API settings
type APIConfig struct {
	BaseURL     string
	Timeout     time.Duration
	TokenHeader string
}

// CookieConfig holds the credential cookie settings
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // sqlite or postgres
	SQLitePath string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	DSN        string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	ViewStateTTL    time.Duration
	ProfileCacheTTL time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled          bool          `json:"enabled"`
	WindowDuration   time.Duration `json:"window_duration"`
	DefaultRequests  int           `json:"default_requests"`
	BrowseRequests   int           `json:"browse_requests"`
	AuthRequests     int           `json:"auth_requests"`
	MutationRequests int           `json:"mutation_requests"`
	HealthRequests   int           `json:"health_requests"`
	WhitelistedIPs   []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds the activity stream settings
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	ActivityTopic string
	ClientID      string
}

// Load loads configuration from environment variables
func Load() *Config {
	ginMode := getEnv("GIN_MODE", "debug")

	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		GinMode:         ginMode,
		ReadTimeout:     getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB
		CORSOrigins:     getStringSliceEnv("CORS_ORIGINS", []string{}),

		API: APIConfig{
			BaseURL:     getEnv("API_BASE_URL", "http://localhost:3001"),
			Timeout:     getDurationEnv("API_TIMEOUT", 10*time.Second),
			TokenHeader: getEnv("API_TOKEN_HEADER", "access_token"),
		},

		Cookie: CookieConfig{
			Name:   getEnv("COOKIE_NAME", "token"),
			MaxAge: getDurationEnv("COOKIE_MAX_AGE", constants.TTL_SESSION_LONG),
			Secure: getBoolEnv("COOKIE_SECURE", ginMode == "release"),
		},

		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			SQLitePath: getEnv("SQLITE_PATH", "eventdesk.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			Name:       getEnv("DB_NAME", "eventdesk"),
			User:       getEnv("DB_USER", "eventdesk"),
			Password:   getEnv("DB_PASSWORD", "eventdesk"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			ViewStateTTL:    getDurationEnv("VIEW_STATE_TTL", 24*time.Hour),
			ProfileCacheTTL: getDurationEnv("PROFILE_CACHE_TTL", 5*time.Minute),
		},

		RateLimit: RateLimitConfig{
			Enabled:          getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:   getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests:  getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			BrowseRequests:   getIntEnv("RATE_LIMIT_BROWSE_REQUESTS", 120),
			AuthRequests:     getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 10),
			MutationRequests: getIntEnv("RATE_LIMIT_MUTATION_REQUESTS", 30),
			HealthRequests:   getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 300),
			WhitelistedIPs:   getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Kafka: KafkaConfig{
			Enabled:       getBoolEnv("KAFKA_ENABLED", false),
			Brokers:       getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			ActivityTopic: getEnv("KAFKA_ACTIVITY_TOPIC", "eventdesk.activity"),
			ClientID:      getEnv("KAFKA_CLIENT_ID", "eventdesk"),
		},

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the postgres connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}
