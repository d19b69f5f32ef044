package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Postgres    PostgresConfig
	HTTP        HTTPConfig
	Auth        AuthConfig
	Log         LogConfig
	StorageType string
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
	// Migrate applies the embedded schema migrations on startup.
	Migrate bool
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type HTTPConfig struct {
	Port     string
	BasePath string

	RateLimitRPS   float64
	RateLimitBurst int
}

type AuthConfig struct {
	JWTSecret    string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	EnableSignup bool
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig reads the configuration from the environment. It panics on a
// missing required key or a malformed value.
func LoadConfig() Config {
	storageType := getEnv("STORAGE_TYPE", StorageMemory)

	cfg := Config{
		StorageType: storageType,
		HTTP: HTTPConfig{
			Port:           getEnv("HTTP_PORT", "8080"),
			BasePath:       getEnv("HTTP_BASE_PATH", "/api/v1"),
			RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 0),
			RateLimitBurst: getInt("RATE_LIMIT_BURST", 20),
		},
		Auth: AuthConfig{
			JWTSecret:    mustGetEnv("JWT_SECRET"),
			AccessTTL:    getDuration("JWT_ACCESS_TTL", 5*time.Minute),
			RefreshTTL:   getDuration("JWT_REFRESH_TTL", 24*time.Hour),
			EnableSignup: getBool("ENABLE_SIGNUP", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	switch storageType {
	case StorageMemory:
	case StoragePostgres:
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv("POSTGRES_USER"),
			Password: mustGetEnv("POSTGRES_PASSWORD"),
			DB:       mustGetEnv("POSTGRES_DB"),
			Host:     mustGetEnv("POSTGRES_HOST"),
			Port:     mustGetInt("POSTGRES_PORT"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			Migrate:  getBool("POSTGRES_MIGRATE", true),
		}
	default:
		panic("unknown STORAGE_TYPE: " + storageType)
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(key string) int {
	val := mustGetEnv(key)
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	if os.Getenv(key) == "" {
		return def
	}
	return mustGetInt(key)
}

func getFloat(key string, def float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		panic("invalid float for env var " + key + ": " + val)
	}
	return f
}

func getBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		panic("invalid bool for env var " + key + ": " + val)
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		panic("invalid duration for env var " + key + ": " + val)
	}
	return d
}
