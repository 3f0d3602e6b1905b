package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Google   GoogleConfig
	Frontend FrontendConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	// Backend selects the session store: "memory" or "redis".
	Backend     string
	CookieName  string
	IdleTimeout time.Duration
	// SweepInterval bounds memory held by expired sessions; expiry itself is
	// evaluated lazily at lookup time.
	SweepInterval time.Duration
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	StateSecret  string
}

type FrontendConfig struct {
	// Origin is the single trusted origin allowed to call the API with
	// credentials attached.
	Origin string
	// AuthCallbackURL is where the browser lands after an external login.
	AuthCallbackURL string
}

func Load() (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "kyn"),
			Password: getEnv("DB_PASSWORD", "kyn"),
			DBName:   getEnv("DB_NAME", "kyndb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Backend:       getEnv("SESSION_BACKEND", "memory"),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "KYNSESSION"),
			IdleTimeout:   getDurationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			SweepInterval: getDurationEnv("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			CallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:8080/login/oauth2/code/google"),
			StateSecret:  getEnv("GOOGLE_STATE_SECRET", ""),
		},
		Frontend: FrontendConfig{
			Origin:          getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
			AuthCallbackURL: getEnv("FRONTEND_AUTH_CALLBACK_URL", "http://localhost:3000/auth-callback"),
		},
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
