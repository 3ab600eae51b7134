// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config is loaded from the environment, optionally seeded from a .env file
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	AMQPURL string
	CORS    []string
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	// PublicBaseURL fixes the scheme and host of generated URLs. Empty means
	// derive them from each request.
	PublicBaseURL string
}

type DBConfig struct {
	Driver          string
	Path            string
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	AutoMigrate     bool
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Load reads envFile (if it exists) into the process environment and builds
// the configuration. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", "0.0.0.0"),
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		},
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", DriverSQLite),
			Path:            getEnv("DB_PATH", "data.sqlite"),
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", ""),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "orders"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsInt("DB_CONN_MAX_LIFETIME", 300),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		AMQPURL: getEnv("AMQP_URL", ""),
		CORS:    getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Log.Format)
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.URL == "" && c.DB.Path == "" {
			return fmt.Errorf("DB_PATH is required for sqlite3")
		}
	case DriverPostgres, DriverMySQL:
		if c.DB.URL == "" && c.DB.User == "" {
			return fmt.Errorf("DB_USER or DATABASE_URL is required for %s", c.DB.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s (must be sqlite3, postgres, or mysql)", c.DB.Driver)
	}

	if c.Server.PublicBaseURL != "" {
		u, err := url.Parse(c.Server.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("PUBLIC_BASE_URL must be an absolute URL, got %q", c.Server.PublicBaseURL)
		}
	}

	return nil
}

// Addr is the listen address of the HTTP server
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DSN builds the driver specific data source name. DATABASE_URL wins when set.
func (d DBConfig) DSN() string {
	if d.URL != "" {
		if d.Driver == DriverMySQL {
			return mysqlDSN(d.URL)
		}
		return d.URL
	}

	switch d.Driver {
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     net.JoinHostPort(d.Host, orDefault(d.Port, "5432")),
			Path:     "/" + d.Name,
			RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
		}
		return u.String()
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(d.Host, orDefault(d.Port, "3306"))
		mc.DBName = d.Name
		mc.ParseTime = true
		// UPDATE reports matched rows, not changed rows
		mc.ClientFoundRows = true
		return mc.FormatDSN()
	default:
		return d.Path
	}
}

// mysqlDSN forces clientFoundRows onto a user supplied DSN. An unparsable
// DSN is returned unchanged for the driver to reject.
func mysqlDSN(dsn string) string {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return dsn
	}
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

func (d DBConfig) ConnLifetime() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
