// config.go
//
// Multi-tenant practice management service for chartered accountant firms
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of practice-portal.
// practice-portal is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// practice-portal is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with practice-portal.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port   string
	AppEnv string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string

	// Token configuration
	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	// Upload configuration
	UploadDir      string
	UploadMaxBytes int64

	// Behavior
	TaskStrictTransitions bool
	LoginRateLimit        int
	ReminderWindowDays    int
	CORSOrigins           string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "4000"),
		AppEnv:                getEnv("APP_ENV", "development"),
		DBType:                getEnv("DB_TYPE", "mysql"),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "3306"),
		DBDatabase:            getEnv("DB_DATABASE", ""),
		DBUser:                getEnv("DB_USER", ""),
		DBPassword:            getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:     getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBLogLevel:            getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		JWTRefreshSecret:      getEnv("JWT_REFRESH_SECRET", ""),
		AccessTokenTTL:        getEnvAsDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL:       getEnvAsDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		UploadDir:             getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes:        int64(getEnvAsInt("UPLOAD_MAX_BYTES", 50*1024*1024)),
		TaskStrictTransitions: getEnvAsBool("TASK_STRICT_TRANSITIONS", false),
		LoginRateLimit:        getEnvAsInt("LOGIN_RATE_LIMIT", 20),
		ReminderWindowDays:    getEnvAsInt("REMINDER_WINDOW_DAYS", 7),
		CORSOrigins:           getEnv("CORS_ORIGINS", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields
func (cfg *Config) Validate() error {
	if cfg.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET are required")
	}
	if cfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// IsProduction reports whether APP_ENV names a production deployment
func (cfg *Config) IsProduction() bool {
	return strings.EqualFold(cfg.AppEnv, "production")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
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

// getEnvAsDuration accepts Go duration strings ("90m") or a plain number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
