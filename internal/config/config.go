// Package config reads service settings from the environment, loading a
// .env file first when one exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"TPSuite/internal/db"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string
	TLSCert       string
	TLSKey        string
	DBDriver      db.Driver
	DatabaseURL   string
	TokenKey      []byte
	AdminUser     string
	AdminPassword string
	TablesFile    string
	// DoseRate overrides the machine reference dose rate when non-zero.
	DoseRate    float64
	SaveTimeout time.Duration
	SessionTTL  time.Duration
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }

// Load reads .env files (missing ones are ignored) and then the
// environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Config{
		HTTPAddr:      or(getenv("HTTP_ADDR"), ":8080"),
		TLSCert:       getenv("TLS_CERT"),
		TLSKey:        getenv("TLS_KEY"),
		DBDriver:      db.Driver(strings.ToLower(or(getenv("DB_DRIVER"), string(db.DriverSQLite)))),
		DatabaseURL:   getenv("DATABASE_URL"),
		TokenKey:      []byte(getenv("TOKEN_KEY")),
		AdminUser:     getenv("ADMIN_USER"),
		AdminPassword: getenv("ADMIN_PASSWORD"),
		TablesFile:    getenv("TABLES_FILE"),
	}
	if len(c.TokenKey) == 0 {
		return Config{}, errors.New("TOKEN_KEY environment variable is not set")
	}
	if !c.DBDriver.Valid() {
		return Config{}, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDriver != db.DriverSQLite && c.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required for %s", c.DBDriver)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return Config{}, errors.New("TLS_CERT and TLS_KEY must be set together")
	}

	var err error
	if v := getenv("DOSE_RATE"); v != "" {
		c.DoseRate, err = strconv.ParseFloat(v, 64)
		if err != nil || c.DoseRate <= 0 {
			return Config{}, fmt.Errorf("DOSE_RATE %q must be a positive number", v)
		}
	}
	if c.SaveTimeout, err = duration(getenv, "SAVE_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if c.SessionTTL, err = duration(getenv, "SESSION_TTL", 8*time.Hour); err != nil {
		return Config{}, err
	}
	return c, nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s %q must be a positive duration", key, v)
	}
	return d, nil
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
