// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every key in the YAML file can be overridden by the environment variable
// named in its env:"..." tag.
package config

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers understood by the storage layer.
const (
	DriverSQLite3  = "sqlite3"  // github.com/mattn/go-sqlite3 (cgo)
	DriverSQLite   = "sqlite"   // modernc.org/sqlite (pure Go)
	DriverPostgres = "postgres" // github.com/jackc/pgx/v5
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
}

// Storage selects the relational backend that owns the records table.
type Storage struct {
	// Driver is one of DriverSQLite3, DriverSQLite or DriverPostgres.
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite3"`

	// DSN is a file path for the sqlite drivers and a connection URL
	// (postgres://...) for postgres.
	DSN string `yaml:"dsn" env:"STORAGE_DSN" env-required:"true"`

	// MaxConns caps the connection pool.
	MaxConns int `yaml:"max_conns" env:"STORAGE_MAX_CONNS" env-default:"10"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`

	// MaxBodyBytes limits the size of a form submission.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"HTTP_SERVER_MAX_BODY_BYTES" env-default:"1048576"`
}

// IsDevelopment reports whether the app runs with the dev profile.
func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}

// Validate checks values cleanenv cannot express as tags.
func (c *Config) Validate() error {
	switch c.Env {
	case "dev", "staging", "prod":
	default:
		return fmt.Errorf("config: unknown env %q", c.Env)
	}

	switch c.Storage.Driver {
	case DriverSQLite3, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	// pgxpool takes the pool size as int32; a larger value would wrap.
	if c.Storage.MaxConns < 1 || c.Storage.MaxConns > math.MaxInt32 {
		return fmt.Errorf("config: storage.max_conns must be in [1, %d], got %d", math.MaxInt32, c.Storage.MaxConns)
	}
	if c.HTTPServer.MaxBodyBytes < 1 {
		return fmt.Errorf("config: http_server.max_body_bytes must be positive, got %d", c.HTTPServer.MaxBodyBytes)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Load reads the YAML file at path, applies env overrides and validates
// the result.
//
// HOW CLEANENV FILLS THE STRUCT:
// ──────────────────────────────
// cleanenv.ReadConfig does three passes over Config:
//
//  1. Parse the YAML file into the struct using the yaml:"..." tags.
//  2. For every field with an env:"..." tag, a set environment variable
//     overwrites the YAML value (STORAGE_DSN beats storage.dsn).
//  3. Fields still at their zero value get their env-default:"..." tag;
//     env-required:"true" fields that are still empty make it fail.
//
// Validate then covers what tags cannot: enumerations (env, driver) and
// numeric ranges. Load never exits the process; MustLoad does.
// ─────────────────────────────────────────────────────────────────────────────
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}
