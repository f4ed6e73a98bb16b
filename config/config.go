/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/suparena/nftstore/errors"
	"github.com/suparena/nftstore/storagemodels"
)

// Environment variables that override the file configuration
const (
	EnvBackend       = "NFTSTORE_BACKEND"
	EnvPath          = "NFTSTORE_PATH"
	EnvContractOwner = "NFTSTORE_CONTRACT_OWNER"
	EnvLogLevel      = "NFTSTORE_LOG_LEVEL"
	EnvAccessKey     = "AWS_ACCESS_KEY"
	EnvSecretKey     = "AWS_SECRET_KEY"
	EnvRegion        = "AWS_REGION"
	EnvTable         = "AWS_DDB_TABLE"
	EnvEndpoint      = "AWS_DDB_ENDPOINT"
)

// Config is the complete runtime configuration of an nftstore process
type Config struct {
	Backend  Backend  `yaml:"backend"`
	Contract Contract `yaml:"contract"`
	Deposit  Deposit  `yaml:"deposit"`
	Cache    Cache    `yaml:"cache"`
	Log      Log      `yaml:"log"`
	Trace    Trace    `yaml:"trace"`
}

// Backend selects and configures the datastore driver
type Backend struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`

	// GCInterval is how often badger runs value log GC. Zero keeps the default.
	GCInterval time.Duration `yaml:"gc_interval"`

	DynamoDB DynamoDB `yaml:"dynamodb"`
}

// DynamoDB holds the settings of the dynamodb driver
type DynamoDB struct {
	AccessKey    string        `yaml:"access_key"`
	SecretKey    string        `yaml:"secret_key"`
	Region       string        `yaml:"region"`
	Table        string        `yaml:"table"`
	Endpoint     string        `yaml:"endpoint"`
	PageSize     int32         `yaml:"page_size"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// QueryOptions converts the paging and retry settings into backend options.
func (d DynamoDB) QueryOptions() []storagemodels.QueryOption {
	var opts []storagemodels.QueryOption
	if d.PageSize > 0 {
		opts = append(opts, storagemodels.WithPageSize(d.PageSize))
	}
	if d.MaxRetries > 0 {
		opts = append(opts, storagemodels.WithMaxRetries(d.MaxRetries))
	}
	if d.RetryBackoff > 0 {
		opts = append(opts, storagemodels.WithRetryBackoff(d.RetryBackoff))
	}
	return opts
}

// Contract is used when a registry is initialized on an empty store
type Contract struct {
	Owner    string                          `yaml:"owner"`
	Metadata *storagemodels.ContractMetadata `yaml:"metadata"`
}

// Deposit configures the mint precondition
type Deposit struct {
	Minimum string `yaml:"minimum"`
}

// MinimumDecimal parses Minimum. An empty minimum is zero.
func (d Deposit) MinimumDecimal() (decimal.Decimal, error) {
	if d.Minimum == "" {
		return decimal.Zero, nil
	}
	minimum, err := decimal.NewFromString(d.Minimum)
	if err != nil {
		return decimal.Zero, errors.NewValidationError("deposit.minimum", err.Error())
	}
	if minimum.IsNegative() {
		return decimal.Zero, errors.NewValidationError("deposit.minimum", "must not be negative")
	}
	return minimum, nil
}

// Cache configures the token read cache
type Cache struct {
	Enabled    bool          `yaml:"enabled"`
	Expiration time.Duration `yaml:"expiration"`
	Cleanup    time.Duration `yaml:"cleanup"`
}

// Log configures logging
type Log struct {
	Level string `yaml:"level"`
}

// Trace configures tracing
type Trace struct {
	Enabled bool `yaml:"enabled"`
}

// Defaults returns the configuration used when nothing else is given
func Defaults() *Config {
	return &Config{
		Backend: Backend{
			Driver: "badger",
			Path:   "nftstore-data",
		},
		Deposit: Deposit{Minimum: "0"},
		Cache: Cache{
			Enabled:    true,
			Expiration: 10 * time.Minute,
			Cleanup:    30 * time.Minute,
		},
		Log: Log{Level: "info"},
	}
}

// Load builds the configuration from defaults, an optional YAML file at path,
// a .env file in the working directory and the environment, in that order.
// The result is not validated; callers apply their own overrides first and
// then call Validate.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields with any environment variables that are set
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Backend.Driver, EnvBackend)
	set(&c.Backend.Path, EnvPath)
	set(&c.Contract.Owner, EnvContractOwner)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Backend.DynamoDB.AccessKey, EnvAccessKey)
	set(&c.Backend.DynamoDB.SecretKey, EnvSecretKey)
	set(&c.Backend.DynamoDB.Region, EnvRegion)
	set(&c.Backend.DynamoDB.Table, EnvTable)
	set(&c.Backend.DynamoDB.Endpoint, EnvEndpoint)
}

// Validate checks the configuration for values no component can work with
func (c *Config) Validate() error {
	if c.Backend.Driver == "" {
		return errors.NewValidationError("backend.driver", "must not be empty")
	}
	if c.Backend.Driver == "dynamodb" && c.Backend.DynamoDB.Table == "" {
		return errors.NewValidationError("backend.dynamodb.table", "required for the dynamodb driver")
	}
	if c.Contract.Metadata != nil {
		if err := c.Contract.Metadata.Validate(); err != nil {
			return err
		}
	}
	if _, err := c.Deposit.MinimumDecimal(); err != nil {
		return err
	}
	return nil
}
