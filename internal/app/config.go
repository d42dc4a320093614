package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"qmt-data/internal/dat"
)

// envPrefix namespaces variables (QMT_DATA_DIR); the bare names also work.
const envPrefix = "QMT"

// Config holds application configuration from env
type Config struct {
	DataDir    string        `envconfig:"DATA_DIR" default:"data" validate:"required"`
	OutputDir  string        `envconfig:"OUTPUT_DIR" default:"output" validate:"required"`
	Glob       string        `envconfig:"GLOB" default:"*.DAT" validate:"required"`
	SaveFormat string        `envconfig:"SAVE_FORMAT" default:"csv" validate:"oneof=csv json parquet xlsx"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Workers    int           `envconfig:"WORKERS" default:"1" validate:"min=1,max=256"`
	Heartbeat  time.Duration `envconfig:"HEARTBEAT" default:"30s" validate:"gt=0"`
	Timezone   string        `envconfig:"TIMEZONE" default:"Local"`

	DailyPriceCeiling       uint32  `envconfig:"DAILY_PRICE_CEILING" default:"1000000" validate:"gt=0"`
	IntradayPriceCeiling    uint32  `envconfig:"INTRADAY_PRICE_CEILING" default:"10000000" validate:"gt=0"`
	IntradayAmountThreshold uint32  `envconfig:"INTRADAY_AMOUNT_THRESHOLD" default:"1000000"`
	IntradayAmountDivisor   float64 `envconfig:"INTRADAY_AMOUNT_DIVISOR" default:"100" validate:"gt=0"`
	DailyVolumeMultiplier   int64   `envconfig:"DAILY_VOLUME_MULTIPLIER" default:"100" validate:"gt=0"`

	DBDSN       string `envconfig:"DB_DSN"`
	MetricsPort int    `envconfig:"METRICS_PORT" default:"0" validate:"min=0,max=65535"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`
}

// Overrides are per-invocation values from CLI flags; zero values keep the env config.
type Overrides struct {
	EnvFile    string
	DataDir    string
	OutputDir  string
	SaveFormat string
	Workers    int
}

// LoadConfig reads an optional .env file, then the environment, then applies overrides.
func LoadConfig(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	cfg.apply(o)
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) apply(o Overrides) {
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.SaveFormat != "" {
		c.SaveFormat = o.SaveFormat
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
}

// Location resolves TIMEZONE; "Local" or empty means the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DecodeOptions maps the config onto decoder options.
func (c *Config) DecodeOptions() (dat.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return dat.Options{}, err
	}
	return dat.Options{
		Location:                loc,
		DailyPriceCeiling:       c.DailyPriceCeiling,
		IntradayPriceCeiling:    c.IntradayPriceCeiling,
		IntradayAmountThreshold: c.IntradayAmountThreshold,
		IntradayAmountDivisor:   c.IntradayAmountDivisor,
		DailyVolumeMultiplier:   c.DailyVolumeMultiplier,
	}, nil
}
