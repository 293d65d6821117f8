// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cryptoex/pkg/db" // Import db package for its Config struct

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ExchangeConfig holds pricing and catalogue settings.
type ExchangeConfig struct {
	MinRate           int             // Lower bound for a new currency's random rate, inclusive
	MaxRate           int             // Upper bound for a new currency's random rate, inclusive
	Commission        decimal.Decimal // Spread fraction in [0, 1)
	DefaultCurrencies []string        // Seeded by init-db
}

// DriftConfig holds the background rate drift settings.
type DriftConfig struct {
	Enabled       bool
	Interval      time.Duration
	LowerBoundPct int // Inclusive
	UpperBoundPct int // Exclusive
}

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	LogLevel   string
	DB         db.Config
	Exchange   ExchangeConfig
	Drift      DriftConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")

	v.SetDefault("db.driver", db.DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "user")
	v.SetDefault("db.password", "password")
	v.SetDefault("db.name", "exchangedb")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "exchange.db")

	v.SetDefault("exchange.min_rate", 1)
	v.SetDefault("exchange.max_rate", 100)
	v.SetDefault("exchange.commission", "0.06")
	v.SetDefault("exchange.default_currencies", []string{"bitcoin", "ethereum", "ripple", "monero", "cardano"})

	v.SetDefault("drift.enabled", true)
	v.SetDefault("drift.interval", "10s")
	v.SetDefault("drift.lower_bound_pct", -10)
	v.SetDefault("drift.upper_bound_pct", 11)
}

// LoadConfig loads configuration from an optional .env file, an optional config.yaml
// (in . or ./config) and the environment, in increasing order of precedence.
// Environment keys are the upper-cased option path with dots replaced by underscores, e.g. DB_DRIVER.
func LoadConfig(envFiles ...string) (*AppConfig, error) {
	// A missing .env file is fine; the process environment is used as is.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	commission, err := decimal.NewFromString(v.GetString("exchange.commission"))
	if err != nil {
		return nil, fmt.Errorf("invalid exchange.commission: %w", err)
	}

	interval, err := time.ParseDuration(v.GetString("drift.interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid drift.interval: %w", err)
	}

	cfg := &AppConfig{
		ServerPort: v.GetString("server.port"),
		LogLevel:   v.GetString("log.level"),
		DB: db.Config{
			Driver:   v.GetString("db.driver"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
			Path:     v.GetString("db.path"),
		},
		Exchange: ExchangeConfig{
			MinRate:           v.GetInt("exchange.min_rate"),
			MaxRate:           v.GetInt("exchange.max_rate"),
			Commission:        commission,
			DefaultCurrencies: splitList(v.GetStringSlice("exchange.default_currencies")),
		},
		Drift: DriftConfig{
			Enabled:       v.GetBool("drift.enabled"),
			Interval:      interval,
			LowerBoundPct: v.GetInt("drift.lower_bound_pct"),
			UpperBoundPct: v.GetInt("drift.upper_bound_pct"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList accepts both YAML lists and comma separated environment values.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// Validate reports the first setting that is out of range.
func (c *AppConfig) Validate() error {
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("invalid db.driver %q: must be %q or %q", c.DB.Driver, db.DriverPostgres, db.DriverSQLite)
	}
	if c.Exchange.MinRate < 1 || c.Exchange.MinRate > c.Exchange.MaxRate {
		return fmt.Errorf("invalid exchange rate bounds [%d, %d]: need 1 <= min <= max", c.Exchange.MinRate, c.Exchange.MaxRate)
	}
	if c.Exchange.Commission.IsNegative() || c.Exchange.Commission.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("invalid exchange.commission %s: must be in [0, 1)", c.Exchange.Commission)
	}
	if c.Drift.Interval <= 0 {
		return fmt.Errorf("invalid drift.interval %s: must be positive", c.Drift.Interval)
	}
	if c.Drift.LowerBoundPct <= -100 || c.Drift.LowerBoundPct >= c.Drift.UpperBoundPct {
		return fmt.Errorf("invalid drift bounds [%d, %d): need -100 < lower < upper", c.Drift.LowerBoundPct, c.Drift.UpperBoundPct)
	}
	return nil
}
