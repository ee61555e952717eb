package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	LedgerDriverPostgres = "postgres"
	LedgerDriverJSONRPC  = "jsonrpc"
	LedgerDriverMemory   = "memory"
)

type Config struct {
	HTTPAddr       string
	AllowedOrigins []string
	JWTSecret      string
	LogLevel       string
	RequestTimeout time.Duration

	Ledger   LedgerConfig
	Postgres PostgresConfig
	Algolia  AlgoliaConfig
}

type LedgerConfig struct {
	Driver   string
	RPCURL   string
	RPCToken string
	// Quorum seeds the memory ledger.
	Quorum int64
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

type AlgoliaConfig struct {
	AppID   string
	APIKey  string
	Index   string
	BaseURL string
}

// ConnString returns the lib/pq URL for the configured database.
func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

// NewViper returns a viper instance bound to the environment with every
// default set. A .env file in the working directory is loaded first when
// present.
func NewViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", "0.0.0.0:8080")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("LEDGER_DRIVER", LedgerDriverPostgres)
	v.SetDefault("LEDGER_QUORUM", 5)
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("ALGOLIA_INDEX", "tutorials")

	for _, key := range []string{
		"JWT_SECRET", "LEDGER_RPC_URL", "LEDGER_RPC_TOKEN",
		"POSTGRES_HOST", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"ALGOLIA_APP_ID", "ALGOLIA_API_KEY", "ALGOLIA_BASE_URL",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

func Load() (Config, error) {
	return FromViper(NewViper())
}

func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		JWTSecret:      v.GetString("JWT_SECRET"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		Ledger: LedgerConfig{
			Driver:   strings.ToLower(v.GetString("LEDGER_DRIVER")),
			RPCURL:   v.GetString("LEDGER_RPC_URL"),
			RPCToken: v.GetString("LEDGER_RPC_TOKEN"),
			Quorum:   v.GetInt64("LEDGER_QUORUM"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetString("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DB:       v.GetString("POSTGRES_DB"),
		},
		Algolia: AlgoliaConfig{
			AppID:   v.GetString("ALGOLIA_APP_ID"),
			APIKey:  v.GetString("ALGOLIA_API_KEY"),
			Index:   v.GetString("ALGOLIA_INDEX"),
			BaseURL: v.GetString("ALGOLIA_BASE_URL"),
		},
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Ledger.Driver {
	case LedgerDriverPostgres:
		if c.Postgres.Host == "" || c.Postgres.DB == "" {
			return fmt.Errorf("ledger driver %q requires POSTGRES_HOST and POSTGRES_DB", c.Ledger.Driver)
		}
	case LedgerDriverJSONRPC:
		if c.Ledger.RPCURL == "" {
			return fmt.Errorf("ledger driver %q requires LEDGER_RPC_URL", c.Ledger.Driver)
		}
	case LedgerDriverMemory:
	default:
		return fmt.Errorf("unknown ledger driver %q", c.Ledger.Driver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// ValidateServer adds the checks only the HTTP server needs on top of Validate.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
