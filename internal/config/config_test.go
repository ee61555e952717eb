package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEDGER_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, LedgerDriverMemory, cfg.Ledger.Driver)
	assert.Equal(t, int64(5), cfg.Ledger.Quorum)
	assert.Equal(t, "tutorials", cfg.Algolia.Index)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LEDGER_DRIVER", "postgres")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "user")
	t.Setenv("POSTGRES_PASSWORD", "password")
	t.Setenv("POSTGRES_DB", "governance")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("ALGOLIA_APP_ID", "APPID")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "APPID", cfg.Algolia.AppID)
	assert.Equal(t, "postgres://user:password@db:5432/governance?sslmode=disable", cfg.Postgres.ConnString())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"memory", Config{RequestTimeout: time.Second, Ledger: LedgerConfig{Driver: LedgerDriverMemory}}, true},
		{"jsonrpc without url", Config{RequestTimeout: time.Second, Ledger: LedgerConfig{Driver: LedgerDriverJSONRPC}}, false},
		{"jsonrpc", Config{RequestTimeout: time.Second, Ledger: LedgerConfig{Driver: LedgerDriverJSONRPC, RPCURL: "http://node/rpc"}}, true},
		{"postgres without host", Config{RequestTimeout: time.Second, Ledger: LedgerConfig{Driver: LedgerDriverPostgres}}, false},
		{"unknown driver", Config{RequestTimeout: time.Second, Ledger: LedgerConfig{Driver: "solana"}}, false},
		{"zero timeout", Config{Ledger: LedgerConfig{Driver: LedgerDriverMemory}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateServer_RequiresJWTSecret(t *testing.T) {
	cfg := Config{RequestTimeout: time.Second, Ledger: LedgerConfig{Driver: LedgerDriverMemory}}
	require.NoError(t, cfg.Validate())

	err := cfg.ValidateServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.ValidateServer())

	cfg.Ledger.Driver = "solana"
	assert.Error(t, cfg.ValidateServer())
}
