package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/index/algolia"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/ledger/jsonrpc"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/ledger/memory"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/tutorialvote/internal/config"
	"github.com/vncsmyrnk/tutorialvote/internal/core/ports"
)

// OpenDB opens and pings the ledger mirror database.
func OpenDB(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}

// OpenLedger builds the ledger selected by cfg.Ledger.Driver. The returned
// close function releases whatever the ledger holds.
func OpenLedger(ctx context.Context, cfg config.Config) (ports.Ledger, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Ledger.Driver {
	case config.LedgerDriverPostgres:
		db, err := OpenDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, noop, err
		}
		return postgres.NewLedgerRepository(db), db.Close, nil
	case config.LedgerDriverJSONRPC:
		client := jsonrpc.NewClient(cfg.Ledger.RPCURL,
			jsonrpc.WithBearerToken(cfg.Ledger.RPCToken),
			jsonrpc.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		)
		return client, noop, nil
	case config.LedgerDriverMemory:
		return memory.NewStore(cfg.Ledger.Quorum), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown ledger driver %q", cfg.Ledger.Driver)
}

func NewIndex(cfg config.Config) (ports.SearchIndexUpdater, error) {
	client, err := algolia.NewClient(algolia.Config{
		AppID:      cfg.Algolia.AppID,
		APIKey:     cfg.Algolia.APIKey,
		IndexName:  cfg.Algolia.Index,
		BaseURL:    cfg.Algolia.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
