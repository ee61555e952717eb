package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/ledger/jsonrpc"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/ledger/memory"
	"github.com/vncsmyrnk/tutorialvote/internal/config"
)

func TestOpenLedger(t *testing.T) {
	ctx := context.Background()

	ledger, closeFn, err := OpenLedger(ctx, config.Config{
		RequestTimeout: time.Second,
		Ledger:         config.LedgerConfig{Driver: config.LedgerDriverMemory, Quorum: 3},
	})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, ledger)
	assert.NoError(t, closeFn())

	state, err := ledger.DaoState(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), state.Quorum)

	ledger, _, err = OpenLedger(ctx, config.Config{
		RequestTimeout: time.Second,
		Ledger:         config.LedgerConfig{Driver: config.LedgerDriverJSONRPC, RPCURL: "http://127.0.0.1:1/rpc"},
	})
	require.NoError(t, err)
	assert.IsType(t, &jsonrpc.Client{}, ledger)

	_, _, err = OpenLedger(ctx, config.Config{Ledger: config.LedgerConfig{Driver: "solana"}})
	assert.Error(t, err)
}

func TestNewIndex_RequiresAlgoliaCredentials(t *testing.T) {
	_, err := NewIndex(config.Config{RequestTimeout: time.Second})
	assert.Error(t, err)

	index, err := NewIndex(config.Config{
		RequestTimeout: time.Second,
		Algolia:        config.AlgoliaConfig{AppID: "APPID", APIKey: "key", Index: "tutorials"},
	})
	require.NoError(t, err)
	assert.NotNil(t, index)
}
