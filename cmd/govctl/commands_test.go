package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/ledger/jsonrpc"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/ledger/memory"
	"github.com/vncsmyrnk/tutorialvote/internal/config"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
	"github.com/vncsmyrnk/tutorialvote/internal/core/ports"
)

type recordingIndex struct {
	records []domain.VoteRecord
	err     error
}

func (r *recordingIndex) UpdateTutorial(_ context.Context, record domain.VoteRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

func newTestEnv(ledger ports.Ledger, index ports.SearchIndexUpdater) (*env, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &env{
		v:   config.NewViper(),
		out: out,
		openLedger: func(context.Context, config.Config) (ports.Ledger, func() error, error) {
			return ledger, func() error { return nil }, nil
		},
		openIndex: func(config.Config) (ports.SearchIndexUpdater, error) {
			return index, nil
		},
	}, out
}

func execute(t *testing.T, e *env, args ...string) error {
	t.Helper()
	cmd := newRootCmdWithEnv(e)
	cmd.SetArgs(append(args, "--ledger", "memory", "--log-level", "error"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestVoteCommand(t *testing.T) {
	store := memory.NewStore(2)
	require.NoError(t, store.ProposeTutorial(context.Background(), 4))
	require.NoError(t, store.CastVote(context.Background(), 4, "bob"))
	index := &recordingIndex{}
	e, out := newTestEnv(store, index)

	require.NoError(t, execute(t, e, "vote", "--tutorial", "4", "--voter", "alice"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Equal(t, "succeeded", body["phase"])

	require.Len(t, index.records, 1)
	assert.Equal(t, int64(2), index.records[0].NumberOfVotes)
	require.NotNil(t, index.records[0].State)
	assert.Equal(t, domain.ProposalStateFunded, *index.records[0].State)
}

func TestVoteCommand_PrintsFailure(t *testing.T) {
	store := memory.NewStore(2)
	index := &recordingIndex{}
	e, out := newTestEnv(store, index)

	err := execute(t, e, "vote", "--tutorial", "9", "--voter", "alice")
	assert.ErrorIs(t, err, domain.ErrTutorialNotFound)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Equal(t, "failed", body["phase"])
	assert.Equal(t, "ledger_cast", body["error_kind"])
	assert.Empty(t, index.records)
}

func TestVoteCommand_RequiresFlags(t *testing.T) {
	e, _ := newTestEnv(memory.NewStore(2), &recordingIndex{})
	assert.Error(t, execute(t, e, "vote", "--tutorial", "1"))
}

func TestAdminCommands(t *testing.T) {
	store := memory.NewStore(2)
	e, out := newTestEnv(store, &recordingIndex{})

	require.NoError(t, execute(t, e, "set-quorum", "7"))
	require.NoError(t, execute(t, e, "propose", "12"))

	state, err := store.TutorialState(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStateSubmitted, state)

	require.NoError(t, execute(t, e, "state"))
	var dao domain.DaoState
	require.NoError(t, json.Unmarshal(out.Bytes(), &dao))
	assert.Equal(t, int64(7), dao.Quorum)

	assert.Error(t, execute(t, e, "set-quorum", "0"))
	assert.Error(t, execute(t, e, "propose", "abc"))
}

func TestAdminCommands_RemoteLedgerRejected(t *testing.T) {
	e, _ := newTestEnv(jsonrpc.NewClient("http://127.0.0.1:1/rpc"), &recordingIndex{})

	err := execute(t, e, "set-quorum", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be administered")
}

func TestVotesCommand(t *testing.T) {
	store := memory.NewStore(2)
	require.NoError(t, store.ProposeTutorial(context.Background(), 1))
	require.NoError(t, store.CastVote(context.Background(), 1, "alice"))
	e, out := newTestEnv(store, &recordingIndex{})

	require.NoError(t, execute(t, e, "votes", "--tutorial", "1"))

	var votes []domain.Vote
	require.NoError(t, json.Unmarshal(out.Bytes(), &votes))
	require.Len(t, votes, 1)
	assert.Equal(t, "alice", votes[0].Voter)
}

func TestVoteCommand_IndexFailureReturnsIndexError(t *testing.T) {
	store := memory.NewStore(5)
	require.NoError(t, store.ProposeTutorial(context.Background(), 1))
	indexErr := errors.New("index down")
	e, _ := newTestEnv(store, &recordingIndex{err: indexErr})

	err := execute(t, e, "vote", "--tutorial", "1", "--voter", "alice")
	assert.ErrorIs(t, err, indexErr)
}

func TestTutorialCommand(t *testing.T) {
	store := memory.NewStore(1)
	require.NoError(t, store.ProposeTutorial(context.Background(), 6))
	require.NoError(t, store.CastVote(context.Background(), 6, "alice"))
	e, out := newTestEnv(store, &recordingIndex{})

	require.NoError(t, execute(t, e, "tutorial", "6"))

	var body tutorialOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Equal(t, int64(6), body.ID)
	assert.Equal(t, domain.ProposalStateFunded, body.State)

	err := execute(t, e, "tutorial", "7")
	assert.ErrorIs(t, err, domain.ErrTutorialNotFound)
}
