package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// LedgerRepository is a postgres mirror of the governance ledger. It is used
// when no governance node is reachable and in integration tests.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CastVote records the vote and, in the same transaction, advances the
// tutorial to funded once the quorum is met. The tutorial row is locked for
// the duration of the transaction.
func (r *LedgerRepository) CastVote(ctx context.Context, tutorialID int64, voter string) error {
	voter = strings.TrimSpace(voter)
	if voter == "" {
		return domain.ErrInvalidVoter
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Concurrent casts on one tutorial queue on this lock, so each quorum
	// check below sees every vote committed before it.
	queryLock := `SELECT state FROM tutorials WHERE id = $1 FOR UPDATE`
	var state string
	if err := tx.QueryRowContext(ctx, queryLock, tutorialID).Scan(&state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTutorialNotFound
		}
		return fmt.Errorf("failed to lock tutorial: %w", err)
	}

	queryVote := `
		INSERT INTO tutorial_votes (tutorial_id, voter)
		VALUES ($1, $2)
	`
	if _, err := tx.ExecContext(ctx, queryVote, tutorialID, voter); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case uniqueViolation:
				return domain.ErrAlreadyVoted
			case foreignKeyViolation:
				return domain.ErrTutorialNotFound
			}
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if state != string(domain.ProposalStateSubmitted) {
		return commit(tx)
	}

	queryFund := `
		UPDATE tutorials t
		SET state = $2, updated_at = NOW()
		FROM dao_state d
		WHERE t.id = $1
		  AND t.state = $3
		  AND (SELECT COUNT(*) FROM tutorial_votes v WHERE v.tutorial_id = t.id) >= d.quorum
	`
	_, err = tx.ExecContext(ctx, queryFund, tutorialID, string(domain.ProposalStateFunded), string(domain.ProposalStateSubmitted))
	if err != nil {
		return fmt.Errorf("failed to advance tutorial state: %w", err)
	}

	return commit(tx)
}

func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *LedgerRepository) DaoState(ctx context.Context) (domain.DaoState, error) {
	query := `SELECT quorum FROM dao_state WHERE id = 1`

	var state domain.DaoState
	err := r.db.QueryRowContext(ctx, query).Scan(&state.Quorum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DaoState{}, domain.ErrGovernanceStateUnavailable
		}
		return domain.DaoState{}, fmt.Errorf("failed to get dao state: %w", err)
	}
	return state, nil
}

func (r *LedgerRepository) SetQuorum(ctx context.Context, quorum int64) error {
	query := `
		INSERT INTO dao_state (id, quorum, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE
		SET quorum = EXCLUDED.quorum,
		    updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, quorum); err != nil {
		return fmt.Errorf("failed to set quorum: %w", err)
	}
	return nil
}

func (r *LedgerRepository) ListVotes(ctx context.Context, tutorialID int64) ([]domain.Vote, error) {
	query := `
		SELECT tutorial_id, voter, cast_at
		FROM tutorial_votes
		WHERE tutorial_id = $1
		ORDER BY cast_at, voter
	`
	rows, err := r.db.QueryContext(ctx, query, tutorialID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.TutorialID, &v.Voter, &v.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}
