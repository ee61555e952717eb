package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

// ProposeTutorial registers a tutorial proposal in the submitted state.
func (r *LedgerRepository) ProposeTutorial(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidTutorialID
	}
	query := `
		INSERT INTO tutorials (id, state)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, id, string(domain.ProposalStateSubmitted)); err != nil {
		return fmt.Errorf("failed to propose tutorial: %w", err)
	}
	return nil
}

// TutorialState returns the lifecycle state of a tutorial proposal.
func (r *LedgerRepository) TutorialState(ctx context.Context, id int64) (domain.ProposalState, error) {
	query := `SELECT state FROM tutorials WHERE id = $1`

	var state string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrTutorialNotFound
		}
		return "", fmt.Errorf("failed to get tutorial state: %w", err)
	}
	return domain.ParseProposalState(state)
}
