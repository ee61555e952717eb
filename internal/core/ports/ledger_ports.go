package ports

import (
	"context"

	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

type LedgerVoteService interface {
	CastVote(ctx context.Context, tutorialID int64, voter string) error
	DaoState(ctx context.Context) (domain.DaoState, error)
}

type VoteLister interface {
	ListVotes(ctx context.Context, tutorialID int64) ([]domain.Vote, error)
}

// Ledger is implemented by every ledger adapter.
type Ledger interface {
	LedgerVoteService
	VoteLister
}
