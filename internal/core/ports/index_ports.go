package ports

import (
	"context"

	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

type SearchIndexUpdater interface {
	UpdateTutorial(ctx context.Context, record domain.VoteRecord) error
}
