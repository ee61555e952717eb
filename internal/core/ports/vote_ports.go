package ports

import (
	"context"

	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

type SubmitVoteInput struct {
	TutorialID   int64
	Voter        string
	CurrentVotes []domain.Vote
}

type VoteSubmissionService interface {
	Submit(ctx context.Context, input SubmitVoteInput) (domain.SubmissionResult, error)
}

// SubmissionObserver is notified around every submission. OnFinish is called
// exactly once per OnStart, whatever the outcome.
type SubmissionObserver interface {
	OnStart(tutorialID int64)
	OnFinish(tutorialID int64, result domain.SubmissionResult)
}

type SubmissionStatusReader interface {
	Status(tutorialID int64) domain.WorkflowStatus
}
