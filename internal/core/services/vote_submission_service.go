package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
	"github.com/vncsmyrnk/tutorialvote/internal/core/ports"
)

type voteSubmissionService struct {
	ledger    ports.LedgerVoteService
	index     ports.SearchIndexUpdater
	observers []ports.SubmissionObserver
	log       zerolog.Logger
}

func NewVoteSubmissionService(ledger ports.LedgerVoteService, index ports.SearchIndexUpdater, log zerolog.Logger, observers ...ports.SubmissionObserver) ports.VoteSubmissionService {
	return &voteSubmissionService{
		ledger:    ledger,
		index:     index,
		observers: observers,
		log:       log.With().Str("component", "vote_submission").Logger(),
	}
}

// Submit casts a vote for input.TutorialID on the ledger and then mirrors the
// new vote count into the search index. The count is len(input.CurrentVotes)+1;
// the ledger is not re-queried. The error returned on a collaborator failure
// is the collaborator's own error value.
func (s *voteSubmissionService) Submit(ctx context.Context, input ports.SubmitVoteInput) (result domain.SubmissionResult, err error) {
	result = domain.SubmissionResult{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Phase:     domain.SubmissionInProgress,
	}
	log := s.log.With().
		Str("submission_id", result.ID.String()).
		Int64("tutorial_id", input.TutorialID).
		Logger()

	for _, o := range s.observers {
		o.OnStart(input.TutorialID)
	}
	defer func() {
		for _, o := range s.observers {
			o.OnFinish(input.TutorialID, result)
		}
	}()

	if input.TutorialID <= 0 {
		log.Warn().Msg("rejected submission with invalid tutorial id")
		return fail(result, domain.ErrorKindPrecondition, domain.ErrInvalidTutorialID)
	}

	daoState, err := s.ledger.DaoState(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("governance state unavailable")
		return fail(result, domain.ErrorKindPrecondition, fmt.Errorf("%w: %w", domain.ErrGovernanceStateUnavailable, err))
	}
	if daoState.Quorum <= 0 {
		log.Warn().Int64("quorum", daoState.Quorum).Msg("governance state has no quorum")
		return fail(result, domain.ErrorKindPrecondition, fmt.Errorf("%w: quorum is %d", domain.ErrGovernanceStateUnavailable, daoState.Quorum))
	}

	if err := s.ledger.CastVote(ctx, input.TutorialID, input.Voter); err != nil {
		log.Warn().Err(err).Msg("ledger vote cast failed")
		return fail(result, domain.ErrorKindLedgerCast, err)
	}

	record := domain.VoteRecord{
		ID:            input.TutorialID,
		NumberOfVotes: int64(len(input.CurrentVotes)) + 1,
	}
	if daoState.QuorumReached(record.NumberOfVotes) {
		funded := domain.ProposalStateFunded
		record.State = &funded
	}

	if err := s.index.UpdateTutorial(ctx, record); err != nil {
		// The vote is already on the ledger; the index stays stale until
		// the next successful update for this tutorial.
		log.Error().Err(err).
			Int64("number_of_votes", record.NumberOfVotes).
			Msg("index out of sync: vote cast but index update failed")
		return fail(result, domain.ErrorKindIndexUpdate, err)
	}

	result.Phase = domain.SubmissionSucceeded
	result.Record = &record
	log.Info().
		Int64("number_of_votes", record.NumberOfVotes).
		Bool("funded", record.State != nil).
		Msg("vote submitted")
	return result, nil
}

func fail(result domain.SubmissionResult, kind domain.ErrorKind, err error) (domain.SubmissionResult, error) {
	result.Phase = domain.SubmissionFailed
	result.Kind = kind
	result.Err = err
	return result, err
}
