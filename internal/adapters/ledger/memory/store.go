package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

// Store is an in-process ledger. It keeps the same rules as the postgres
// mirror: one vote per voter and tutorial, funded once quorum is met.
type Store struct {
	mu sync.RWMutex

	quorum    int64
	tutorials map[int64]domain.ProposalState
	votes     map[int64][]domain.Vote
	now       func() time.Time
}

func NewStore(quorum int64) *Store {
	return &Store{
		quorum:    quorum,
		tutorials: make(map[int64]domain.ProposalState),
		votes:     make(map[int64][]domain.Vote),
		now:       time.Now,
	}
}

func (s *Store) SetQuorum(_ context.Context, quorum int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quorum = quorum
	return nil
}

func (s *Store) ProposeTutorial(_ context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidTutorialID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tutorials[id]; !ok {
		s.tutorials[id] = domain.ProposalStateSubmitted
	}
	return nil
}

func (s *Store) TutorialState(_ context.Context, id int64) (domain.ProposalState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.tutorials[id]
	if !ok {
		return "", domain.ErrTutorialNotFound
	}
	return state, nil
}

func (s *Store) CastVote(_ context.Context, tutorialID int64, voter string) error {
	voter = strings.TrimSpace(voter)
	if voter == "" {
		return domain.ErrInvalidVoter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.tutorials[tutorialID]
	if !ok {
		return domain.ErrTutorialNotFound
	}
	for _, v := range s.votes[tutorialID] {
		if v.Voter == voter {
			return domain.ErrAlreadyVoted
		}
	}

	s.votes[tutorialID] = append(s.votes[tutorialID], domain.Vote{
		TutorialID: tutorialID,
		Voter:      voter,
		CastAt:     s.now().UTC(),
	})
	if state == domain.ProposalStateSubmitted && s.quorum > 0 && int64(len(s.votes[tutorialID])) >= s.quorum {
		s.tutorials[tutorialID] = domain.ProposalStateFunded
	}
	return nil
}

func (s *Store) DaoState(_ context.Context) (domain.DaoState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.quorum <= 0 {
		return domain.DaoState{}, domain.ErrGovernanceStateUnavailable
	}
	return domain.DaoState{Quorum: s.quorum}, nil
}

func (s *Store) ListVotes(_ context.Context, tutorialID int64) ([]domain.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Vote, len(s.votes[tutorialID]))
	copy(out, s.votes[tutorialID])
	return out, nil
}
