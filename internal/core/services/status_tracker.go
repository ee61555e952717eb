package services

import (
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

// DefaultStatusErrorCacheSize bounds how many tutorials keep their last
// submission error.
const DefaultStatusErrorCacheSize = 4096

// StatusTracker keeps the WorkflowStatus of tutorials with submissions in
// flight or a recent failure. Submitting stays true while any submission for
// the tutorial is in flight. Only the most recent failures are retained, and
// failures that say nothing about an existing tutorial are not kept at all.
type StatusTracker struct {
	mu       sync.RWMutex
	inFlight map[int64]int
	errs     *lru.Cache[int64, error]
}

func NewStatusTracker() *StatusTracker {
	return NewStatusTrackerWithSize(DefaultStatusErrorCacheSize)
}

func NewStatusTrackerWithSize(size int) *StatusTracker {
	errs, err := lru.New[int64, error](size)
	if err != nil {
		// only a non-positive size fails
		errs, _ = lru.New[int64, error](DefaultStatusErrorCacheSize)
	}
	return &StatusTracker{
		inFlight: make(map[int64]int),
		errs:     errs,
	}
}

func (t *StatusTracker) OnStart(tutorialID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inFlight[tutorialID]++
	t.errs.Remove(tutorialID)
}

func (t *StatusTracker) OnFinish(tutorialID int64, result domain.SubmissionResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := t.inFlight[tutorialID]; n > 1 {
		t.inFlight[tutorialID] = n - 1
	} else {
		delete(t.inFlight, tutorialID)
	}

	if retainError(result) {
		t.errs.Add(tutorialID, result.Err)
	} else {
		t.errs.Remove(tutorialID)
	}
}

func (t *StatusTracker) Status(tutorialID int64) domain.WorkflowStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	status := domain.WorkflowStatus{Submitting: t.inFlight[tutorialID] > 0}
	if err, ok := t.errs.Peek(tutorialID); ok {
		status.Err = err
	}
	return status
}

// Len is the number of entries the tracker holds.
func (t *StatusTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.inFlight) + t.errs.Len()
}

func retainError(result domain.SubmissionResult) bool {
	if result.Err == nil || result.Kind == domain.ErrorKindPrecondition {
		return false
	}
	return !errors.Is(result.Err, domain.ErrTutorialNotFound)
}
