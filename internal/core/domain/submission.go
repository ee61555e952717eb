package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type SubmissionPhase int

const (
	SubmissionInProgress SubmissionPhase = iota
	SubmissionSucceeded
	SubmissionFailed
)

func (p SubmissionPhase) String() string {
	switch p {
	case SubmissionInProgress:
		return "in_progress"
	case SubmissionSucceeded:
		return "succeeded"
	case SubmissionFailed:
		return "failed"
	}
	return "unknown"
}

func (p SubmissionPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ErrorKind tells which stage of a submission failed.
type ErrorKind string

const (
	ErrorKindNone         ErrorKind = ""
	ErrorKindPrecondition ErrorKind = "precondition"
	ErrorKindLedgerCast   ErrorKind = "ledger_cast"
	ErrorKindIndexUpdate  ErrorKind = "index_update"
)

// SubmissionResult is the outcome of one vote submission. Record is set only
// when Phase is SubmissionSucceeded; Kind and Err only when it is SubmissionFailed.
type SubmissionResult struct {
	ID        uuid.UUID
	StartedAt time.Time
	Phase     SubmissionPhase
	Record    *VoteRecord
	Kind      ErrorKind
	Err       error
}

func (r SubmissionResult) MarshalJSON() ([]byte, error) {
	out := struct {
		ID        uuid.UUID       `json:"id"`
		StartedAt time.Time       `json:"started_at"`
		Phase     SubmissionPhase `json:"phase"`
		Record    *VoteRecord     `json:"record,omitempty"`
		Kind      ErrorKind       `json:"error_kind,omitempty"`
		Error     string          `json:"error,omitempty"`
	}{
		ID:        r.ID,
		StartedAt: r.StartedAt,
		Phase:     r.Phase,
		Record:    r.Record,
		Kind:      r.Kind,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// WorkflowStatus is what a caller renders while a submission runs.
type WorkflowStatus struct {
	Submitting bool
	Err        error
}

func (s WorkflowStatus) MarshalJSON() ([]byte, error) {
	out := struct {
		Submitting bool   `json:"submitting"`
		Error      string `json:"error,omitempty"`
	}{Submitting: s.Submitting}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return json.Marshal(out)
}
