package domain

import "fmt"

type ProposalState string

const (
	ProposalStateSubmitted      ProposalState = "submitted"
	ProposalStateFunded         ProposalState = "funded"
	ProposalStateWriting        ProposalState = "writing"
	ProposalStateHasReviewers   ProposalState = "hasReviewers"
	ProposalStateReadyToPublish ProposalState = "readyToPublish"
	ProposalStatePublished      ProposalState = "published"
)

func (s ProposalState) Valid() bool {
	switch s {
	case ProposalStateSubmitted, ProposalStateFunded, ProposalStateWriting,
		ProposalStateHasReviewers, ProposalStateReadyToPublish, ProposalStatePublished:
		return true
	}
	return false
}

func ParseProposalState(s string) (ProposalState, error) {
	state := ProposalState(s)
	if !state.Valid() {
		return "", fmt.Errorf("unknown proposal state %q", s)
	}
	return state, nil
}

// DaoState is the governance configuration read from the ledger.
type DaoState struct {
	Quorum int64 `json:"quorum"`
}

// QuorumReached reports whether numberOfVotes meets the funding threshold.
func (d DaoState) QuorumReached(numberOfVotes int64) bool {
	return numberOfVotes >= d.Quorum
}
