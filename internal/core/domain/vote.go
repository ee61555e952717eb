package domain

import "time"

// Vote is a single ledger vote on a tutorial proposal.
type Vote struct {
	TutorialID int64     `json:"tutorial_id"`
	Voter      string    `json:"voter"`
	CastAt     time.Time `json:"cast_at"`
}

// VoteRecord is the partial tutorial document mirrored into the search index.
type VoteRecord struct {
	ID            int64          `json:"id"`
	NumberOfVotes int64          `json:"numberOfVotes"`
	State         *ProposalState `json:"state,omitempty"`
}
