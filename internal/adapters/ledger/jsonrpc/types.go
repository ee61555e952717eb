package jsonrpc

import "github.com/vncsmyrnk/tutorialvote/internal/core/domain"

const (
	methodCastVote  = "dao.castVote"
	methodGetState  = "dao.getState"
	methodListVotes = "dao.listVotes"
)

type CastVoteArgs struct {
	TutorialID int64  `json:"tutorialId"`
	Voter      string `json:"voter"`
}

type CastVoteReply struct {
	Success bool `json:"success"`
}

type GetStateArgs struct{}

type GetStateReply struct {
	Quorum int64 `json:"quorum"`
}

type ListVotesArgs struct {
	TutorialID int64 `json:"tutorialId"`
}

type ListVotesReply struct {
	Votes []domain.Vote `json:"votes"`
}
