package domain

import "errors"

var (
	ErrInvalidTutorialID          = errors.New("invalid tutorial id")
	ErrInvalidVoter               = errors.New("invalid voter")
	ErrAlreadyVoted               = errors.New("voter has already voted on this tutorial")
	ErrTutorialNotFound           = errors.New("tutorial not found")
	ErrGovernanceStateUnavailable = errors.New("governance state unavailable")
	ErrIndexUnavailable           = errors.New("search index unavailable")
	ErrForbidden                  = errors.New("caller may not cast this vote")
)
