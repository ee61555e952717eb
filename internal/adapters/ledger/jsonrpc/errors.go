package jsonrpc

import (
	"errors"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

// Application error codes, outside the range reserved by JSON-RPC 2.0.
const (
	codeInvalidTutorialID     json2.ErrorCode = -32010
	codeInvalidVoter          json2.ErrorCode = -32011
	codeAlreadyVoted          json2.ErrorCode = -32012
	codeTutorialNotFound      json2.ErrorCode = -32013
	codeGovernanceUnavailable json2.ErrorCode = -32014
	codeForbidden             json2.ErrorCode = -32015
)

var codeToErr = map[json2.ErrorCode]error{
	codeInvalidTutorialID:     domain.ErrInvalidTutorialID,
	codeInvalidVoter:          domain.ErrInvalidVoter,
	codeAlreadyVoted:          domain.ErrAlreadyVoted,
	codeTutorialNotFound:      domain.ErrTutorialNotFound,
	codeGovernanceUnavailable: domain.ErrGovernanceStateUnavailable,
	codeForbidden:             domain.ErrForbidden,
}

func toRPCError(err error) error {
	if err == nil {
		return nil
	}
	for code, target := range codeToErr {
		if errors.Is(err, target) {
			return &json2.Error{Code: code, Message: err.Error()}
		}
	}
	return &json2.Error{Code: json2.E_SERVER, Message: err.Error()}
}

// RemoteError is a JSON-RPC error returned by the governance node. It
// unwraps to the matching domain error when the code is known.
type RemoteError struct {
	Method string
	Code   json2.ErrorCode
	Msg    string
}

func (e *RemoteError) Error() string {
	return "ledger rpc " + e.Method + ": " + e.Msg
}

func (e *RemoteError) Unwrap() error {
	return codeToErr[e.Code]
}
