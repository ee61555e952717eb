package jsonrpc

import (
	"errors"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
	"github.com/vncsmyrnk/tutorialvote/internal/core/ports"
)

// CastAuthorizer decides whether the caller of r may cast a ledger vote
// for voter. A non-nil error rejects the call.
type CastAuthorizer func(r *http.Request, voter string) error

// Service exposes a ledger as the "dao" JSON-RPC service.
type Service struct {
	ledger    ports.Ledger
	authorize CastAuthorizer
	log       zerolog.Logger
}

// NewHandler serves ledger over JSON-RPC 2.0.
//
// Example call:
//
//	curl -X POST --data '{
//	    "jsonrpc":"2.0",
//	    "id"     :1,
//	    "method" :"dao.getState",
//	    "params" :{}
//	}' -H 'content-type:application/json;' http://127.0.0.1:8080/rpc
func NewHandler(ledger ports.Ledger, authorize CastAuthorizer, log zerolog.Logger) (http.Handler, error) {
	if authorize == nil {
		return nil, errors.New("jsonrpc: a cast authorizer is required")
	}
	codec := NewCodec()

	server := rpc.NewServer()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := server.RegisterService(&Service{ledger: ledger, authorize: authorize, log: log}, "dao"); err != nil {
		return nil, err
	}
	return server, nil
}

func (s *Service) CastVote(r *http.Request, args *CastVoteArgs, reply *CastVoteReply) error {
	if err := s.authorize(r, args.Voter); err != nil {
		s.log.Warn().Err(err).Int64("tutorial_id", args.TutorialID).Msg("rpc cast vote not authorized")
		return toRPCError(err)
	}
	if err := s.ledger.CastVote(r.Context(), args.TutorialID, args.Voter); err != nil {
		s.log.Debug().Err(err).Int64("tutorial_id", args.TutorialID).Msg("rpc cast vote rejected")
		return toRPCError(err)
	}
	reply.Success = true
	return nil
}

func (s *Service) GetState(r *http.Request, _ *GetStateArgs, reply *GetStateReply) error {
	state, err := s.ledger.DaoState(r.Context())
	if err != nil {
		return toRPCError(err)
	}
	reply.Quorum = state.Quorum
	return nil
}

func (s *Service) ListVotes(r *http.Request, args *ListVotesArgs, reply *ListVotesReply) error {
	votes, err := s.ledger.ListVotes(r.Context(), args.TutorialID)
	if err != nil {
		return toRPCError(err)
	}
	reply.Votes = votes
	if reply.Votes == nil {
		reply.Votes = []domain.Vote{}
	}
	return nil
}
