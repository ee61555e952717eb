package jsonrpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

// Client talks to a governance node over JSON-RPC 2.0.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithBearerToken authenticates every call with the given access token.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CastVote(ctx context.Context, tutorialID int64, voter string) error {
	var reply CastVoteReply
	if err := c.call(ctx, methodCastVote, &CastVoteArgs{TutorialID: tutorialID, Voter: voter}, &reply); err != nil {
		return err
	}
	if !reply.Success {
		return fmt.Errorf("ledger rpc %s: vote not accepted", methodCastVote)
	}
	return nil
}

func (c *Client) DaoState(ctx context.Context) (domain.DaoState, error) {
	var reply GetStateReply
	if err := c.call(ctx, methodGetState, &GetStateArgs{}, &reply); err != nil {
		return domain.DaoState{}, err
	}
	return domain.DaoState{Quorum: reply.Quorum}, nil
}

func (c *Client) ListVotes(ctx context.Context, tutorialID int64) ([]domain.Vote, error) {
	var reply ListVotesReply
	if err := c.call(ctx, methodListVotes, &ListVotesArgs{TutorialID: tutorialID}, &reply); err != nil {
		return nil, err
	}
	return reply.Votes, nil
}

func (c *Client) call(ctx context.Context, method string, args, reply interface{}) error {
	body, err := json2.EncodeClientRequest(method, args)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ledger rpc %s: %w", method, err)
	}
	defer resp.Body.Close()

	if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
		var rpcErr *json2.Error
		if errors.As(err, &rpcErr) {
			return &RemoteError{Method: method, Code: rpcErr.Code, Msg: rpcErr.Message}
		}
		return fmt.Errorf("ledger rpc %s (status %d): %w", method, resp.StatusCode, err)
	}
	return nil
}
