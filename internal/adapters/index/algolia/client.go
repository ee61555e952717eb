package algolia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

// maxFailedRequestCount is the number of consecutive failures before the
// breaker opens and updates fail fast.
const maxFailedRequestCount = 5

type Config struct {
	AppID     string
	APIKey    string
	IndexName string
	// BaseURL defaults to https://{AppID}.algolia.net.
	BaseURL        string
	BreakerTimeout time.Duration
	HTTPClient     *http.Client
}

// Client writes partial tutorial records into an Algolia index.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// APIError is a non-2xx answer from the index.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("algolia: status %d: %s", e.Status, e.Message)
}

type partialTutorial struct {
	NumberOfVotes int64                 `json:"numberOfVotes"`
	State         *domain.ProposalState `json:"state,omitempty"`
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.APIKey == "" || cfg.IndexName == "" {
		return nil, errors.New("algolia: app id, api key and index name are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.algolia.net", cfg.AppID)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	timeout := cfg.BreakerTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "algolia-" + cfg.IndexName,
			Timeout: timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailedRequestCount
			},
		}),
	}, nil
}

// UpdateTutorial applies a partial update to the tutorial object whose
// objectID is record.ID. Attributes not in the record are left untouched.
func (c *Client) UpdateTutorial(ctx context.Context, record domain.VoteRecord) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.partialUpdate(ctx, record)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	return err
}

func (c *Client) partialUpdate(ctx context.Context, record domain.VoteRecord) error {
	body, err := json.Marshal(partialTutorial{
		NumberOfVotes: record.NumberOfVotes,
		State:         record.State,
	})
	if err != nil {
		return fmt.Errorf("failed to encode tutorial %d: %w", record.ID, err)
	}

	endpoint := fmt.Sprintf("%s/1/indexes/%s/%s/partial?createIfNotExists=true",
		c.baseURL,
		url.PathEscape(c.cfg.IndexName),
		url.PathEscape(strconv.FormatInt(record.ID, 10)),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build index request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Algolia-Application-Id", c.cfg.AppID)
	req.Header.Set("X-Algolia-API-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("index update for tutorial %d: %w", record.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
