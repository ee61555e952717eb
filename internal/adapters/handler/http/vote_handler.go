package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
	"github.com/vncsmyrnk/tutorialvote/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteSubmissionService
	ledger  ports.Ledger
	status  ports.SubmissionStatusReader
	log     zerolog.Logger
}

func NewVoteHandler(service ports.VoteSubmissionService, ledger ports.Ledger, status ports.SubmissionStatusReader, log zerolog.Logger) *VoteHandler {
	return &VoteHandler{
		service: service,
		ledger:  ledger,
		status:  status,
		log:     log,
	}
}

type votesResponse struct {
	TutorialID int64         `json:"tutorial_id"`
	Count      int           `json:"count"`
	Votes      []domain.Vote `json:"votes"`
}

// SubmitVote casts the authenticated voter's vote on the tutorial and
// mirrors the new count into the search index.
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	tutorialID, err := tutorialIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	voter, err := voterFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	currentVotes, err := h.ledger.ListVotes(r.Context(), tutorialID)
	if err != nil {
		h.log.Error().Err(err).Int64("tutorial_id", tutorialID).Msg("failed to list current votes")
		http.Error(w, "failed to read current votes", http.StatusBadGateway)
		return
	}

	result, err := h.service.Submit(r.Context(), ports.SubmitVoteInput{
		TutorialID:   tutorialID,
		Voter:        voter,
		CurrentVotes: currentVotes,
	})
	if err != nil {
		h.writeJSON(w, submitErrorStatus(err), result)
		return
	}

	h.writeJSON(w, http.StatusCreated, result)
}

func (h *VoteHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	tutorialID, err := tutorialIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	votes, err := h.ledger.ListVotes(r.Context(), tutorialID)
	if err != nil {
		h.log.Error().Err(err).Int64("tutorial_id", tutorialID).Msg("failed to list votes")
		http.Error(w, "failed to read votes", http.StatusBadGateway)
		return
	}
	if votes == nil {
		votes = []domain.Vote{}
	}

	h.writeJSON(w, http.StatusOK, votesResponse{TutorialID: tutorialID, Count: len(votes), Votes: votes})
}

func (h *VoteHandler) SubmissionStatus(w http.ResponseWriter, r *http.Request) {
	tutorialID, err := tutorialIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, h.status.Status(tutorialID))
}

func (h *VoteHandler) GetDaoState(w http.ResponseWriter, r *http.Request) {
	state, err := h.ledger.DaoState(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrGovernanceStateUnavailable) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, state)
}

func tutorialIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidTutorialID
	}
	return id, nil
}

func submitErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTutorialID), errors.Is(err, domain.ErrInvalidVoter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrTutorialNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyVoted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGovernanceStateUnavailable):
		return http.StatusPreconditionFailed
	default:
		return http.StatusBadGateway
	}
}

// writeJSON commits status before encoding, so an encode failure can only be logged.
func (h *VoteHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}
