package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/httputil"
	"securevote/pkg/requestcontext"
)

type castVoteRequest struct {
	CandidateID string `json:"candidate_id"`
	// Salt binds the voter's receipt to the ballot. The voter keeps it
	// private; the platform stores it only for chain verification.
	Salt string `json:"salt"`
}

type castVoteResponse struct {
	BallotID string    `json:"ballot_id"`
	Receipt  string    `json:"receipt"`
	CastAt   time.Time `json:"cast_at"`
}

func (h *Handlers) handleCastVote(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}
	candidateID, err := id.ParseCandidateID(req.CandidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	handle := requestcontext.VoterHandle(r.Context())
	result, err := h.voting.CastVote(r.Context(), handle, electionID, candidateID, req.Salt)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, castVoteResponse{
		BallotID: result.BallotID.String(),
		Receipt:  result.Receipt,
		CastAt:   result.CastAt,
	})
}

func (h *Handlers) handleBallotStatus(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	handle := requestcontext.VoterHandle(r.Context())
	voter, err := h.roll.Status(r.Context(), electionID, handle)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"has_voted": voter.HasVoted})
}
