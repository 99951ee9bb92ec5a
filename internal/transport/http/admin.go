package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"securevote/internal/credential"
	"securevote/internal/election/models"
	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/httputil"
	"securevote/pkg/requestcontext"
)

type adminLoginRequest struct {
	AdminKey string `json:"admin_key"`
}

func (h *Handlers) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	if h.cfg.AdminKeyHash == "" {
		httputil.WriteError(w, derrors.New(derrors.CodeUnavailable, "admin access is not configured"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminKeyHash), []byte(req.AdminKey)); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeUnauthorized, "invalid admin key"))
		return
	}

	token, err := h.credentials.Issue("", credential.RoleAdmin, h.cfg.CredentialTTL, requestcontext.Now(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, credentialResponse{Credential: token})
}

func (h *Handlers) handleEraseIdentity(w http.ResponseWriter, r *http.Request) {
	handle, err := id.ParseVoterHandle(chi.URLParam(r, "voterHandle"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.identity.Erase(r.Context(), handle); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

func (h *Handlers) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req createElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	election, err := h.elections.Create(r.Context(), req.Title, req.Description, req.WindowStart, req.WindowEnd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toElectionPayload(election))
}

type addCandidateRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

func (h *Handlers) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req addCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	candidate, err := h.elections.AddCandidate(r.Context(), electionID, req.Name, req.Party)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, candidatePayload{
		ID:    candidate.ID.String(),
		Name:  candidate.Name,
		Party: candidate.Party,
	})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) handleSetElectionStatus(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	election, err := h.elections.Transition(r.Context(), electionID, models.Status(req.Status))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toElectionPayload(election))
}

type authorizeVotersRequest struct {
	VoterHandles []string `json:"voter_handles"`
}

func (h *Handlers) handleAuthorizeVoters(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req authorizeVotersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	handles := make([]id.VoterHandle, 0, len(req.VoterHandles))
	for _, raw := range req.VoterHandles {
		handle, err := id.ParseVoterHandle(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		handles = append(handles, handle)
	}

	// The election must exist before anyone is authorized for it.
	if _, _, err := h.elections.Get(r.Context(), electionID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	added, err := h.roll.Authorize(r.Context(), electionID, handles)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"added": added})
}

func (h *Handlers) handleTally(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if _, _, err := h.elections.Get(r.Context(), electionID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	counts, err := h.ledger.VerifiedTally(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make(map[string]int, len(counts))
	for candidateID, count := range counts {
		out[candidateID.String()] = count
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tally": out})
}

func (h *Handlers) handleVerifyLedger(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledger.VerifyChainIntegrity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"valid":              result.Valid,
		"length":             result.Length,
		"first_broken_index": result.FirstBrokenIndex,
	})
}
