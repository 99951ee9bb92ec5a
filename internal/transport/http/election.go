package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"securevote/internal/election/models"
	id "securevote/pkg/domain"
	"securevote/pkg/platform/httputil"
)

type electionPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Status      string    `json:"status"`
}

type candidatePayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Party string `json:"party,omitempty"`
}

func toElectionPayload(e *models.Election) electionPayload {
	return electionPayload{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		WindowStart: e.WindowStart,
		WindowEnd:   e.WindowEnd,
		Status:      string(e.Status),
	}
}

func toCandidatePayloads(candidates []*models.Candidate) []candidatePayload {
	out := make([]candidatePayload, len(candidates))
	for i, c := range candidates {
		out[i] = candidatePayload{ID: c.ID.String(), Name: c.Name, Party: c.Party}
	}
	return out
}

func (h *Handlers) handleListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.elections.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]electionPayload, len(elections))
	for i, e := range elections {
		out[i] = toElectionPayload(e)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"elections": out})
}

func (h *Handlers) handleGetElection(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	election, candidates, err := h.elections.Get(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"election":   toElectionPayload(election),
		"candidates": toCandidatePayloads(candidates),
	})
}
