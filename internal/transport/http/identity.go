package httptransport

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/httputil"
)

type enrollRequest struct {
	// Identifier is the real-world identity document number. It is consumed
	// to derive the voter handle and never stored.
	Identifier string `json:"identifier"`
	Contact    string `json:"contact"`
	// Samples are base64-encoded biometric captures.
	Samples []string `json:"samples"`
}

type enrollResponse struct {
	VoterHandle string `json:"voter_handle"`
}

func (h *Handlers) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	samples, err := decodeSamples(req.Samples)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	handle, err := h.identity.Enroll(r.Context(), req.Identifier, req.Contact, samples)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, enrollResponse{VoterHandle: handle.String()})
}

type verifyDocumentRequest struct {
	// Document is the base64-encoded scan of the voter ID.
	Document string `json:"document"`
	FullName string `json:"full_name"`
}

func (h *Handlers) handleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	var req verifyDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	document, err := base64.StdEncoding.DecodeString(req.Document)
	if err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeInvalidInput, "document must be base64 encoded"))
		return
	}

	if err := h.document.Verify(r.Context(), document, req.FullName); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func decodeSamples(encoded []string) ([][]byte, error) {
	samples := make([][]byte, len(encoded))
	for i, s := range encoded {
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, derrors.New(derrors.CodeInvalidInput, "samples must be base64 encoded")
		}
		samples[i] = decoded
	}
	return samples, nil
}
