package httptransport

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	id "securevote/pkg/domain"
	derrors "securevote/pkg/domain-errors"
	"securevote/pkg/platform/httputil"
)

type biometricAuthRequest struct {
	VoterHandle string `json:"voter_handle"`
	Sample      string `json:"sample"`
}

func (h *Handlers) handleVerifyBiometric(w http.ResponseWriter, r *http.Request) {
	var req biometricAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	handle, err := id.ParseVoterHandle(req.VoterHandle)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sample, err := base64.StdEncoding.DecodeString(req.Sample)
	if err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeInvalidInput, "sample must be base64 encoded"))
		return
	}

	if err := h.authflow.VerifyBiometric(r.Context(), handle, sample); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

type issueCodeRequest struct {
	VoterHandle string `json:"voter_handle"`
}

func (h *Handlers) handleIssueCode(w http.ResponseWriter, r *http.Request) {
	var req issueCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	handle, err := id.ParseVoterHandle(req.VoterHandle)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.authflow.IssueCode(r.Context(), handle); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

type verifyCodeRequest struct {
	VoterHandle string `json:"voter_handle"`
	Code        string `json:"code"`
}

type credentialResponse struct {
	Credential string `json:"credential"`
}

func (h *Handlers) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid request body"))
		return
	}

	handle, err := id.ParseVoterHandle(req.VoterHandle)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.authflow.VerifyCode(r.Context(), handle, req.Code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, credentialResponse{Credential: token})
}
