// Package httputil centralizes JSON response envelopes so every handler
// speaks the same error dialect.
package httputil

import (
	"encoding/json"
	"net/http"

	derrors "securevote/pkg/domain-errors"
)

var statusByCode = map[derrors.Code]int{
	derrors.CodeInvalidInput:    http.StatusBadRequest,
	derrors.CodeBadRequest:      http.StatusBadRequest,
	derrors.CodeUnauthorized:    http.StatusUnauthorized,
	derrors.CodeForbidden:       http.StatusForbidden,
	derrors.CodeNotFound:        http.StatusNotFound,
	derrors.CodeConflict:        http.StatusConflict,
	derrors.CodeTooManyRequests: http.StatusTooManyRequests,
	derrors.CodeIntegrity:       http.StatusConflict,
	derrors.CodeUnavailable:     http.StatusServiceUnavailable,
	derrors.CodeInternal:        http.StatusInternalServerError,
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the shared JSON error envelope.
// Internal errors omit the description so storage details never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
		code = derrors.CodeInternal
	}

	body := map[string]string{"error": string(code)}
	if code != derrors.CodeInternal {
		if msg := derrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, status, body)
}
