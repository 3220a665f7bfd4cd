// Package httputil provides small helpers shared by every HTTP handler.
package httputil

import (
	"encoding/json"
	"net/http"

	"hireline/pkg/httperrors"
)

// WriteJSON serializes v and writes it with the given status. Encoding
// failures after the header is written can only be logged by middleware.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code httperrors.Code) int {
	switch code {
	case httperrors.CodeBadRequest:
		return http.StatusBadRequest
	case httperrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case httperrors.CodeNotFound:
		return http.StatusNotFound
	case httperrors.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes a coded error in the generic envelope. Internal errors
// omit the underlying detail; the caller is expected to have logged it.
func WriteError(w http.ResponseWriter, err error) {
	code := httperrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != httperrors.CodeInternal {
		var coded *httperrors.Error
		if e, ok := err.(*httperrors.Error); ok {
			coded = e
		}
		if coded != nil && coded.Message != "" {
			body["error_description"] = coded.Message
		}
	}
	WriteJSON(w, StatusFor(code), body)
}
