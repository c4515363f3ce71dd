package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/homesense/dashboard/internal/types"
)

// maxRequestBodySize caps chart query payloads (1 MB).
const maxRequestBodySize = 1 << 20

// errorResponse is the standard envelope for error responses.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: errorDetail{
			Code:    string(types.ErrCodeInternalUnexpected),
			Message: "failed to marshal response",
		}})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError maps the error chain onto the taxonomy: a wrapped *types.AppError
// keeps its code and status, anything else becomes an opaque 500. Wrapped
// internals are never exposed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := types.GetRequestID(r.Context())

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.HTTPStatus(), errorResponse{Error: errorDetail{
			Code:      string(appErr.Code),
			Message:   appErr.Message,
			RequestID: requestID,
		}})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorDetail{
		Code:      string(types.ErrCodeInternalUnexpected),
		Message:   "an unexpected error occurred",
		RequestID: requestID,
	}})
}

// decodeBody parses a JSON request body into dst, with size capping and
// unknown-field rejection.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return types.NewAppError(types.ErrCodeValidationBadRequest, "malformed request body", err)
	}
	return nil
}
