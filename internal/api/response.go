package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dshills/venuetrust/internal/logging"
	"github.com/dshills/venuetrust/internal/schema"
)

const maxBodyBytes = 1 << 20

// response is the JSON envelope for every API reply.
type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, response{Error: &errorResponse{
		Code:      code,
		Message:   message,
		RequestID: chimw.GetReqID(r.Context()),
	}})
}

func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).ErrorContext(r.Context(), "internal error",
		"error", err.Error(),
		"method", r.Method,
		"path", r.URL.Path,
	)
	writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
}

func writeValidation(w http.ResponseWriter, r *http.Request, status int, errs []schema.ValidationError) {
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Path] = e.Message
	}
	writeJSON(w, status, response{Error: &errorResponse{
		Code:      "VALIDATION_ERROR",
		Message:   "request validation failed",
		Fields:    fields,
		RequestID: chimw.GetReqID(r.Context()),
	}})
}

// decode reads a size-limited JSON body into dst, rejecting unknown fields,
// then runs tag validation on it.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes))
			return false
		}
		writeError(w, r, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return false
	}
	if errs := schema.Struct(dst); len(errs) > 0 {
		writeValidation(w, r, http.StatusBadRequest, errs)
		return false
	}
	return true
}
