package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/orders-backend/internal/db"
	appErrors "github.com/unclebandit/orders-backend/internal/errors"
)

const maxBodyBytes = 1 << 20

var errInvalidID = errors.New("invalid id")

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response in JSON format
func writeError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, map[string]string{"error": message}, logger)
}

// parseID reads the {id} URL parameter. A segment that is not a base-10
// integer is errInvalidID. An integer that can never have been assigned
// (zero, negative or out of int64 range) is a NotFoundError for resource.
func parseID(r *http.Request, resource string) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, appErrors.NewNotFound(resource, 0)
		}
		return 0, fmt.Errorf("%w: %q", errInvalidID, raw)
	}
	if id < 1 {
		return 0, appErrors.NewNotFound(resource, id)
	}
	return id, nil
}

// decodeBody reads a JSON object. Anything else, including null, is rejected.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	var body map[string]json.RawMessage
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("body is not a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON object")
	}
	return body, nil
}

// writeServiceError maps service and store errors onto HTTP responses. The
// cause of a 5xx is logged, never sent.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var (
		ve *appErrors.ValidationError
		nf *appErrors.NotFoundError
	)
	switch {
	case errors.Is(err, errInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid ID supplied", logger)
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error(), logger)
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, appErrors.NotFoundMessage(nf.Resource), logger)
	case db.IsTimeout(err):
		logger.WarnContext(r.Context(), "store timeout", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusGatewayTimeout, "Request timed out", logger)
	case db.IsUnavailable(err):
		logger.ErrorContext(r.Context(), "store unavailable", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "Service unavailable", logger)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", logger)
	}
}
