package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/categorize"
	"github.com/MrJamesThe3rd/tenantry/internal/document"
	"github.com/MrJamesThe3rd/tenantry/internal/importer"
	"github.com/MrJamesThe3rd/tenantry/internal/message"
	"github.com/MrJamesThe3rd/tenantry/internal/property"
	"github.com/MrJamesThe3rd/tenantry/internal/screening"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
)

var (
	ErrForbidden  = errors.New("forbidden")
	ErrBadRequest = errors.New("bad request")
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// statuses maps domain sentinels to response codes. The first match wins.
var statuses = []struct {
	err    error
	status int
}{
	{application.ErrNotFound, http.StatusNotFound},
	{screening.ErrNotFound, http.StatusNotFound},
	{tenant.ErrNotFound, http.StatusNotFound},
	{property.ErrNotFound, http.StatusNotFound},
	{transaction.ErrNotFound, http.StatusNotFound},
	{document.ErrNotFound, http.StatusNotFound},
	{workorder.ErrNotFound, http.StatusNotFound},
	{message.ErrNotFound, http.StatusNotFound},

	{ErrBadRequest, http.StatusBadRequest},
	{application.ErrInvalid, http.StatusBadRequest},
	{screening.ErrInvalid, http.StatusBadRequest},
	{tenant.ErrInvalid, http.StatusBadRequest},
	{property.ErrInvalid, http.StatusBadRequest},
	{transaction.ErrInvalid, http.StatusBadRequest},
	{document.ErrInvalid, http.StatusBadRequest},
	{workorder.ErrInvalid, http.StatusBadRequest},
	{message.ErrInvalid, http.StatusBadRequest},
	{categorize.ErrInvalid, http.StatusBadRequest},
	{importer.ErrEmpty, http.StatusBadRequest},
	{importer.ErrUnknownKind, http.StatusBadRequest},
	{message.ErrNotMaintenance, http.StatusBadRequest},

	{application.ErrInvalidTransition, http.StatusConflict},
	{application.ErrNotApproved, http.StatusConflict},
	{application.ErrAlreadyConverted, http.StatusConflict},
	{application.ErrScreeningLinked, http.StatusConflict},
	{screening.ErrFinalized, http.StatusConflict},
	{screening.ErrIncomplete, http.StatusConflict},
	{screening.ErrNotCompleted, http.StatusConflict},
	{screening.ErrAlreadyDecided, http.StatusConflict},
	{message.ErrAlreadyApproved, http.StatusConflict},

	{auth.ErrUnauthorized, http.StatusUnauthorized},
	{auth.ErrTokenExpired, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
}

func StatusOf(err error) int {
	var rows importer.RowErrors
	if errors.As(err, &rows) {
		return http.StatusUnprocessableEntity
	}

	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}

	return http.StatusInternalServerError
}

// WriteError renders err as JSON. Internal errors are logged and their message
// is not returned to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)

	resp := errorResponse{Error: err.Error()}

	var rows importer.RowErrors
	if errors.As(err, &rows) {
		resp = errorResponse{Error: fmt.Sprintf("%d invalid rows", len(rows)), Details: rows}
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)

		resp = errorResponse{Error: "internal error"}
	}

	WriteJSON(w, status, resp)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %s", ErrBadRequest, err.Error())
	}

	return nil
}

// ID parses the chi URL parameter name as a UUID.
func ID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}

	return id, nil
}

// QueryID parses an optional UUID query parameter.
func QueryID(r *http.Request, name string) (*uuid.UUID, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}

	return &id, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}

	return &t, nil
}

// QueryValue returns an optional string-typed query parameter.
func QueryValue[T ~string](r *http.Request, name string) *T {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil
	}

	return new(T(s))
}
