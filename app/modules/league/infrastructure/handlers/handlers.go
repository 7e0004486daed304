package leaguehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	leagueservice "github.com/Black-And-White-Club/lastman/app/modules/league/application"
	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// LeagueHandlers serves the league HTTP API.
type LeagueHandlers struct {
	service leagueservice.Service
	logger  *slog.Logger
}

// NewLeagueHandlers creates a new LeagueHandlers instance.
func NewLeagueHandlers(service leagueservice.Service, logger *slog.Logger) *LeagueHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeagueHandlers{
		service: service,
		logger:  logger,
	}
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a service error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, leagueservice.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, leagueservice.ErrPermissionDenied),
		errors.Is(err, leagueservice.ErrEliminatedParticipant):
		return http.StatusForbidden
	case errors.Is(err, leagueservice.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, leagueservice.ErrDuplicateSelection),
		errors.Is(err, leagueservice.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, leagueservice.ErrValidation), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// WriteJSON encodes body with status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError writes err as a JSON error body. Infrastructure errors are
// logged and hidden from the client.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("method", r.Method),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		msg = "internal server error"
	}
	WriteJSON(w, status, errorResponse{Error: msg})
}

func (h *LeagueHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, r, h.logger, err)
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// uuidParam parses the chi URL parameter name as a uuid.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

// uuidParams parses several URL parameters in order.
func uuidParams(r *http.Request, names ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		id, err := uuidParam(r, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
