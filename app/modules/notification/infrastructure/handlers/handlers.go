package notificationhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	authdomain "github.com/Black-And-White-Club/lastman/app/modules/auth/domain"
	notificationservice "github.com/Black-And-White-Club/lastman/app/modules/notification/application"
	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// InboxHandlers serves the caller's notification inbox.
type InboxHandlers struct {
	service notificationservice.Service
	logger  *slog.Logger
}

func NewInboxHandlers(service notificationservice.Service, logger *slog.Logger) *InboxHandlers {
	return &InboxHandlers{service: service, logger: logger}
}

// Routes registers the inbox under /api/notifications.
func (h *InboxHandlers) Routes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(middlewares...)
		r.Get("/", h.HandleList)
		r.Post("/{notificationID}/read", h.HandleMarkRead)
	})
}

func (h *InboxHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	list, err := h.service.ListNotifications(ctx, authdomain.CallerID(ctx), unreadOnly)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *InboxHandlers) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "notificationID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid notificationID"})
		return
	}
	if err := h.service.MarkRead(ctx, authdomain.CallerID(ctx), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InboxHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, notificationservice.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, notificationservice.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.logger.ErrorContext(r.Context(), "Inbox request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
