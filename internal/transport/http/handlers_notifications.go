package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civreg/internal/audit"
	"civreg/internal/session"
	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/httputil"
	"civreg/pkg/requestcontext"
)

// NotificationInbox hands out the pending notifications of a session.
type NotificationInbox interface {
	Drain(ctx context.Context, sessionID string) ([]audit.Event, error)
}

// NotificationHandler serves the toast feed.
type NotificationHandler struct {
	logger *slog.Logger
	inbox  NotificationInbox
}

func NewNotificationHandler(inbox NotificationInbox, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{logger: logger, inbox: inbox}
}

// Register mounts the routes.
func (h *NotificationHandler) Register(r chi.Router) {
	r.Get("/notifications", h.handleDrain)
}

type notificationsResponse struct {
	Notifications []audit.Event `json:"notifications"`
}

// handleDrain returns and clears the caller's pending notifications.
func (h *NotificationHandler) handleDrain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)
	if sess == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "session missing"))
		return
	}
	events, err := h.inbox.Drain(ctx, sess.ID.String())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read notifications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, notificationsResponse{Notifications: events})
}
