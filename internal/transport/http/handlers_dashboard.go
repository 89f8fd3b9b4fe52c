package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civreg/internal/audit"
	"civreg/internal/dashboard"
	"civreg/internal/session"
	"civreg/internal/wizard"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/httputil"
	"civreg/pkg/requestcontext"
)

// ReviewService applies reviewer decisions to a session's boards.
type ReviewService interface {
	Review(ctx context.Context, boards *dashboard.Boards, role domain.Role, id string, action dashboard.Action, motif string) (dashboard.Decision, error)
}

// EventPublisher records notifications for a session.
type EventPublisher interface {
	Emit(ctx context.Context, event audit.Event) bool
}

// DashboardHandler serves the three role dashboards and reviewer actions.
type DashboardHandler struct {
	logger  *slog.Logger
	reviews ReviewService
	events  EventPublisher
}

func NewDashboardHandler(reviews ReviewService, events EventPublisher, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{logger: logger, reviews: reviews, events: events}
}

// Register mounts the routes.
func (h *DashboardHandler) Register(r chi.Router) {
	r.Get("/dashboard", h.handleParent)
	r.Get("/declaration/{id}", h.handleFocus)
	r.Get("/download/{id}", h.handleFocus)
	r.Get("/dashboard-mairie", h.handleMairie)
	r.Post("/dashboard-mairie/declarations/{id}/{action}", h.review(domain.RoleTownHall))
	r.Get("/dashboard-hopital", h.handleHopital)
	r.Post("/dashboard-hopital/requests/{id}/{action}", h.review(domain.RoleHospital))
}

// boards returns the caller's boards or writes an error.
func (h *DashboardHandler) boards(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		h.logger.ErrorContext(r.Context(), "dashboard reached without a session",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "session missing"))
		return nil, false
	}
	return sess, true
}

func (h *DashboardHandler) handleParent(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.boards(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Boards.ParentView())
}

func (h *DashboardHandler) handleFocus(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.boards(w, r)
	if !ok {
		return
	}
	decl, found := sess.Boards.FindDeclaration(chi.URLParam(r, "id"))
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "déclaration introuvable"))
		return
	}
	view := sess.Boards.ParentView()
	view.Focus = &decl
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *DashboardHandler) handleMairie(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.boards(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Boards.MairieView())
}

func (h *DashboardHandler) handleHopital(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.boards(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Boards.HopitalView())
}

type reviewRequest struct {
	Motif string `json:"motif"`
}

type reviewResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Board   any    `json:"board"`
}

// review handles a reviewer decision posted to a board. The board in the path
// fixes which role the caller must have.
func (h *DashboardHandler) review(board domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)
		sess, ok := h.boards(w, r)
		if !ok {
			return
		}
		if sess.Role != board {
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "action réservée au rôle "+board.Label()))
			return
		}

		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.logger.WarnContext(ctx, "invalid review request",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
		sanitize(&req)

		id := chi.URLParam(r, "id")
		action := dashboard.Action(chi.URLParam(r, "action"))
		decision, err := h.reviews.Review(ctx, &sess.Boards, board, id, action, req.Motif)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeValidation) {
				httputil.WriteJSON(w, http.StatusUnprocessableEntity, fieldErrorsResponse{
					Errors: wizard.ErrorMap{"motif": dashboard.MsgMotifRequired},
				})
				return
			}
			h.logger.WarnContext(ctx, "review refused",
				"request_id", requestID,
				"id", id,
				"action", action,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}

		h.events.Emit(ctx, audit.Event{
			SessionID: sess.ID.String(),
			Level:     wizard.LevelSuccess,
			Title:     decision.Title,
			Message:   decision.Message,
			Action:    string(board) + "." + string(action),
		})

		resp := reviewResponse{Title: decision.Title, Message: decision.Message}
		if board == domain.RoleTownHall {
			resp.Board = sess.Boards.MairieView()
		} else {
			resp.Board = sess.Boards.HopitalView()
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}
