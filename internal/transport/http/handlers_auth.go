package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civreg/internal/login"
	"civreg/internal/session"
	"civreg/internal/wizard"
	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/httputil"
	"civreg/pkg/requestcontext"
)

// LoginService signs a session in under a role.
type LoginService interface {
	Login(ctx context.Context, req login.Request) (login.Result, error)
}

// SessionResetter clears a session on logout.
type SessionResetter interface {
	SignOut(sess *session.Session)
}

// AuthHandler serves the landing page, sign-in and sign-out.
type AuthHandler struct {
	logger   *slog.Logger
	login    LoginService
	sessions SessionResetter
}

func NewAuthHandler(login LoginService, sessions SessionResetter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger, login: login, sessions: sessions}
}

// Register mounts the routes.
func (h *AuthHandler) Register(r chi.Router) {
	r.Get("/", h.handleLanding)
	r.Get("/login", h.handleLoginForm)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type landingResponse struct {
	Title    string `json:"title"`
	Tagline  string `json:"tagline"`
	SignedIn bool   `json:"signedIn"`
	Role     string `json:"role,omitempty"`
	Links    []link `json:"links"`
}

func (h *AuthHandler) handleLanding(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	resp := landingResponse{
		Title:   "Déclaration de naissance en ligne",
		Tagline: "Déclarez la naissance de votre enfant et suivez votre dossier.",
		Links: []link{
			{Label: "Créer un compte", Href: "/register"},
			{Label: "Se connecter", Href: "/login"},
		},
	}
	if sess != nil && sess.SignedIn() {
		resp.SignedIn = true
		resp.Role = string(sess.Role)
		resp.Links = []link{{Label: "Mon tableau de bord", Href: sess.Role.DashboardRoute()}}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type loginFormResponse struct {
	Roles       []login.RoleOption `json:"roles"`
	DefaultRole string             `json:"defaultRole"`
	Links       []link             `json:"links"`
}

func (h *AuthHandler) handleLoginForm(w http.ResponseWriter, _ *http.Request) {
	options := login.RoleOptions()
	httputil.WriteJSON(w, http.StatusOK, loginFormResponse{
		Roles:       options,
		DefaultRole: string(options[0].Value),
		Links: []link{
			{Label: "Mot de passe oublié ?", Href: "/forgot-password"},
			{Label: "Créer un compte", Href: "/register"},
		},
	})
}

type loginRequest struct {
	Role       string `json:"role"`
	Identifier string `json:"identifier"`
	MotDePasse string `json:"motDePasse" sanitize:"-"`
}

type loginResponse struct {
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

type fieldErrorsResponse struct {
	Errors wizard.ErrorMap `json:"errors"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess := session.FromContext(ctx)
	if sess == nil {
		h.logger.ErrorContext(ctx, "login reached without a session", "request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "session missing"))
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	sanitize(&req)

	res, err := h.login.Login(ctx, login.Request{
		Role:       req.Role,
		Identifier: req.Identifier,
		MotDePasse: req.MotDePasse,
	})
	if err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			h.logger.DebugContext(ctx, "login refused", "request_id", requestID, "fields", verr.Errors.Fields())
			httputil.WriteJSON(w, http.StatusUnprocessableEntity, fieldErrorsResponse{Errors: verr.Errors})
			return
		}
		h.logger.WarnContext(ctx, "login failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	sess.Role = res.Role
	httputil.WriteJSON(w, http.StatusOK, loginResponse{Role: string(res.Role), Redirect: res.Redirect})
}

type logoutResponse struct {
	Redirect string `json:"redirect"`
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)
	if sess != nil {
		h.sessions.SignOut(sess)
		h.logger.InfoContext(ctx, "signed out", "request_id", requestcontext.RequestID(ctx))
	}
	httputil.WriteJSON(w, http.StatusOK, logoutResponse{Redirect: "/"})
}
