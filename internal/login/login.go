// Package login validates the sign-in form and picks the dashboard for the
// chosen role. Credentials are not checked.
package login

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"civreg/internal/wizard"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
)

const (
	MsgIdentifier = "L'email ou le numéro de téléphone est requis"
	MsgMotDePasse = "Le mot de passe est requis"
)

// Request is the submitted sign-in form.
type Request struct {
	Role       string `json:"role"`
	Identifier string `json:"identifier"`
	MotDePasse string `json:"motDePasse"`
}

// Validate returns the field errors of the form.
func (r Request) Validate() wizard.ErrorMap {
	errs := wizard.ErrorMap{}
	if strings.TrimSpace(r.Identifier) == "" {
		errs["identifier"] = MsgIdentifier
	}
	if r.MotDePasse == "" {
		errs["motDePasse"] = MsgMotDePasse
	}
	return errs
}

// RoleOption describes one selectable role on the sign-in page.
type RoleOption struct {
	Value       domain.Role `json:"value"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
}

// RoleOptions lists the roles in display order.
func RoleOptions() []RoleOption {
	roles := domain.Roles()
	out := make([]RoleOption, len(roles))
	for i, r := range roles {
		out[i] = RoleOption{Value: r, Label: r.Label(), Description: r.Description()}
	}
	return out
}

// Actioner performs the simulated sign-in round-trip.
type Actioner interface {
	Action(ctx context.Context, name string) error
}

// Result tells the caller which role was selected and where to go.
type Result struct {
	Role     domain.Role
	Redirect string
}

// Service handles sign-in.
type Service struct {
	backend Actioner
	logger  *slog.Logger
}

func NewService(backend Actioner, logger *slog.Logger) *Service {
	return &Service{backend: backend, logger: logger}
}

// Login validates req and, after the simulated delay, returns the dashboard of
// the selected role. Field errors come back as a *wizard.ValidationError.
func (s *Service) Login(ctx context.Context, req Request) (Result, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return Result{}, err
	}
	if errs := req.Validate(); !errs.Valid() {
		return Result{}, &wizard.ValidationError{Errors: errs}
	}
	if err := s.backend.Action(ctx, "login"); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, dErrors.Wrap(err, dErrors.CodeTimeout, "la connexion a été interrompue")
		}
		return Result{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "Le service est momentanément indisponible, veuillez réessayer")
	}
	s.logger.InfoContext(ctx, "signed in", "role", role)
	return Result{Role: role, Redirect: role.DashboardRoute()}, nil
}
