package httptransport

import (
	"context"
	"errors"
	"time"

	"civreg/internal/dashboard"
	"civreg/internal/declaration"
	"civreg/internal/registration"
	"civreg/internal/session"
	"civreg/internal/wizard"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
)

// Actioner performs a simulated backend round-trip.
type Actioner interface {
	Action(ctx context.Context, name string) error
}

// AccountService sends verification codes and creates accounts.
type AccountService interface {
	SendCode(ctx context.Context, form wizard.FormState, notifier wizard.Notifier) error
	CheckAvailable(ctx context.Context, form wizard.FormState) error
	CreateAccount(ctx context.Context, form wizard.FormState) (*registration.Account, error)
}

// DeclarationFlow wires the birth declaration wizard: accepted documents,
// the confirmation recap and the new dashboard entry.
func DeclarationFlow(now func() time.Time) Flow {
	return Flow{
		Definition: declaration.Definition,
		Upload: UploadPolicy{
			MaxBytes:   declaration.MaxUploadBytes,
			Extensions: declaration.AcceptedExtensions,
		},
		Summary: func(form wizard.FormState) any {
			return declaration.Summary(form)
		},
		OnSuccess: func(_ context.Context, sess *session.Session, c *wizard.Controller, res wizard.Result) error {
			at := res.CompletedAt
			if at.IsZero() {
				at = now()
			}
			sess.Boards.AddDeclaration(declaration.FromForm(c.Form(), res.Reference, at))
			return nil
		},
	}
}

// RegistrationFlow wires the account wizard: leaving the details step sends a
// code, "resend" sends a new one and a successful submission signs the
// session in as the new parent.
func RegistrationFlow(accounts AccountService, backend Actioner, notifications Notifications) Flow {
	sendCode := func(ctx context.Context, sess *session.Session, c *wizard.Controller) error {
		return accounts.SendCode(ctx, c.Form(), notifications.Notifier(sess.ID.String()))
	}
	return Flow{
		Definition: registration.Definition,
		BeforeAdvance: func(ctx context.Context, _ *session.Session, c *wizard.Controller) error {
			if c.Current() != registration.StepForm {
				return nil
			}
			return backendError(backend.Action(ctx, "register.send-code"))
		},
		AfterAdvance: func(ctx context.Context, sess *session.Session, c *wizard.Controller, from wizard.Step) error {
			if from != registration.StepForm {
				return nil
			}
			return sendCode(ctx, sess, c)
		},
		Actions: map[string]Hook{
			"resend": func(ctx context.Context, sess *session.Session, c *wizard.Controller) error {
				if c.Current() != registration.StepVerification {
					return dErrors.New(dErrors.CodeConflict, "no verification code is pending")
				}
				return sendCode(ctx, sess, c)
			},
		},
		BeforeSubmit: func(ctx context.Context, _ *session.Session, c *wizard.Controller) error {
			return accounts.CheckAvailable(ctx, c.Form())
		},
		OnSuccess: func(ctx context.Context, sess *session.Session, c *wizard.Controller, _ wizard.Result) error {
			account, err := accounts.CreateAccount(ctx, c.Form())
			if err != nil {
				return err
			}
			sess.Role = domain.RoleParent
			sess.AccountID = account.ID
			sess.Boards.Parent.Info = dashboard.ParentInfo{
				Nom:       account.Nom,
				Prenom:    account.Prenom,
				Email:     account.Email,
				Telephone: account.Telephone,
			}
			return nil
		},
	}
}

// backendError maps simulator failures to coded errors.
func backendError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "la demande a été interrompue")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "Le service est momentanément indisponible, veuillez réessayer")
	}
}
