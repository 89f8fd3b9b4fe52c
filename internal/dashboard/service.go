package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"civreg/internal/platform/metrics"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
)

// Actioner performs the simulated round-trip behind a reviewer decision.
type Actioner interface {
	Action(ctx context.Context, name string) error
}

// Decision is the outcome of a reviewer action, ready to be shown as a toast.
type Decision struct {
	Title   string
	Message string
}

// Service hands out fresh boards and runs reviewer actions.
type Service struct {
	seed    Boards
	backend Actioner
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(seed Boards, backend Actioner, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{seed: seed, backend: backend, metrics: m, logger: logger}
}

// NewBoards returns a private copy of the seed for a new session.
func (s *Service) NewBoards() Boards {
	return s.seed.Clone()
}

// Review validates the action, waits for the backend and then applies it to
// boards. Nothing changes when validation or the backend fails.
func (s *Service) Review(ctx context.Context, boards *Boards, role domain.Role, id string, action Action, motif string) (Decision, error) {
	var check func() error
	switch role {
	case domain.RoleTownHall:
		check = func() error { return boards.CheckMairie(id, action, motif) }
	case domain.RoleHospital:
		check = func() error { return boards.CheckHopital(id, action, motif) }
	default:
		return Decision{}, dErrors.New(dErrors.CodeForbidden, "action réservée aux agents")
	}
	if err := check(); err != nil {
		return Decision{}, err
	}

	if err := s.backend.Action(ctx, string(role)+"."+string(action)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Decision{}, dErrors.Wrap(err, dErrors.CodeTimeout, "la demande a été interrompue")
		}
		return Decision{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "Le service est momentanément indisponible, veuillez réessayer")
	}

	var (
		decision Decision
		err      error
	)
	if role == domain.RoleTownHall {
		var d MairieDeclaration
		if d, err = boards.ApplyMairie(id, action, motif); err == nil {
			decision = mairieDecision(d)
		}
	} else {
		var r VerificationRequest
		if r, err = boards.ApplyHopital(id, action, motif); err == nil {
			decision = hopitalDecision(r)
		}
	}
	if err != nil {
		return Decision{}, err
	}

	s.metrics.IncrementReviewerActions(string(role), string(action))
	s.logger.InfoContext(ctx, "reviewer action applied", "role", role, "id", id, "action", action)
	return decision, nil
}

func mairieDecision(d MairieDeclaration) Decision {
	switch d.Statut {
	case MairieApprouvee:
		return Decision{Title: "Déclaration approuvée", Message: "La déclaration de " + d.EnfantNom + " a été approuvée."}
	case MairieRejetee:
		return Decision{Title: "Déclaration rejetée", Message: "La déclaration de " + d.EnfantNom + " a été rejetée."}
	default:
		return Decision{Title: "Demande envoyée", Message: "La demande de vérification a été envoyée à l'hôpital."}
	}
}

func hopitalDecision(r VerificationRequest) Decision {
	if r.Statut == HopitalVerifiee {
		return Decision{Title: "Certificat vérifié", Message: "Le certificat de " + r.EnfantNom + " a été confirmé."}
	}
	return Decision{Title: "Vérification rejetée", Message: "La demande concernant " + r.EnfantNom + " a été rejetée."}
}
