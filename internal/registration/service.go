package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"civreg/internal/secrets"
	"civreg/internal/wizard"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/sentinel"
)

// AccountStore persists accounts.
type AccountStore interface {
	Save(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, id domain.AccountID) (*Account, error)
	FindByIdentifier(ctx context.Context, identifier string) (*Account, error)
}

// PasswordHasher hashes passwords before they are stored.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Service sends verification codes and creates accounts from completed forms.
type Service struct {
	accounts AccountStore
	hasher   PasswordHasher
	logger   *slog.Logger
	otp      func() (string, error)
	clock    func() time.Time
}

// Option customizes the Service.
type Option func(*Service)

// WithCodeGenerator replaces the OTP generator.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.otp = gen }
}

// WithClock sets the account creation clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func NewService(accounts AccountStore, hasher PasswordHasher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		hasher:   hasher,
		logger:   logger,
		otp:      secrets.GenerateOTP,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendCode generates a fresh verification code and delivers it through the
// notifier in place of an SMS gateway.
func (s *Service) SendCode(ctx context.Context, form wizard.FormState, notifier wizard.Notifier) error {
	code, err := s.otp()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate verification code")
	}
	phone := strings.TrimSpace(form.Get(SectionCompte, "telephone").Text)
	notifier.Notify(ctx, wizard.Notification{
		Level:   wizard.LevelInfo,
		Title:   "Code de vérification",
		Message: fmt.Sprintf("Un code a été envoyé au %s : %s", maskPhone(phone), code),
	})
	s.logger.DebugContext(ctx, "verification code sent")
	return nil
}

// CheckAvailable fails with a conflict when the phone or email of form is
// already registered.
func (s *Service) CheckAvailable(ctx context.Context, form wizard.FormState) error {
	for _, name := range []string{"telephone", "email"} {
		identifier := strings.TrimSpace(form.Get(SectionCompte, name).Text)
		if identifier == "" {
			continue
		}
		_, err := s.accounts.FindByIdentifier(ctx, identifier)
		if err == nil {
			return dErrors.New(dErrors.CodeConflict, "Un compte existe déjà avec ces coordonnées")
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
		}
	}
	return nil
}

// CreateAccount stores the account described by a completed form.
func (s *Service) CreateAccount(ctx context.Context, form wizard.FormState) (*Account, error) {
	field := func(name string) string {
		return strings.TrimSpace(form.Get(SectionCompte, name).Text)
	}
	if err := s.CheckAvailable(ctx, form); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(form.Get(SectionCompte, "motDePasse").Text)
	if err != nil {
		return nil, err
	}
	account := &Account{
		ID:           domain.NewAccountID(),
		Nom:          field("nom"),
		Prenom:       field("prenom"),
		Telephone:    field("telephone"),
		Adresse:      field("adresse"),
		Email:        field("email"),
		PasswordHash: hash,
		CreatedAt:    s.clock(),
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save account")
	}
	s.logger.InfoContext(ctx, "account created", "account_id", account.ID)
	return account, nil
}

// Account loads a stored account.
func (s *Service) Account(ctx context.Context, id domain.AccountID) (*Account, error) {
	a, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "compte introuvable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return a, nil
}

// maskPhone keeps the last two digits visible.
func maskPhone(phone string) string {
	digits := stripSpaces(phone)
	if len(digits) <= 2 {
		return digits
	}
	return strings.Repeat("•", len(digits)-2) + digits[len(digits)-2:]
}
