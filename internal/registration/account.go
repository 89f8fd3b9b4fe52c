package registration

import (
	"context"
	"strings"
	"sync"
	"time"

	"civreg/pkg/domain"
	"civreg/pkg/platform/sentinel"
)

// Account is a registered parent. The password is only kept as a hash.
type Account struct {
	ID           domain.AccountID
	Nom          string
	Prenom       string
	Telephone    string
	Adresse      string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// InMemoryAccountStore keeps accounts for the life of the process.
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[domain.AccountID]*Account
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{accounts: make(map[domain.AccountID]*Account)}
}

func (s *InMemoryAccountStore) Save(_ context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *InMemoryAccountStore) FindByID(_ context.Context, id domain.AccountID) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// FindByIdentifier matches an email (case-insensitive) or a phone number
// (whitespace ignored).
func (s *InMemoryAccountStore) FindByIdentifier(_ context.Context, identifier string) (*Account, error) {
	identifier = strings.TrimSpace(identifier)
	phone := stripSpaces(identifier)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if (a.Email != "" && strings.EqualFold(a.Email, identifier)) || stripSpaces(a.Telephone) == phone {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
