package session

import (
	"encoding/json"
	"fmt"
	"time"

	"civreg/internal/dashboard"
	"civreg/internal/wizard"
	"civreg/pkg/domain"
)

// record is the stored form of a Session.
type record struct {
	ID        string                     `json:"id"`
	Role      domain.Role                `json:"role,omitempty"`
	AccountID string                     `json:"account_id,omitempty"`
	Wizards   map[string]wizard.Snapshot `json:"wizards,omitempty"`
	Boards    dashboard.Boards           `json:"boards"`
	CreatedAt time.Time                  `json:"created_at"`
	ExpiresAt time.Time                  `json:"expires_at"`
}

func encode(s *Session) ([]byte, error) {
	rec := record{
		ID:        s.ID.String(),
		Role:      s.Role,
		Wizards:   s.Wizards,
		Boards:    s.Boards,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
	if !s.AccountID.IsNil() {
		rec.AccountID = s.AccountID.String()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	id, err := domain.ParseSessionID(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s := &Session{
		ID:        id,
		Role:      rec.Role,
		Wizards:   rec.Wizards,
		Boards:    rec.Boards,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
	if rec.AccountID != "" {
		if s.AccountID, err = domain.ParseAccountID(rec.AccountID); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
	}
	return s, nil
}
