// Package session keeps per-browser state server side: the selected role,
// in-progress wizards and the session's copy of the dashboards.
package session

import (
	"time"

	"civreg/internal/dashboard"
	"civreg/internal/wizard"
	"civreg/pkg/domain"
)

// Session is the server-side state behind one cookie.
type Session struct {
	ID        domain.SessionID
	Role      domain.Role
	AccountID domain.AccountID
	Wizards   map[string]wizard.Snapshot
	Boards    dashboard.Boards
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SignedIn reports whether a role has been chosen at login.
func (s *Session) SignedIn() bool {
	return s.Role != ""
}

// Wizard returns the stored snapshot of a wizard, if any.
func (s *Session) Wizard(name string) (wizard.Snapshot, bool) {
	snap, ok := s.Wizards[name]
	return snap, ok
}

// PutWizard stores a wizard snapshot.
func (s *Session) PutWizard(name string, snap wizard.Snapshot) {
	if s.Wizards == nil {
		s.Wizards = make(map[string]wizard.Snapshot)
	}
	s.Wizards[name] = snap
}

// DropWizard forgets a wizard so the next visit starts over.
func (s *Session) DropWizard(name string) {
	delete(s.Wizards, name)
}

// Reset signs the user out: role, account and wizards are cleared and the
// dashboards go back to boards.
func (s *Session) Reset(boards dashboard.Boards) {
	s.Role = ""
	s.AccountID = domain.AccountID{}
	s.Wizards = nil
	s.Boards = boards
}
