package domain

import (
	"github.com/google/uuid"

	dErrors "civreg/pkg/domain-errors"
)

// Typed identifiers keep session, account and file references from being mixed
// up at compile time.
type (
	SessionID uuid.UUID
	AccountID uuid.UUID
	FileID    uuid.UUID
)

func NewSessionID() SessionID { return SessionID(uuid.New()) }
func NewAccountID() AccountID { return AccountID(uuid.New()) }
func NewFileID() FileID       { return FileID(uuid.New()) }

func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id FileID) String() string    { return uuid.UUID(id).String() }

func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseSessionID parses a session identifier from a cookie claim.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session ID")
	return SessionID(u), err
}

// ParseAccountID parses an account identifier.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s, "account ID")
	return AccountID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
