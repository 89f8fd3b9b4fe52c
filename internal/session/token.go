package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
)

const tokenIssuer = "civreg"

// Claims are carried by the session cookie. The cookie only names the session;
// all state stays server side.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session cookies with HS256.
type TokenService struct {
	signingKey []byte
}

func NewTokenService(signingKey string) *TokenService {
	return &TokenService{signingKey: []byte(signingKey)}
}

// Issue signs a token for id that expires at expiresAt.
func (t *TokenService) Issue(id domain.SessionID, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: id.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(t.signingKey)
}

// Parse verifies a token and returns the session it names.
func (t *TokenService) Parse(tokenString string) (domain.SessionID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return t.signingKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "session has expired")
		}
		return domain.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	id, err := domain.ParseSessionID(claims.SessionID)
	if err != nil {
		return domain.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	return id, nil
}
