package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"civreg/internal/dashboard"
	"civreg/internal/platform/metrics"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/sentinel"
)

// BoardSource hands each new session its own dashboards.
type BoardSource interface {
	NewBoards() dashboard.Boards
}

// Service creates, loads and persists sessions.
type Service struct {
	store   Store
	tokens  *TokenService
	boards  BoardSource
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
	locks   *keyedMutex
	now     func() time.Time
}

// Option customizes the Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics reports the active session count.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, tokens *TokenService, boards BoardSource, ttl time.Duration, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tokens: tokens,
		boards: boards,
		ttl:    ttl,
		logger: logger,
		locks:  newKeyedMutex(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL is the idle lifetime of a session.
func (s *Service) TTL() time.Duration { return s.ttl }

// New starts a fresh anonymous session. It is not stored until Save.
func (s *Service) New() *Session {
	now := s.now()
	return &Session{
		ID:        domain.NewSessionID(),
		Boards:    s.boards.NewBoards(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
}

// Resolve returns the session named by token. Missing, invalid or expired
// tokens are not an error: a new session is started instead and fresh is true.
func (s *Service) Resolve(ctx context.Context, token string) (sess *Session, fresh bool, err error) {
	if token == "" {
		return s.New(), true, nil
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.DebugContext(ctx, "discarding session cookie", "reason", err)
		return s.New(), true, nil
	}
	sess, err = s.store.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return s.New(), true, nil
	}
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeUnavailable, "session store unavailable")
	}
	if sess.Expired(s.now()) {
		return s.New(), true, nil
	}
	return sess, false, nil
}

// Touch slides the expiry and returns a fresh cookie token for sess.
func (s *Service) Touch(sess *Session) (string, error) {
	now := s.now()
	sess.ExpiresAt = now.Add(s.ttl)
	token, err := s.tokens.Issue(sess.ID, now, sess.ExpiresAt)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}
	return token, nil
}

// Save persists sess for the remainder of its lifetime.
func (s *Service) Save(ctx context.Context, sess *Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.store.Save(ctx, sess, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "session store unavailable")
	}
	return nil
}

// Lock serialises requests of one session. Call the returned func to release.
func (s *Service) Lock(id domain.SessionID) func() {
	return s.locks.Lock(id)
}

// SignOut resets sess to an anonymous session with fresh dashboards.
func (s *Service) SignOut(sess *Session) {
	sess.Reset(s.boards.NewBoards())
}

// ReportActive publishes the live session count to metrics.
func (s *Service) ReportActive(ctx context.Context) {
	n, err := s.store.Count(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count sessions", "error", err)
		return
	}
	s.metrics.SetActiveSessions(n)
}

// Run refreshes the active session gauge until ctx is cancelled.
func (s *Service) Run(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if sweeper, ok := s.store.(interface {
				DeleteExpired(context.Context) (int, error)
			}); ok {
				if n, err := sweeper.DeleteExpired(ctx); err == nil && n > 0 {
					s.logger.DebugContext(ctx, "expired sessions removed", "count", n)
				}
			}
			s.ReportActive(ctx)
		}
	}
}
