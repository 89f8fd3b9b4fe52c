//go:build integration

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"civreg/internal/dashboard"
	"civreg/internal/session"
	"civreg/internal/wizard"
	"civreg/pkg/domain"
	"civreg/pkg/platform/sentinel"
	"civreg/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.SharedRedis(s.T())
	s.store = session.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeSession() *session.Session {
	now := time.Now()
	form := wizard.FormState{}.With("pere", "nom", wizard.Text("Kone"))
	return &session.Session{
		ID:        domain.NewSessionID(),
		Role:      domain.RoleParent,
		AccountID: domain.NewAccountID(),
		Wizards: map[string]wizard.Snapshot{
			"birth-declaration": {Step: "mere", Form: form, Attempts: 2, Outcome: wizard.OutcomeFailed},
		},
		Boards: dashboard.Boards{
			Mairie: []dashboard.MairieDeclaration{{ID: "1", Statut: dashboard.MairieRecue}},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func (s *RedisStoreSuite) TestSaveAndGet() {
	ctx := context.Background()
	sess := makeSession()
	s.Require().NoError(s.store.Save(ctx, sess, time.Hour))

	got, err := s.store.Get(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(sess.ID, got.ID)
	s.Equal(sess.AccountID, got.AccountID)
	snap := got.Wizards["birth-declaration"]
	s.Equal(wizard.Step("mere"), snap.Step)
	s.Equal("Kone", snap.Form.Get("pere", "nom").Text)
	s.Equal(wizard.OutcomeFailed, snap.Outcome)
	s.Equal(dashboard.MairieRecue, got.Boards.Mairie[0].Statut)
}

func (s *RedisStoreSuite) TestTTLExpiresKey() {
	ctx := context.Background()
	sess := makeSession()
	s.Require().NoError(s.store.Save(ctx, sess, 50*time.Millisecond))

	s.Eventually(func() bool {
		_, err := s.store.Get(ctx, sess.ID)
		return err == sentinel.ErrNotFound
	}, 2*time.Second, 20*time.Millisecond)
}

func (s *RedisStoreSuite) TestDeleteAndCount() {
	ctx := context.Background()
	a, b := makeSession(), makeSession()
	s.Require().NoError(s.store.Save(ctx, a, time.Hour))
	s.Require().NoError(s.store.Save(ctx, b, time.Hour))

	n, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	s.Require().NoError(s.store.Delete(ctx, a.ID))
	_, err = s.store.Get(ctx, a.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
