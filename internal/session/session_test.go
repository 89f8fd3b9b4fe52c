package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"civreg/internal/dashboard"
	"civreg/internal/platform/logger"
	"civreg/internal/wizard"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/sentinel"
	"civreg/pkg/requestcontext"
)

type fixedBoards struct{ boards dashboard.Boards }

func (f fixedBoards) NewBoards() dashboard.Boards { return f.boards.Clone() }

func seedBoards() dashboard.Boards {
	return dashboard.Boards{
		Parent: dashboard.ParentBoard{Info: dashboard.ParentInfo{Prenom: "Jean"}},
		Mairie: []dashboard.MairieDeclaration{{ID: "1", Statut: dashboard.MairieRecue}},
	}
}

type ServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Now()
	s.store = NewInMemoryStore()
	s.store.now = func() time.Time { return s.now }
	s.service = NewService(s.store, NewTokenService("test-key"), fixedBoards{seedBoards()}, 30*time.Minute, logger.Discard(),
		WithClock(func() time.Time { return s.now }))
}

func (s *ServiceSuite) TestResolveWithoutCookieStartsFresh() {
	sess, fresh, err := s.service.Resolve(context.Background(), "")
	s.Require().NoError(err)
	s.True(fresh)
	s.False(sess.ID.IsNil())
	s.Equal("Jean", sess.Boards.Parent.Info.Prenom)
}

func (s *ServiceSuite) TestRoundTripThroughStore() {
	ctx := context.Background()
	sess := s.service.New()
	sess.Role = domain.RoleTownHall
	sess.PutWizard("register", wizard.Snapshot{Step: "verification", Attempts: 1})

	token, err := s.service.Touch(sess)
	s.Require().NoError(err)
	s.Require().NoError(s.service.Save(ctx, sess))

	got, fresh, err := s.service.Resolve(ctx, token)
	s.Require().NoError(err)
	s.False(fresh)
	s.Equal(sess.ID, got.ID)
	s.Equal(domain.RoleTownHall, got.Role)
	snap, ok := got.Wizard("register")
	s.Require().True(ok)
	s.Equal(wizard.Step("verification"), snap.Step)
}

func (s *ServiceSuite) TestStoredSessionsAreIsolated() {
	ctx := context.Background()
	sess := s.service.New()
	s.Require().NoError(s.service.Save(ctx, sess))

	a, err := s.store.Get(ctx, sess.ID)
	s.Require().NoError(err)
	a.Boards.Mairie[0].Statut = dashboard.MairieApprouvee

	b, err := s.store.Get(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(dashboard.MairieRecue, b.Boards.Mairie[0].Statut)
}

func (s *ServiceSuite) TestExpiredSessionIsReplaced() {
	ctx := context.Background()
	sess := s.service.New()
	token, err := s.service.Touch(sess)
	s.Require().NoError(err)
	s.Require().NoError(s.service.Save(ctx, sess))

	s.now = s.now.Add(31 * time.Minute)

	_, err = s.store.Get(ctx, sess.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	got, fresh, err := s.service.Resolve(ctx, token)
	s.Require().NoError(err)
	s.True(fresh)
	s.NotEqual(sess.ID, got.ID)
}

func (s *ServiceSuite) TestTamperedCookieStartsFresh() {
	got, fresh, err := s.service.Resolve(context.Background(), "not-a-token")
	s.Require().NoError(err)
	s.True(fresh)
	s.False(got.ID.IsNil())
}

func (s *ServiceSuite) TestSignOut() {
	sess := s.service.New()
	sess.Role = domain.RoleHospital
	sess.AccountID = domain.NewAccountID()
	sess.PutWizard("birth-declaration", wizard.Snapshot{Step: "mere"})
	sess.Boards.Mairie[0].Statut = dashboard.MairieRejetee

	s.service.SignOut(sess)

	s.False(sess.SignedIn())
	s.True(sess.AccountID.IsNil())
	s.Empty(sess.Wizards)
	s.Equal(dashboard.MairieRecue, sess.Boards.Mairie[0].Statut)
}

func (s *ServiceSuite) TestWizardSecretsLiveOnlyWithSnapshot() {
	sess := s.service.New()
	form := wizard.FormState{}.With("form", "motDePasse", wizard.Text("hunter22"))
	sess.PutWizard("register", wizard.Snapshot{Step: "verification", Form: form})

	snap, ok := sess.Wizard("register")
	s.Require().True(ok)
	s.Equal("hunter22", snap.Form.Get("form", "motDePasse").Text)

	sess.DropWizard("register")
	_, ok = sess.Wizard("register")
	s.False(ok)
}

func (s *ServiceSuite) TestCountAndSweep() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, s.service.New(), time.Minute))
	s.Require().NoError(s.store.Save(ctx, s.service.New(), time.Hour))

	n, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	s.now = s.now.Add(2 * time.Minute)
	removed, err := s.store.DeleteExpired(ctx)
	s.Require().NoError(err)
	s.Equal(1, removed)
}

func TestTokenService(t *testing.T) {
	svc := NewTokenService("key-one")
	id := domain.NewSessionID()
	now := time.Now()

	token, err := svc.Issue(id, now, now.Add(time.Minute))
	require.NoError(t, err)

	got, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	t.Run("other key is rejected", func(t *testing.T) {
		_, err := NewTokenService("key-two").Parse(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		old, err := svc.Issue(id, now.Add(-2*time.Hour), now.Add(-time.Hour))
		require.NoError(t, err)
		_, err = svc.Parse(old)
		require.Error(t, err)
		de, ok := dErrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "session has expired", de.Message)
	})
}

func TestRedisSessionKey(t *testing.T) {
	id := domain.NewSessionID()
	assert.Equal(t, "civreg:session:"+id.String(), redisSessionKey(id))
	assert.NotEqual(t, redisSessionKey(id), redisSessionKey(domain.NewSessionID()))

	ctx := WithSession(context.Background(), &Session{ID: id})
	require.NotNil(t, FromContext(ctx))
	assert.Equal(t, id, FromContext(ctx).ID)
}

func TestKeyedMutexSerialisesPerSession(t *testing.T) {
	k := newKeyedMutex()
	id := domain.NewSessionID()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(id)
			defer unlock()
			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, k.len())
}

func TestMiddleware(t *testing.T) {
	svc := NewService(NewInMemoryStore(), NewTokenService("k"), fixedBoards{seedBoards()}, time.Hour, logger.Discard())

	var seen []domain.SessionID
	h := Middleware(svc, logger.Discard(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := FromContext(r.Context())
		require.NotNil(t, sess)
		assert.Equal(t, sess.ID, requestcontext.SessionID(r.Context()))
		seen = append(seen, sess.ID)
		if r.URL.Path == "/login" {
			sess.Role = domain.RoleHospital
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/dashboard-hopital", nil)
	req.AddCookie(cookies[0])
	var role domain.Role
	h2 := Middleware(svc, logger.Discard(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role = FromContext(r.Context()).Role
	}))
	h2.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, domain.RoleHospital, role)
	require.Len(t, seen, 1)
}
