package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"civreg/internal/platform/logger"
	"civreg/internal/wizard"
)

type SimulatorSuite struct {
	suite.Suite
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorSuite))
}

func (s *SimulatorSuite) submission() wizard.Submission {
	return wizard.Submission{Wizard: "declaration", Session: "s-1", Attempt: 1, Form: wizard.FormState{}}
}

func (s *SimulatorSuite) await(ch <-chan wizard.Result) wizard.Result {
	select {
	case res, ok := <-ch:
		s.Require().True(ok, "channel closed without a result")
		return res
	case <-time.After(2 * time.Second):
		s.FailNow("submission did not resolve")
		return wizard.Result{}
	}
}

func (s *SimulatorSuite) TestSubmit() {
	s.Run("succeeds with a reference", func() {
		b := New(Config{}, logger.Discard())
		res := s.await(b.Submit(context.Background(), s.submission()))

		s.Equal(wizard.OutcomeSucceeded, res.Outcome)
		s.Regexp(`^NAI-\d{4}-[0-9A-F]{8}$`, res.Reference)
		s.NoError(res.Err)
	})

	s.Run("fails when the roll is under the failure rate", func() {
		b := New(Config{FailureRate: 0.5}, logger.Discard(), WithRoll(func() float64 { return 0.1 }))
		res := s.await(b.Submit(context.Background(), s.submission()))

		s.Equal(wizard.OutcomeFailed, res.Outcome)
		s.ErrorIs(res.Err, ErrRejected)
		s.Empty(res.Reference)
	})

	s.Run("succeeds when the roll clears the failure rate", func() {
		b := New(Config{FailureRate: 0.5}, logger.Discard(), WithRoll(func() float64 { return 0.9 }))
		res := s.await(b.Submit(context.Background(), s.submission()))
		s.Equal(wizard.OutcomeSucceeded, res.Outcome)
	})

	s.Run("cancellation resolves as cancelled", func() {
		b := New(Config{SubmitDelay: time.Hour}, logger.Discard())
		ctx, cancel := context.WithCancel(context.Background())
		ch := b.Submit(ctx, s.submission())
		cancel()
		res := s.await(ch)

		s.Equal(wizard.OutcomeCancelled, res.Outcome)
		s.ErrorIs(res.Err, context.Canceled)
	})

	s.Run("channel closes after the single result", func() {
		b := New(Config{}, logger.Discard())
		ch := b.Submit(context.Background(), s.submission())
		s.await(ch)
		_, ok := <-ch
		s.False(ok)
	})
}

func (s *SimulatorSuite) TestAction() {
	s.Run("waits for the delay", func() {
		b := New(Config{ActionDelay: 20 * time.Millisecond}, logger.Discard())
		start := time.Now()
		s.Require().NoError(b.Action(context.Background(), "login"))
		s.GreaterOrEqual(time.Since(start), 20*time.Millisecond)
	})

	s.Run("respects deadline", func() {
		b := New(Config{ActionDelay: time.Hour}, logger.Discard())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		s.ErrorIs(b.Action(ctx, "approve"), context.DeadlineExceeded)
	})
}

func TestReferenceUsesYear(t *testing.T) {
	ref := reference(time.Date(2031, 5, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, ref, len("NAI-2031-")+8)
	assert.Equal(t, "NAI-2031-", ref[:9])
}
