package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"civreg/internal/dashboard/mocks"
	"civreg/internal/platform/logger"
	"civreg/internal/platform/metrics"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	backend *mocks.MockActioner
	metrics *metrics.Metrics
	service *Service
	boards  Boards
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.backend = mocks.NewMockActioner(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	seed, err := LoadSeed("")
	s.Require().NoError(err)
	s.service = NewService(seed, s.backend, s.metrics, logger.Discard())
	s.boards = s.service.NewBoards()
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestMairieActions() {
	s.Run("approve moves an open declaration to Approuvée", func() {
		s.backend.EXPECT().Action(gomock.Any(), "mairie.approve").Return(nil)

		d, err := s.service.Review(context.Background(), &s.boards, domain.RoleTownHall, "1", ActionApprove, "")
		s.Require().NoError(err)
		s.Equal("Déclaration approuvée", d.Title)
		s.Equal(MairieApprouvee, s.boards.Mairie[0].Statut)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.ReviewerActions.WithLabelValues("mairie", "approve")))
	})

	s.Run("reject without motif fails before the backend is called", func() {
		_, err := s.service.Review(context.Background(), &s.boards, domain.RoleTownHall, "3", ActionReject, "   ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		de, _ := dErrors.As(err)
		s.Equal(MsgMotifRequired, de.Message)
		s.Equal(MairieRecue, s.boards.Mairie[2].Statut)
	})

	s.Run("reject stores the trimmed motif", func() {
		s.backend.EXPECT().Action(gomock.Any(), "mairie.reject").Return(nil)

		_, err := s.service.Review(context.Background(), &s.boards, domain.RoleTownHall, "3", ActionReject, "  Pièce manquante ")
		s.Require().NoError(err)
		s.Equal(MairieRejetee, s.boards.Mairie[2].Statut)
		s.Equal("Pièce manquante", s.boards.Mairie[2].Motif)
	})

	s.Run("closed declaration conflicts", func() {
		_, err := s.service.Review(context.Background(), &s.boards, domain.RoleTownHall, "4", ActionSendToHospital, "")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown declaration is not found", func() {
		_, err := s.service.Review(context.Background(), &s.boards, domain.RoleTownHall, "99", ActionApprove, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("hospital-only action is rejected for mairie", func() {
		_, err := s.service.Review(context.Background(), &s.boards, domain.RoleTownHall, "1", ActionVerify, "")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestHopitalActions() {
	s.Run("verify marks the certificate valid", func() {
		s.backend.EXPECT().Action(gomock.Any(), "hopital.verify").Return(nil)

		_, err := s.service.Review(context.Background(), &s.boards, domain.RoleHospital, "1", ActionVerify, "")
		s.Require().NoError(err)
		s.Equal(HopitalVerifiee, s.boards.Hopital[0].Statut)
		s.Require().NotNil(s.boards.Hopital[0].CertificatValide)
		s.True(*s.boards.Hopital[0].CertificatValide)
	})

	s.Run("backend failure leaves the board untouched", func() {
		s.backend.EXPECT().Action(gomock.Any(), "hopital.reject").Return(errors.New("down"))

		_, err := s.service.Review(context.Background(), &s.boards, domain.RoleHospital, "2", ActionReject, "Incohérence")
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.Equal(HopitalEnAttente, s.boards.Hopital[1].Statut)
	})

	s.Run("cancelled request maps to timeout", func() {
		s.backend.EXPECT().Action(gomock.Any(), "hopital.reject").Return(context.Canceled)

		_, err := s.service.Review(context.Background(), &s.boards, domain.RoleHospital, "2", ActionReject, "Incohérence")
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

func (s *ServiceSuite) TestParentCannotReview() {
	_, err := s.service.Review(context.Background(), &s.boards, domain.RoleParent, "1", ActionApprove, "")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestBoardsAreIsolatedPerSession() {
	other := s.service.NewBoards()
	_, err := s.boards.ApplyMairie("1", ActionApprove, "")
	s.Require().NoError(err)

	s.Equal(MairieRecue, other.Mairie[0].Statut)
	s.Equal(MairieRecue, s.service.NewBoards().Mairie[0].Statut)
}
