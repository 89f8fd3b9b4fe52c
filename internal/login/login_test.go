package login

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"civreg/internal/dashboard/mocks"
	"civreg/internal/platform/logger"
	"civreg/internal/wizard"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want wizard.ErrorMap
	}{
		{"both missing", Request{}, wizard.ErrorMap{"identifier": MsgIdentifier, "motDePasse": MsgMotDePasse}},
		{"blank identifier", Request{Identifier: "  ", MotDePasse: "x"}, wizard.ErrorMap{"identifier": MsgIdentifier}},
		{"valid", Request{Identifier: "77 000 00 00", MotDePasse: "x"}, wizard.ErrorMap{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Validate())
		})
	}
}

func TestRoleOptions(t *testing.T) {
	opts := RoleOptions()
	require.Len(t, opts, 3)
	assert.Equal(t, domain.RoleParent, opts[0].Value)
	assert.NotEmpty(t, opts[1].Label)
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockActioner(ctrl)
	svc := NewService(backend, logger.Discard())

	t.Run("redirects per role", func(t *testing.T) {
		for role, route := range map[string]string{
			"":        "/dashboard",
			"parent":  "/dashboard",
			"mairie":  "/dashboard-mairie",
			"hopital": "/dashboard-hopital",
		} {
			backend.EXPECT().Action(gomock.Any(), "login").Return(nil)
			res, err := svc.Login(context.Background(), Request{Role: role, Identifier: "a@b.c", MotDePasse: "x"})
			require.NoError(t, err)
			assert.Equal(t, route, res.Redirect)
		}
	})

	t.Run("invalid form never reaches the backend", func(t *testing.T) {
		_, err := svc.Login(context.Background(), Request{Role: "parent"})
		var verr *wizard.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Errors, 2)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Login(context.Background(), Request{Role: "admin", Identifier: "a", MotDePasse: "b"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("backend failure", func(t *testing.T) {
		backend.EXPECT().Action(gomock.Any(), "login").Return(errors.New("down"))
		_, err := svc.Login(context.Background(), Request{Identifier: "a", MotDePasse: "b"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}
