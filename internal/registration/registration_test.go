package registration

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"civreg/internal/platform/logger"
	"civreg/internal/secrets"
	"civreg/internal/wizard"
	dErrors "civreg/pkg/domain-errors"
)

type RegistrationSuite struct {
	suite.Suite
	store   *InMemoryAccountStore
	hasher  *secrets.Hasher
	service *Service
	sent    []wizard.Notification
	now     time.Time
}

func TestRegistrationSuite(t *testing.T) {
	suite.Run(t, new(RegistrationSuite))
}

func (s *RegistrationSuite) SetupTest() {
	s.store = NewInMemoryAccountStore()
	s.hasher = secrets.NewHasher(bcrypt.MinCost)
	s.now = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	s.sent = nil
	s.service = NewService(s.store, s.hasher, logger.Discard(),
		WithCodeGenerator(func() (string, error) { return "482913", nil }),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *RegistrationSuite) notifier() wizard.Notifier {
	return wizard.NotifierFunc(func(_ context.Context, n wizard.Notification) { s.sent = append(s.sent, n) })
}

func validForm() wizard.FormState {
	form := wizard.FormState{}
	for k, v := range map[string]string{
		"nom":               "Diallo",
		"prenom":            "Fatou",
		"telephone":         "77 123 45 67",
		"adresse":           "Rue 10, Dakar",
		"email":             "fatou@exemple.sn",
		"motDePasse":        "motdepasse",
		"confirmMotDePasse": "motdepasse",
	} {
		form = form.With(SectionCompte, k, wizard.Text(v))
	}
	return form
}

func (s *RegistrationSuite) TestFormRules() {
	cases := []struct {
		name string
		edit map[string]string
		want wizard.ErrorMap
	}{
		{name: "valid", want: wizard.ErrorMap{}},
		{name: "empty email is fine", edit: map[string]string{"email": ""}, want: wizard.ErrorMap{}},
		{name: "bad email", edit: map[string]string{"email": "fatou@"}, want: wizard.ErrorMap{"email": msgEmail}},
		{name: "short phone", edit: map[string]string{"telephone": "77 12"}, want: wizard.ErrorMap{"telephone": msgTelephoneDigits}},
		// The first failing rule on a field wins, so an empty value reports
		// "requis" rather than the length rule that follows it.
		{name: "empty phone shows required", edit: map[string]string{"telephone": ""}, want: wizard.ErrorMap{"telephone": msgTelephone}},
		{
			name: "empty password shows required and mismatch",
			edit: map[string]string{"motDePasse": ""},
			want: wizard.ErrorMap{"motDePasse": msgMotDePasse, "confirmMotDePasse": msgConfirmation},
		},
		{
			name: "short password",
			edit: map[string]string{"motDePasse": "court", "confirmMotDePasse": "court"},
			want: wizard.ErrorMap{"motDePasse": msgMotDePasseLen},
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			form := validForm()
			for k, v := range tc.edit {
				form = form.With(SectionCompte, k, wizard.Text(v))
			}
			if diff := cmp.Diff(tc.want, Definition.Validate(StepForm, form)); diff != "" {
				s.Failf("errors mismatch", "(-want +got):\n%s", diff)
			}
		})
	}
}

func (s *RegistrationSuite) TestVerificationRules() {
	form := wizard.FormState{}
	s.Equal(wizard.ErrorMap{"otp": msgOTP}, Definition.Validate(StepVerification, form))

	form = form.With(SectionVerification, "otp", wizard.Text("1234567"))
	s.Equal(wizard.ErrorMap{"otp": msgOTPLength}, Definition.Validate(StepVerification, form))

	form = form.With(SectionVerification, "otp", wizard.Text("123456"))
	s.Empty(Definition.Validate(StepVerification, form))
}

func (s *RegistrationSuite) TestSendCode() {
	s.Require().NoError(s.service.SendCode(context.Background(), validForm(), s.notifier()))

	s.Require().Len(s.sent, 1)
	s.Equal(wizard.LevelInfo, s.sent[0].Level)
	s.Contains(s.sent[0].Message, "482913")
	s.Contains(s.sent[0].Message, "67")
	s.NotContains(s.sent[0].Message, "77 123")
}

func (s *RegistrationSuite) TestCreateAccount() {
	s.Run("hashes the password", func() {
		a, err := s.service.CreateAccount(context.Background(), validForm())
		s.Require().NoError(err)
		s.Equal("Fatou", a.Prenom)
		s.Equal(s.now, a.CreatedAt)
		s.NotEqual("motdepasse", a.PasswordHash)
		s.NoError(s.hasher.Verify("motdepasse", a.PasswordHash))

		stored, err := s.service.Account(context.Background(), a.ID)
		s.Require().NoError(err)
		s.Equal(a.ID, stored.ID)
	})

	s.Run("same phone conflicts", func() {
		form := validForm().With(SectionCompte, "email", wizard.Text("autre@exemple.sn")).
			With(SectionCompte, "telephone", wizard.Text("771234567"))
		_, err := s.service.CreateAccount(context.Background(), form)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *RegistrationSuite) TestMaskPhone() {
	s.Equal("•••••••67", maskPhone("77 123 45 67"))
	s.Equal("7", maskPhone("7"))
}
