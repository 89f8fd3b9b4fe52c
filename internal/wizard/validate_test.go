package wizard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRules(t *testing.T) {
	const sec = "compte"
	validator := Rules(
		RequiredText(sec, "telephone", "requis"),
		MinDigits(sec, "telephone", 9, "9 chiffres"),
		Email(sec, "email", "email invalide"),
		Present(sec, "motDePasse", "mot de passe requis"),
		MinLength(sec, "motDePasse", 8, "8 caractères"),
		MatchField(sec, "confirmMotDePasse", "motDePasse", "différents"),
		MaxLength(sec, "otp", 6, "trop long"),
	)

	tests := []struct {
		name   string
		fields map[string]string
		want   ErrorMap
	}{
		{
			name:   "all valid",
			fields: map[string]string{"telephone": "77 123 45 67", "email": "a@b.sn", "motDePasse": "secret123", "confirmMotDePasse": "secret123"},
			want:   ErrorMap{},
		},
		{
			name:   "presence wins over format",
			fields: map[string]string{},
			want:   ErrorMap{"telephone": "requis", "motDePasse": "mot de passe requis"},
		},
		{
			name:   "format failures",
			fields: map[string]string{"telephone": "77-123", "email": "nope", "motDePasse": "short", "confirmMotDePasse": "other", "otp": "1234567"},
			want: ErrorMap{
				"telephone":         "9 chiffres",
				"email":             "email invalide",
				"motDePasse":        "8 caractères",
				"confirmMotDePasse": "différents",
				"otp":               "trop long",
			},
		},
		{
			name:   "spaces count as a given password",
			fields: map[string]string{"telephone": "771234567", "motDePasse": "        ", "confirmMotDePasse": "        "},
			want:   ErrorMap{},
		},
		{
			name:   "too few digits",
			fields: map[string]string{"telephone": "12345678", "motDePasse": "secret123", "confirmMotDePasse": "secret123"},
			want:   ErrorMap{"telephone": "9 chiffres"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := FormState{}
			for k, v := range tt.fields {
				form = form.With(sec, k, Text(v))
			}
			if diff := cmp.Diff(tt.want, validator(form)); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidatorDoesNotMutateForm(t *testing.T) {
	form := FormState{}.With("s", "a", Text(" "))
	before := form.Clone()
	Rules(RequiredText("s", "a", "requis"), RequiredFile("s", "b", "requis"))(form)
	if diff := cmp.Diff(before, form); diff != "" {
		t.Fatalf("validator mutated form:\n%s", diff)
	}
}

func TestPresenter(t *testing.T) {
	p := NewPresenter()
	p.Publish(ErrorMap{"nom": "a", "prenom": "b"})
	p.ClearField("nom")
	p.ClearField("absent")

	if diff := cmp.Diff(ErrorMap{"prenom": "b"}, p.Errors()); diff != "" {
		t.Fatalf("unexpected errors:\n%s", diff)
	}
	if p.Message("prenom") != "b" {
		t.Fatalf("expected message for prenom")
	}
	p.Clear()
	if len(p.Errors()) != 0 {
		t.Fatalf("expected empty after clear")
	}
}
