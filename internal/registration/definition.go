// Package registration defines the account creation wizard: a details form
// followed by a one-time code check.
package registration

import "civreg/internal/wizard"

// Name identifies the wizard in routes and sessions.
const Name = "register"

const (
	StepForm         wizard.Step = "form"
	StepVerification wizard.Step = "verification"
)

const (
	SectionCompte       = "compte"
	SectionVerification = "verification"
)

const (
	msgNom             = "Le nom est requis"
	msgPrenom          = "Le prénom est requis"
	msgTelephone       = "Le numéro de téléphone est requis"
	msgTelephoneDigits = "Le numéro de téléphone doit contenir au moins 9 chiffres"
	msgAdresse         = "L'adresse est requise"
	msgEmail           = "Email invalide"
	msgMotDePasse      = "Le mot de passe est requis"
	msgMotDePasseLen   = "Le mot de passe doit contenir au moins 8 caractères"
	msgConfirmation    = "Les mots de passe ne correspondent pas"
	msgOTP             = "Le code OTP est requis"
	msgOTPLength       = "Le code OTP contient au plus 6 chiffres"
)

// Definition is the registration wizard.
var Definition = wizard.MustDefine(&wizard.Definition{
	Name:         Name,
	SuccessRoute: "/dashboard",
	Schema: wizard.Schema{
		{Name: SectionCompte, Fields: []wizard.Field{
			{Name: "nom", Kind: wizard.KindText, Label: "Nom"},
			{Name: "prenom", Kind: wizard.KindText, Label: "Prénom"},
			{Name: "telephone", Kind: wizard.KindText, Label: "Numéro de téléphone"},
			{Name: "adresse", Kind: wizard.KindText, Label: "Adresse"},
			{Name: "email", Kind: wizard.KindText, Label: "Email", Optional: true},
			{Name: "motDePasse", Kind: wizard.KindText, Label: "Mot de passe", Secret: true},
			{Name: "confirmMotDePasse", Kind: wizard.KindText, Label: "Confirmer le mot de passe", Secret: true},
		}},
		{Name: SectionVerification, Fields: []wizard.Field{
			{Name: "otp", Kind: wizard.KindText, Label: "Code de vérification"},
		}},
	},
	Steps: []wizard.StepDef{
		{Step: StepForm, Title: "Créer un compte", Validate: wizard.Rules(
			wizard.RequiredText(SectionCompte, "nom", msgNom),
			wizard.RequiredText(SectionCompte, "prenom", msgPrenom),
			wizard.RequiredText(SectionCompte, "telephone", msgTelephone),
			wizard.MinDigits(SectionCompte, "telephone", 9, msgTelephoneDigits),
			wizard.RequiredText(SectionCompte, "adresse", msgAdresse),
			wizard.Email(SectionCompte, "email", msgEmail),
			wizard.Present(SectionCompte, "motDePasse", msgMotDePasse),
			wizard.MinLength(SectionCompte, "motDePasse", 8, msgMotDePasseLen),
			wizard.MatchField(SectionCompte, "confirmMotDePasse", "motDePasse", msgConfirmation),
		)},
		{Step: StepVerification, Title: "Vérification", Validate: wizard.Rules(
			wizard.RequiredText(SectionVerification, "otp", msgOTP),
			wizard.MaxLength(SectionVerification, "otp", 6, msgOTPLength),
		)},
	},
})
