package declaration

import (
	"strings"
	"time"

	"civreg/internal/dashboard"
	"civreg/internal/wizard"
)

// AcceptedExtensions lists the upload types the documents step accepts.
var AcceptedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

// MaxUploadBytes caps a single attachment.
const MaxUploadBytes = 10 << 20

// SummaryLine is one row of the confirmation step.
type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func fullName(form wizard.FormState, section string) string {
	return strings.TrimSpace(strings.TrimSpace(form.Get(section, "prenom").Text) + " " + strings.TrimSpace(form.Get(section, "nom").Text))
}

// Summary renders the confirmation recap. Dates use the French day/month/year
// order.
func Summary(form wizard.FormState) []SummaryLine {
	birth := ""
	if t, ok := form.Get(SectionEnfant, "dateNaissance").Time(); ok {
		birth = t.Format("02/01/2006")
	}
	address := strings.TrimSpace(form.Get(SectionAdresse, "adresseComplete").Text) + ", " +
		strings.TrimSpace(form.Get(SectionAdresse, "codePostal").Text) + " " +
		strings.TrimSpace(form.Get(SectionAdresse, "ville").Text)

	return []SummaryLine{
		{Label: "Père", Value: fullName(form, SectionPere)},
		{Label: "Mère", Value: fullName(form, SectionMere)},
		{Label: "Enfant", Value: strings.TrimSpace(form.Get(SectionEnfant, "nom").Text)},
		{Label: "Date de naissance", Value: birth},
		{Label: "Adresse", Value: strings.TrimSpace(address)},
	}
}

// FromForm builds the parent dashboard entry for a submitted declaration. The
// id is assigned when the entry is added to a board.
func FromForm(form wizard.FormState, reference string, submittedAt time.Time) dashboard.Declaration {
	birth := ""
	if t, ok := form.Get(SectionEnfant, "dateNaissance").Time(); ok {
		birth = t.Format(wizard.DateLayout)
	}
	return dashboard.Declaration{
		EnfantNom:       strings.TrimSpace(form.Get(SectionEnfant, "nom").Text),
		DateNaissance:   birth,
		Pere:            fullName(form, SectionPere),
		Mere:            fullName(form, SectionMere),
		DateDeclaration: submittedAt.Format(wizard.DateLayout),
		Statut:          dashboard.ParentEnCours,
		Reference:       reference,
	}
}
