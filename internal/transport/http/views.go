package httptransport

import (
	"civreg/internal/wizard"
)

type stepView struct {
	Step  wizard.Step `json:"step"`
	Title string      `json:"title"`
}

// wizardView is what every wizard endpoint answers with.
type wizardView struct {
	Wizard    string           `json:"wizard"`
	Step      wizard.Step      `json:"step"`
	Title     string           `json:"title"`
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	Progress  float64          `json:"progress"`
	Steps     []stepView       `json:"steps"`
	Form      wizard.FormState `json:"form"`
	Errors    wizard.ErrorMap  `json:"errors"`
	Attempts  int              `json:"attempts,omitempty"`
	Outcome   wizard.Outcome   `json:"outcome,omitempty"`
	Reference string           `json:"reference,omitempty"`
	Redirect  string           `json:"redirect,omitempty"`
	Summary   any              `json:"summary,omitempty"`
}

const secretMask = "********"

func newWizardView(c *wizard.Controller, redirect string) wizardView {
	def := c.Definition()
	steps := make([]stepView, len(def.Steps))
	for i, s := range def.Steps {
		steps[i] = stepView{Step: s.Step, Title: s.Title}
	}
	return wizardView{
		Wizard:    def.Name,
		Step:      c.Current(),
		Title:     c.Title(),
		Index:     c.Index(),
		Total:     c.Len(),
		Progress:  c.Progress(),
		Steps:     steps,
		Form:      maskSecrets(def.Schema, c.Form()),
		Errors:    c.Errors(),
		Attempts:  c.Attempts(),
		Outcome:   c.LastOutcome(),
		Reference: c.Reference(),
		Redirect:  redirect,
	}
}

// maskSecrets returns a copy of form in which every given secret value is
// replaced by a fixed mask.
func maskSecrets(schema wizard.Schema, form wizard.FormState) wizard.FormState {
	out := form.Clone()
	for _, sec := range schema {
		for _, f := range sec.Fields {
			if !f.Secret {
				continue
			}
			if v := out.Get(sec.Name, f.Name); v.Text != "" {
				out[sec.Name][f.Name] = wizard.Value{Kind: v.Kind, Text: secretMask}
			}
		}
	}
	return out
}

func isSecret(schema wizard.Schema, section, field string) bool {
	f, ok := schema.Field(section, field)
	return ok && f.Secret
}
