package wizard

import "fmt"

// StepDef binds a step to its title and validator. A nil validator means the
// step is always valid.
type StepDef struct {
	Step     Step
	Title    string
	Validate Validator
}

// Definition is the static description of a wizard: its steps, the fields it
// owns and where to go after a successful submission.
type Definition struct {
	Name         string
	Steps        []StepDef
	Schema       Schema
	SuccessRoute string
}

// Check verifies the definition can drive a controller.
func (d *Definition) Check() error {
	if d.Name == "" {
		return fmt.Errorf("wizard definition needs a name")
	}
	if _, err := d.sequence(); err != nil {
		return fmt.Errorf("wizard %s: %w", d.Name, err)
	}
	for _, sec := range d.Schema {
		for _, f := range sec.Fields {
			switch f.Kind {
			case KindText, KindChoice, KindDate, KindFile:
			default:
				return fmt.Errorf("wizard %s: field %s.%s has unknown kind %q", d.Name, sec.Name, f.Name, f.Kind)
			}
		}
	}
	return nil
}

// MustDefine panics when the definition is malformed. Definitions are package
// level values, so a bad one is a programming error.
func MustDefine(d *Definition) *Definition {
	if err := d.Check(); err != nil {
		panic(err)
	}
	return d
}

func (d *Definition) sequence() (*Sequence, error) {
	steps := make([]Step, len(d.Steps))
	for i, s := range d.Steps {
		steps[i] = s.Step
	}
	return NewSequence(steps...)
}

// Lookup returns the definition of step.
func (d *Definition) Lookup(step Step) (StepDef, bool) {
	for _, s := range d.Steps {
		if s.Step == step {
			return s, true
		}
	}
	return StepDef{}, false
}

// Validate runs the validator of step against form.
func (d *Definition) Validate(step Step, form FormState) ErrorMap {
	sd, ok := d.Lookup(step)
	if !ok || sd.Validate == nil {
		return ErrorMap{}
	}
	errs := sd.Validate(form)
	if errs == nil {
		return ErrorMap{}
	}
	return errs
}
