package wizard

import (
	"errors"
	"fmt"
	"maps"
	"sort"
)

var (
	ErrUnknownStep        = errors.New("unknown step")
	ErrUnknownField       = errors.New("unknown field")
	ErrKindMismatch       = errors.New("value kind does not match field")
	ErrInvalidOption      = errors.New("value is not one of the field options")
	ErrInvalidDate        = errors.New("value is not a date")
	ErrNotAtLastStep      = errors.New("submission is only possible from the last step")
	ErrNoSubmitter        = errors.New("wizard has no submitter")
	ErrSubmitterNoResult  = errors.New("submitter closed without a result")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
)

// ErrorMap maps a flat field name to a human-readable message. An empty map
// means the step is valid.
type ErrorMap map[string]string

// Valid reports whether no field fails.
func (m ErrorMap) Valid() bool { return len(m) == 0 }

// Clone copies the map; the result is never nil.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	maps.Copy(out, m)
	return out
}

// Fields returns the failing field names in sorted order.
func (m ErrorMap) Fields() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Presenter holds the errors currently shown for the active step.
type Presenter struct {
	errs ErrorMap
}

func NewPresenter() *Presenter {
	return &Presenter{errs: ErrorMap{}}
}

// Publish replaces the shown errors wholesale.
func (p *Presenter) Publish(errs ErrorMap) {
	p.errs = errs.Clone()
}

func (p *Presenter) Clear() {
	p.errs = ErrorMap{}
}

// ClearField removes one entry if present and leaves the others untouched.
func (p *Presenter) ClearField(name string) {
	delete(p.errs, name)
}

func (p *Presenter) Errors() ErrorMap {
	return p.errs.Clone()
}

func (p *Presenter) Message(name string) string {
	return p.errs[name]
}

// ValidationError is returned by Submit when an earlier step no longer
// validates. The controller has already moved back to Step.
type ValidationError struct {
	Step   Step
	Errors ErrorMap
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %q has %d invalid field(s)", e.Step, len(e.Errors))
}
