package wizard

import (
	"context"
	"fmt"
	"slices"
)

// Controller drives one wizard instance: it owns the form, the current step
// and the errors shown for it. It is not safe for concurrent use; callers
// serialise events the way a single browser tab does.
type Controller struct {
	def       *Definition
	seq       *Sequence
	form      FormState
	errors    *Presenter
	session   string
	attempts  int
	outcome   Outcome
	reference string
	inFlight  bool

	submitter Submitter
	navigate  Navigator
	notifier  Notifier
}

// Option configures a Controller.
type Option func(*Controller)

func WithSubmitter(s Submitter) Option { return func(c *Controller) { c.submitter = s } }
func WithNavigator(n Navigator) Option { return func(c *Controller) { c.navigate = n } }
func WithNotifier(n Notifier) Option   { return func(c *Controller) { c.notifier = n } }

// WithSession tags submissions with the owning session reference.
func WithSession(ref string) Option { return func(c *Controller) { c.session = ref } }

// New creates a controller on the first step with an empty form.
func New(def *Definition, opts ...Option) (*Controller, error) {
	if err := def.Check(); err != nil {
		return nil, err
	}
	seq, _ := def.sequence()
	c := &Controller{
		def:      def,
		seq:      seq,
		form:     FormState{},
		errors:   NewPresenter(),
		navigate: func(string) {},
		notifier: NotifierFunc(func(context.Context, Notification) {}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Restore rebuilds a controller from a snapshot taken by Snapshot.
func Restore(def *Definition, snap Snapshot, opts ...Option) (*Controller, error) {
	c, err := New(def, opts...)
	if err != nil {
		return nil, err
	}
	if snap.Step != "" {
		if err := c.seq.Seek(snap.Step); err != nil {
			return nil, fmt.Errorf("restore wizard %s: %w", def.Name, err)
		}
	}
	if snap.Form != nil {
		c.form = snap.Form.Clone()
	}
	c.errors.Publish(snap.Errors)
	c.attempts = snap.Attempts
	c.outcome = snap.Outcome
	c.reference = snap.Reference
	return c, nil
}

func (c *Controller) Definition() *Definition { return c.def }
func (c *Controller) Current() Step           { return c.seq.Current() }
func (c *Controller) Index() int              { return c.seq.Index() }
func (c *Controller) Len() int                { return c.seq.Len() }
func (c *Controller) Progress() float64       { return c.seq.Progress() }
func (c *Controller) Steps() []Step           { return c.seq.Steps() }
func (c *Controller) Form() FormState         { return c.form }
func (c *Controller) Errors() ErrorMap        { return c.errors.Errors() }
func (c *Controller) Attempts() int           { return c.attempts }
func (c *Controller) LastOutcome() Outcome    { return c.outcome }
func (c *Controller) Reference() string       { return c.reference }

// Title returns the title of the current step.
func (c *Controller) Title() string {
	sd, _ := c.def.Lookup(c.seq.Current())
	return sd.Title
}

// Advance validates the current step and moves forward when it passes. The
// returned map is what the presenter now shows; it is empty on success. At the
// last step Advance does nothing.
func (c *Controller) Advance() ErrorMap {
	if c.seq.IsLast() {
		return ErrorMap{}
	}
	errs := c.def.Validate(c.seq.Current(), c.form)
	if !errs.Valid() {
		c.errors.Publish(errs)
		return errs.Clone()
	}
	c.seq.next()
	c.errors.Clear()
	return ErrorMap{}
}

// Retreat moves one step back without validating. It reports whether the
// step changed.
func (c *Controller) Retreat() bool {
	if !c.seq.prev() {
		return false
	}
	c.errors.Clear()
	return true
}

// Set replaces one leaf of the form and clears that field's error.
func (c *Controller) Set(section, field string, v Value) error {
	fd, ok := c.def.Schema.Field(section, field)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, field)
	}
	if v.Kind == "" {
		v.Kind = fd.Kind
	}
	if v.Kind != fd.Kind {
		return fmt.Errorf("%w: %s.%s is %s, got %s", ErrKindMismatch, section, field, fd.Kind, v.Kind)
	}
	if fd.Kind == KindChoice && v.Text != "" && len(fd.Options) > 0 && !slices.Contains(fd.Options, v.Text) {
		return fmt.Errorf("%w: %s.%s=%q", ErrInvalidOption, section, field, v.Text)
	}
	switch fd.Kind {
	case KindFile:
		v = File(v.File)
	case KindDate:
		if v.Text != "" {
			if _, ok := v.Time(); !ok {
				return fmt.Errorf("%w: %s.%s=%q", ErrInvalidDate, section, field, v.Text)
			}
		}
	default:
		v.File = nil
	}
	c.form = c.form.With(section, field, v)
	c.errors.ClearField(field)
	return nil
}

// SetFile attaches or, with nil, detaches a document.
func (c *Controller) SetFile(section, field string, h *FileHandle) error {
	return c.Set(section, field, File(h))
}

// FirstInvalid re-runs every step's validator in order and returns the first
// step that fails.
func (c *Controller) FirstInvalid() (Step, ErrorMap, bool) {
	for _, sd := range c.def.Steps {
		errs := c.def.Validate(sd.Step, c.form)
		if !errs.Valid() {
			return sd.Step, errs, true
		}
	}
	return "", nil, false
}

// Submit hands the completed form to the submitter and waits for its result
// or for ctx to end. Every step is re-validated first; when one fails the
// controller moves back to it and returns a *ValidationError without calling
// the submitter.
//
// A failed or cancelled result is not an error: the controller stays on the
// last step with the form intact, so the caller may submit again.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	if !c.seq.IsLast() {
		return Result{}, ErrNotAtLastStep
	}
	if c.submitter == nil {
		return Result{}, ErrNoSubmitter
	}
	if c.inFlight {
		return Result{}, ErrSubmissionInFlight
	}
	if step, errs, bad := c.FirstInvalid(); bad {
		_ = c.seq.Seek(step)
		c.errors.Publish(errs)
		return Result{}, &ValidationError{Step: step, Errors: errs.Clone()}
	}
	c.errors.Clear()

	c.attempts++
	c.inFlight = true
	defer func() { c.inFlight = false }()

	ch := c.submitter.Submit(ctx, Submission{
		Wizard:  c.def.Name,
		Session: c.session,
		Attempt: c.attempts,
		Form:    c.form.Clone(),
	})

	var res Result
	select {
	case r, ok := <-ch:
		if !ok {
			r = Result{Outcome: OutcomeFailed, Err: ErrSubmitterNoResult}
		}
		res = r
	case <-ctx.Done():
		res = Result{Outcome: OutcomeCancelled, Err: ctx.Err()}
	}
	c.outcome = res.Outcome

	switch res.Outcome {
	case OutcomeSucceeded:
		c.reference = res.Reference
		c.notifier.Notify(ctx, Notification{
			Level:   LevelSuccess,
			Title:   "Dossier envoyé",
			Message: "Votre dossier a été transmis avec succès.",
		})
		c.navigate(c.def.SuccessRoute)
	case OutcomeFailed:
		c.notifier.Notify(ctx, Notification{
			Level:   LevelError,
			Title:   "Échec de l'envoi",
			Message: "L'envoi du dossier a échoué. Vous pouvez réessayer.",
		})
	}
	return res, nil
}

// Snapshot exports the state needed to rebuild the controller later.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Step:      c.seq.Current(),
		Form:      c.form.Clone(),
		Errors:    c.errors.Errors(),
		Attempts:  c.attempts,
		Outcome:   c.outcome,
		Reference: c.reference,
	}
}

// Snapshot is the serialisable state of a controller. Injected capabilities
// are not part of it.
type Snapshot struct {
	Step      Step      `json:"step"`
	Form      FormState `json:"form,omitempty"`
	Errors    ErrorMap  `json:"errors,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	Outcome   Outcome   `json:"outcome,omitempty"`
	Reference string    `json:"reference,omitempty"`
}
