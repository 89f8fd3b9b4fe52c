package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"civreg/internal/platform/metrics"
	"civreg/internal/session"
	"civreg/internal/wizard"
	"civreg/pkg/domain"
	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/httputil"
	"civreg/pkg/requestcontext"
)

// Notifications hands out per-session notification sinks.
type Notifications interface {
	Notifier(sessionID string) wizard.Notifier
}

// Hook is a side effect of a wizard event. It runs with the session lock held.
type Hook func(ctx context.Context, sess *session.Session, c *wizard.Controller) error

// Flow binds a wizard definition to the side effects around it. Every hook
// is optional.
type Flow struct {
	Definition *wizard.Definition
	// BeforeAdvance runs when the current step is valid, before moving on.
	BeforeAdvance Hook
	// AfterAdvance runs once the controller has left from.
	AfterAdvance func(ctx context.Context, sess *session.Session, c *wizard.Controller, from wizard.Step) error
	// BeforeSubmit runs once every step is valid and may veto the submission.
	BeforeSubmit Hook
	// OnSuccess runs after the submitter accepted the form.
	OnSuccess func(ctx context.Context, sess *session.Session, c *wizard.Controller, res wizard.Result) error
	// Summary adds a recap of the form to views of the last step.
	Summary func(form wizard.FormState) any
	// Upload limits attachments; the zero value accepts nothing.
	Upload UploadPolicy
	// Actions are extra POST endpoints under the wizard's route.
	Actions map[string]Hook
}

// UploadPolicy bounds the documents a wizard accepts.
type UploadPolicy struct {
	MaxBytes   int64
	Extensions []string
}

// WizardHandler exposes wizard controllers over HTTP. Controllers live only
// for one request; their state is a snapshot in the caller's session.
type WizardHandler struct {
	logger        *slog.Logger
	metrics       *metrics.Metrics
	submitter     wizard.Submitter
	notifications Notifications
	flows         []Flow
}

func NewWizardHandler(submitter wizard.Submitter, notifications Notifications, m *metrics.Metrics, logger *slog.Logger, flows ...Flow) *WizardHandler {
	return &WizardHandler{
		logger:        logger,
		metrics:       m,
		submitter:     submitter,
		notifications: notifications,
		flows:         flows,
	}
}

// Register mounts one route group per wizard.
func (h *WizardHandler) Register(r chi.Router) {
	for _, f := range h.flows {
		r.Route("/"+f.Definition.Name, func(r chi.Router) {
			r.Get("/", h.with(f, h.handleView))
			r.Put("/fields/{section}/{field}", h.with(f, h.handleSetField))
			r.Put("/files/{section}/{field}", h.with(f, h.handleAttach))
			r.Delete("/files/{section}/{field}", h.with(f, h.handleDetach))
			r.Post("/next", h.with(f, h.handleNext))
			r.Post("/back", h.with(f, h.handleBack))
			r.Post("/submit", h.with(f, h.handleSubmit))
			for name, hook := range f.Actions {
				r.Post("/"+name, h.with(f, h.action(hook)))
			}
		})
	}
}

// wizardRequest is the per-request state shared by the wizard handlers.
type wizardRequest struct {
	flow     Flow
	sess     *session.Session
	ctrl     *wizard.Controller
	redirect string
}

func (wr *wizardRequest) save() {
	wr.sess.PutWizard(wr.flow.Definition.Name, wr.ctrl.Snapshot())
}

func (wr *wizardRequest) view() wizardView {
	v := newWizardView(wr.ctrl, wr.redirect)
	if wr.flow.Summary != nil && v.Index == v.Total-1 {
		v.Summary = wr.flow.Summary(wr.ctrl.Form())
	}
	return v
}

type wizardHandlerFunc func(w http.ResponseWriter, r *http.Request, wr *wizardRequest)

// with restores the flow's controller from the session before calling next.
func (h *WizardHandler) with(f Flow, next wizardHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := session.FromContext(ctx)
		if sess == nil {
			h.logger.ErrorContext(ctx, "wizard route reached without a session",
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "session missing"))
			return
		}

		wr := &wizardRequest{flow: f, sess: sess}
		opts := []wizard.Option{
			wizard.WithSubmitter(h.submitter),
			wizard.WithNavigator(func(route string) { wr.redirect = route }),
			wizard.WithNotifier(h.notifications.Notifier(sess.ID.String())),
			wizard.WithSession(sess.ID.String()),
		}
		var err error
		if snap, ok := sess.Wizard(f.Definition.Name); ok {
			wr.ctrl, err = wizard.Restore(f.Definition, snap, opts...)
		} else {
			wr.ctrl, err = wizard.New(f.Definition, opts...)
		}
		if err != nil {
			// A snapshot that no longer fits the definition is discarded.
			h.logger.WarnContext(ctx, "discarding wizard snapshot",
				"wizard", f.Definition.Name,
				"error", err,
			)
			sess.DropWizard(f.Definition.Name)
			if wr.ctrl, err = wizard.New(f.Definition, opts...); err != nil {
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "invalid wizard"))
				return
			}
		}
		next(w, r, wr)
	}
}

func (h *WizardHandler) handleView(w http.ResponseWriter, _ *http.Request, wr *wizardRequest) {
	httputil.WriteJSON(w, http.StatusOK, wr.view())
}

type setFieldRequest struct {
	Value string `json:"value"`
}

func (h *WizardHandler) handleSetField(w http.ResponseWriter, r *http.Request, wr *wizardRequest) {
	ctx := r.Context()
	section, field := chi.URLParam(r, "section"), chi.URLParam(r, "field")

	var req setFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid set field request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if fd, ok := wr.flow.Definition.Schema.Field(section, field); ok && fd.Kind == wizard.KindFile {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "documents are attached through the files endpoint"))
		return
	}
	value := req.Value
	if !isSecret(wr.flow.Definition.Schema, section, field) {
		value = stripMarkup(value)
	}

	if err := wr.ctrl.Set(section, field, wizard.Value{Text: value}); err != nil {
		httputil.WriteError(w, fieldError(err))
		return
	}
	wr.save()
	httputil.WriteJSON(w, http.StatusOK, wr.view())
}

func (h *WizardHandler) handleAttach(w http.ResponseWriter, r *http.Request, wr *wizardRequest) {
	ctx := r.Context()
	section, field := chi.URLParam(r, "section"), chi.URLParam(r, "field")
	policy := wr.flow.Upload

	if _, ok := wr.flow.Definition.Schema.Field(section, field); !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown field"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, policy.MaxBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Le fichier est trop volumineux"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "a multipart file named \"file\" is required"))
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(policy.Extensions, ext) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Type de fichier non accepté"))
		return
	}
	if header.Size > policy.MaxBytes {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Le fichier est trop volumineux"))
		return
	}

	sniff := make([]byte, 512)
	n, _ := file.Read(sniff)
	handle := &wizard.FileHandle{
		ID:          domain.NewFileID().String(),
		Name:        filepath.Base(header.Filename),
		ContentType: http.DetectContentType(sniff[:n]),
		Size:        header.Size,
	}
	if err := wr.ctrl.SetFile(section, field, handle); err != nil {
		httputil.WriteError(w, fieldError(err))
		return
	}
	h.logger.DebugContext(ctx, "document attached",
		"wizard", wr.flow.Definition.Name,
		"field", field,
		"size", handle.Size,
	)
	wr.save()
	httputil.WriteJSON(w, http.StatusOK, wr.view())
}

func (h *WizardHandler) handleDetach(w http.ResponseWriter, r *http.Request, wr *wizardRequest) {
	section, field := chi.URLParam(r, "section"), chi.URLParam(r, "field")
	if err := wr.ctrl.SetFile(section, field, nil); err != nil {
		httputil.WriteError(w, fieldError(err))
		return
	}
	wr.save()
	httputil.WriteJSON(w, http.StatusOK, wr.view())
}

func (h *WizardHandler) handleNext(w http.ResponseWriter, r *http.Request, wr *wizardRequest) {
	ctx := r.Context()
	name := wr.flow.Definition.Name
	from := wr.ctrl.Current()

	if wr.flow.BeforeAdvance != nil && wr.flow.Definition.Validate(from, wr.ctrl.Form()).Valid() {
		if err := wr.flow.BeforeAdvance(ctx, wr.sess, wr.ctrl); err != nil {
			h.writeHookError(ctx, w, name, err)
			return
		}
	}

	errs := wr.ctrl.Advance()
	moved := wr.ctrl.Current() != from
	h.metrics.ObserveTransition(name, "next", moved)
	wr.save()
	if !errs.Valid() {
		h.metrics.IncrementValidationFailures(name, string(from))
		h.logger.DebugContext(ctx, "step refused", "wizard", name, "step", from, "fields", errs.Fields())
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, wr.view())
		return
	}

	if moved && wr.flow.AfterAdvance != nil {
		if err := wr.flow.AfterAdvance(ctx, wr.sess, wr.ctrl, from); err != nil {
			h.writeHookError(ctx, w, name, err)
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, wr.view())
}

func (h *WizardHandler) handleBack(w http.ResponseWriter, _ *http.Request, wr *wizardRequest) {
	moved := wr.ctrl.Retreat()
	h.metrics.ObserveTransition(wr.flow.Definition.Name, "back", moved)
	wr.save()
	httputil.WriteJSON(w, http.StatusOK, wr.view())
}

func (h *WizardHandler) handleSubmit(w http.ResponseWriter, r *http.Request, wr *wizardRequest) {
	ctx := r.Context()
	name := wr.flow.Definition.Name

	if wr.flow.BeforeSubmit != nil && wr.ctrl.Index() == wr.ctrl.Len()-1 {
		if _, _, invalid := wr.ctrl.FirstInvalid(); !invalid {
			if err := wr.flow.BeforeSubmit(ctx, wr.sess, wr.ctrl); err != nil {
				h.writeHookError(ctx, w, name, err)
				return
			}
		}
	}

	res, err := wr.ctrl.Submit(ctx)
	if err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			h.metrics.IncrementValidationFailures(name, string(verr.Step))
			h.logger.DebugContext(ctx, "submission refused", "wizard", name, "step", verr.Step, "fields", verr.Errors.Fields())
			wr.save()
			httputil.WriteJSON(w, http.StatusUnprocessableEntity, wr.view())
			return
		}
		httputil.WriteError(w, fieldError(err))
		return
	}

	switch res.Outcome {
	case wizard.OutcomeSucceeded:
		h.logger.InfoContext(ctx, "form submitted",
			"wizard", name,
			"reference", res.Reference,
			"attempt", wr.ctrl.Attempts(),
			"role", requestcontext.Role(ctx),
			"request_id", requestcontext.RequestID(ctx),
		)
		if wr.flow.OnSuccess != nil {
			if err := wr.flow.OnSuccess(ctx, wr.sess, wr.ctrl, res); err != nil {
				wr.save()
				h.writeHookError(ctx, w, name, err)
				return
			}
		}
		view := wr.view()
		wr.sess.DropWizard(name)
		httputil.WriteJSON(w, http.StatusOK, view)
	default:
		h.logger.WarnContext(ctx, "submission did not complete",
			"wizard", name,
			"outcome", res.Outcome,
			"attempt", wr.ctrl.Attempts(),
			"error", res.Err,
		)
		wr.save()
		httputil.WriteJSON(w, http.StatusOK, wr.view())
	}
}

func (h *WizardHandler) action(hook Hook) wizardHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, wr *wizardRequest) {
		if err := hook(r.Context(), wr.sess, wr.ctrl); err != nil {
			h.writeHookError(r.Context(), w, wr.flow.Definition.Name, err)
			return
		}
		wr.save()
		httputil.WriteJSON(w, http.StatusOK, wr.view())
	}
}

func (h *WizardHandler) writeHookError(ctx context.Context, w http.ResponseWriter, name string, err error) {
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, "wizard event rejected",
			"request_id", requestcontext.RequestID(ctx),
			"wizard", name,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.ErrorContext(ctx, "wizard event failed",
		"request_id", requestcontext.RequestID(ctx),
		"wizard", name,
		"error", err,
	)
	httputil.WriteError(w, err)
}

// fieldError translates controller errors into coded errors.
func fieldError(err error) error {
	switch {
	case errors.Is(err, wizard.ErrUnknownField):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "unknown field")
	case errors.Is(err, wizard.ErrKindMismatch),
		errors.Is(err, wizard.ErrInvalidOption),
		errors.Is(err, wizard.ErrInvalidDate):
		return dErrors.Wrap(err, dErrors.CodeBadRequest, err.Error())
	case errors.Is(err, wizard.ErrNotAtLastStep):
		return dErrors.Wrap(err, dErrors.CodeConflict, "submission is only possible from the last step")
	case errors.Is(err, wizard.ErrSubmissionInFlight):
		return dErrors.Wrap(err, dErrors.CodeConflict, "a submission is already in flight")
	default:
		return err
	}
}
