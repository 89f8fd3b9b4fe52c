package wizard

import (
	"context"
	"time"
)

// Outcome is the terminal state of one submission attempt.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Submission is what a Submitter receives: a private copy of the completed form.
type Submission struct {
	Wizard  string
	Session string
	Attempt int
	Form    FormState
}

// Result is the resolution of a submission.
type Result struct {
	Outcome     Outcome
	Reference   string
	Err         error
	CompletedAt time.Time
}

// Submitter is the asynchronous boundary to whatever accepts a completed form.
// Implementations deliver exactly one Result on the returned channel and
// should stop work when ctx is cancelled.
type Submitter interface {
	Submit(ctx context.Context, s Submission) <-chan Result
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) <-chan Result

func (f SubmitterFunc) Submit(ctx context.Context, s Submission) <-chan Result {
	return f(ctx, s)
}

// Navigator is the navigation callback invoked after a successful submission.
type Navigator func(route string)

// Level grades a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a toast-style message for the user.
type Notification struct {
	Level   Level
	Title   string
	Message string
}

// Notifier is the notification sink.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }
