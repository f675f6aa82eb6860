// Package forms tracks the submit lifecycle of a single input form.
//
// A form is idle until Submit is called, stays submitting while the handler
// runs and reports one terminal outcome before going back to idle. A second
// Submit while the first is still running is refused with ErrBusy, which is
// the terminal counterpart of a disabled submit button.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrBusy       = errors.New("form is already submitting")
	ErrValidation = errors.New("validation failed")
)

type State int

const (
	Idle State = iota
	Submitting
	Success
	DomainError
	NetworkError
	// Failed is any other server rejection, rendered as "Error: <detail>".
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case DomainError:
		return "domain-error"
	case NetworkError:
		return "network-error"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether s is one of the outcome states.
func (s State) Terminal() bool {
	return s >= Success && s <= Failed
}

// Outcome is what a submit handler reports back.
type Outcome struct {
	State   State
	Message string
}

func Succeeded(msg string) Outcome { return Outcome{State: Success, Message: msg} }

// Handler performs the submit. It must return a terminal outcome.
type Handler func(ctx context.Context) Outcome

// TransitionFunc observes every state change of a form.
type TransitionFunc func(form string, from, to State)

type Form struct {
	name string

	mu      sync.Mutex
	state   State
	observe TransitionFunc
}

type Option func(*Form)

// WithTransitions registers fn to be called on every state change.
func WithTransitions(fn TransitionFunc) Option {
	return func(f *Form) { f.observe = fn }
}

func New(name string, opts ...Option) *Form {
	f := &Form{name: name}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Form) Name() string { return f.name }

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) move(to State) {
	f.mu.Lock()
	from := f.state
	f.state = to
	observe := f.observe
	f.mu.Unlock()

	if observe != nil {
		observe(f.name, from, to)
	}
}

// Submit runs h unless the form is already submitting. The form is back to
// idle when Submit returns, whatever h reported.
func (f *Form) Submit(ctx context.Context, h Handler) (out Outcome, err error) {
	f.mu.Lock()
	if f.state != Idle {
		f.mu.Unlock()
		return Outcome{}, fmt.Errorf("%s: %w", f.name, ErrBusy)
	}
	f.state = Submitting
	observe := f.observe
	f.mu.Unlock()

	if observe != nil {
		observe(f.name, Idle, Submitting)
	}

	defer func() {
		if !out.State.Terminal() {
			out = Outcome{State: Failed, Message: "Error: no result"}
		}
		f.move(out.State)
		f.move(Idle)
	}()

	return h(ctx), nil
}

// Field is a named input value.
type Field struct {
	Name  string
	Value string
}

// Required returns ErrValidation naming every field that is blank.
func Required(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
