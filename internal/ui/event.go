package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrUnknownEvent = errors.New("unknown event")

// Event is one user action: a form submission or a button click.
// Args carries explicit handler arguments (e.g. the id and name passed
// to an edit button); form fields are read from the view instead.
type Event struct {
	Name string
	Args map[string]string

	prevented bool
}

func NewEvent(name string, args map[string]string) *Event {
	if args == nil {
		args = map[string]string{}
	}
	return &Event{Name: name, Args: args}
}

// PreventDefault marks the event as fully handled; the browser's default
// form submission must not proceed.
func (e *Event) PreventDefault() { e.prevented = true }

func (e *Event) DefaultPrevented() bool { return e.prevented }

func (e *Event) Arg(name string) string { return e.Args[name] }

// Handler runs one command for an event.
type Handler func(ctx context.Context, ev *Event) error

// Registry maps event names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Handle registers h for name, replacing any previous handler.
func (r *Registry) Handle(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered event names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the handler registered for ev.Name.
func (r *Registry) Dispatch(ctx context.Context, ev *Event) error {
	r.mu.RLock()
	h, ok := r.handlers[ev.Name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Name)
	}
	return h(ctx, ev)
}
