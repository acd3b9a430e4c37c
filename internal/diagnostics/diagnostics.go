// Package diagnostics is the developer-facing error channel. It is kept
// apart from the user-facing status banner: every failed operation is
// recorded here as well.
package diagnostics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/studentcatalog/catalog-web/internal/graphql"
	"github.com/studentcatalog/catalog-web/pkg/logger"
)

// Kinds of failure.
const (
	KindTransport  = "transport"
	KindServer     = "server"
	KindValidation = "validation"
	KindInternal   = "internal"
)

// Entry is one recorded failure.
type Entry struct {
	Session   string    `bson:"session,omitempty" json:"session,omitempty"`
	Context   string    `bson:"context" json:"context"`
	Operation string    `bson:"operation,omitempty" json:"operation,omitempty"`
	Kind      string    `bson:"kind" json:"kind"`
	Message   string    `bson:"message" json:"message"`
	At        time.Time `bson:"at" json:"at"`
}

// Sink receives entries. Record must not block the caller for long and
// never fails the operation that produced the entry.
type Sink interface {
	Record(ctx context.Context, e Entry)
}

// Validation is implemented by client-side validation errors.
type Validation interface {
	error
	Validation() bool
}

// NewEntry classifies err and stamps the entry.
func NewEntry(session, what string, err error) Entry {
	e := Entry{Session: session, Context: what, Kind: KindInternal, At: time.Now().UTC()}
	if err == nil {
		return e
	}
	e.Message = err.Error()
	var te *graphql.TransportError
	var se *graphql.ServerError
	var ve Validation
	switch {
	case errors.As(err, &se):
		e.Kind, e.Operation = KindServer, se.Operation
	case errors.As(err, &te):
		e.Kind, e.Operation = KindTransport, te.Operation
	case errors.As(err, &ve) && ve.Validation():
		e.Kind = KindValidation
	}
	return e
}

// LogSink writes entries to the structured logger.
type LogSink struct{}

func (LogSink) Record(_ context.Context, e Entry) {
	logger.With("session", e.Session, "operation", e.Operation, "kind", e.Kind).
		Errorf("%s: %s", e.Context, e.Message)
}

// Multi fans entries out to every sink.
type Multi []Sink

func (m Multi) Record(ctx context.Context, e Entry) {
	for _, s := range m {
		if s != nil {
			s.Record(ctx, e)
		}
	}
}

// Bound attaches a session id to every entry recorded through it.
type Bound struct {
	Session string
	Sink    Sink
}

func (b Bound) Record(ctx context.Context, e Entry) {
	if e.Session == "" {
		e.Session = b.Session
	}
	b.Sink.Record(ctx, e)
}

// Memory keeps entries in process; used by tests and the CLI.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *Memory) Record(_ context.Context, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}
