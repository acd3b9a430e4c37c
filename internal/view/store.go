package view

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNoSession = errors.New("view: empty session id")

// Store keeps one Page per browser session.
type Store interface {
	// Load returns the session's page, or a fresh page when none is stored.
	Load(ctx context.Context, sessionID string) (*Page, error)
	Save(ctx context.Context, sessionID string, p *Page) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	page     *Page
	lastSeen time.Time
}

// MemoryStore keeps live Page values in process. Pages idle for longer
// than ttl are dropped on the next access.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	pages map[string]*memoryEntry
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, pages: make(map[string]*memoryEntry), now: time.Now}
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*Page, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	e, ok := m.pages[sessionID]
	if !ok {
		e = &memoryEntry{page: NewPage()}
		m.pages[sessionID] = e
	}
	e.lastSeen = now
	return e.page, nil
}

func (m *MemoryStore) Save(ctx context.Context, sessionID string, p *Page) error {
	if sessionID == "" {
		return ErrNoSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[sessionID] = &memoryEntry{page: p, lastSeen: m.now()}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pages, sessionID)
	return nil
}

// Len returns the number of live pages.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages)
}

func (m *MemoryStore) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, e := range m.pages {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.pages, id)
		}
	}
}

// Locks serializes work per session id. An entry lives only while some
// caller holds or waits for it. The zero value is ready to use.
type Locks struct {
	mu sync.Mutex
	m  map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until the session's lock is held and returns its release.
// Calling the release more than once has no further effect.
func (l *Locks) Lock(sessionID string) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = map[string]*sessionLock{}
	}
	e, ok := l.m[sessionID]
	if !ok {
		e = &sessionLock{}
		l.m[sessionID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			l.mu.Lock()
			if e.refs--; e.refs == 0 {
				delete(l.m, sessionID)
			}
			l.mu.Unlock()
		})
	}
}

// Len reports how many sessions currently hold or await a lock.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
