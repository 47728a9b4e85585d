package viewstate

import (
	"context"
	"sync"
	"time"

	"eventdesk/internal/filters"
	"eventdesk/internal/remote"
	"eventdesk/internal/shared/constants"
)

// MemoryStore keeps view state in process. It is used when Redis is not
// configured and in tests. Sessions untouched for longer than the idle TTL
// are swept on later writes.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*memoryEntry
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type memoryEntry struct {
	state   State
	latest  uint64
	touched time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		idleTTL:  constants.TTL_VIEW_STATE,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetIdleTTL changes how long an untouched session is kept.
func (m *MemoryStore) SetIdleTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTTL = ttl
}

// Len returns the number of sessions held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// entry returns the session entry, creating it when missing. Callers hold mu.
func (m *MemoryStore) entry(key string) *memoryEntry {
	now := m.now()
	m.sweep(now)

	e, ok := m.sessions[key]
	if !ok {
		e = &memoryEntry{}
		m.sessions[key] = e
	} else if now.Sub(e.touched) > m.idleTTL {
		// the ticket counter survives so old tickets stay superseded
		e.state = State{}
	}
	e.touched = now
	return e
}

// sweep drops idle sessions, at most once per idle TTL. Callers hold mu.
func (m *MemoryStore) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.idleTTL {
		return
	}
	m.lastSweep = now
	for key, e := range m.sessions {
		if now.Sub(e.touched) > m.idleTTL {
			delete(m.sessions, key)
		}
	}
}

func (m *MemoryStore) Load(_ context.Context, key string) (State, error) {
	if key == "" {
		return State{}, ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[key]
	if !ok || m.now().Sub(e.touched) > m.idleTTL {
		return State{}, nil
	}
	st := e.state
	st.Events = append([]remote.Event(nil), e.state.Events...)
	return st, nil
}

func (m *MemoryStore) SaveDraft(_ context.Context, key string, draft filters.Input) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entry(key).state.Draft = draft
	return nil
}

func (m *MemoryStore) SaveFilters(_ context.Context, key string, draft filters.Input, active filters.Active) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(key)
	e.state.Draft = draft
	e.state.Active = active
	e.latest++
	return nil
}

func (m *MemoryStore) Begin(_ context.Context, key string) (uint64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(key)
	e.latest++
	return e.latest, nil
}

func (m *MemoryStore) Commit(_ context.Context, key string, ticket uint64, events []remote.Event) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[key]
	if !ok || e.latest != ticket {
		return false, nil
	}
	e.touched = m.now()
	e.state.Events = append([]remote.Event(nil), events...)
	e.state.Ticket = ticket
	e.state.RefreshedAt = m.now()
	return true, nil
}

func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, key)
	return nil
}
