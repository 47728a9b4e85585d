// Package viewstate keeps the listing state of each browser session: the
// filter panel draft, the active filter and the displayed collection.
//
// Every listing fetch takes a ticket before calling the API and may only
// replace the displayed collection while its ticket is the latest issued,
// so the most recent request wins regardless of completion order.
package viewstate

import (
	"context"
	"errors"
	"time"

	"eventdesk/internal/filters"
	"eventdesk/internal/remote"
)

var ErrEmptyKey = errors.New("viewstate: empty session key")

// State is the listing state of one session.
type State struct {
	Draft       filters.Input  `json:"draft"`
	Active      filters.Active `json:"active"`
	Events      []remote.Event `json:"events"`
	Ticket      uint64         `json:"ticket"`
	RefreshedAt time.Time      `json:"refreshed_at"`
}

type Store interface {
	// Load returns the state of a session, or a zero State when none exists.
	Load(ctx context.Context, key string) (State, error)
	// SaveDraft replaces the filter panel draft only.
	SaveDraft(ctx context.Context, key string, draft filters.Input) error
	// SaveFilters replaces draft and active filter together and supersedes
	// every listing ticket issued so far.
	SaveFilters(ctx context.Context, key string, draft filters.Input, active filters.Active) error
	// Begin issues a new listing ticket, superseding all earlier ones.
	Begin(ctx context.Context, key string) (uint64, error)
	// Commit stores events when ticket is still the latest issued and
	// reports whether it did.
	Commit(ctx context.Context, key string, ticket uint64, events []remote.Event) (bool, error)
	// Clear drops everything stored for the session.
	Clear(ctx context.Context, key string) error
}
