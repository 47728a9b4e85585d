package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventdesk/internal/activity"
	"eventdesk/internal/filters"
	"eventdesk/internal/remote"
	"eventdesk/internal/viewstate"
	"eventdesk/pkg/logger"
)

var (
	// ErrStaleListing is returned when a newer listing request was issued
	// while this one was in flight. The returned Listing holds the latest
	// committed collection instead.
	ErrStaleListing = errors.New("listing superseded by a newer request")
	ErrEventNotFound = errors.New("event not found")
	ErrMissingID     = errors.New("event id is required")
)

// Actor identifies who performs a mutation, for logs and the activity stream.
type Actor struct {
	Token     string
	UserID    string
	RequestID string
}

type Service interface {
	SetPublisher(publisher activity.Publisher)

	// Filters
	State(ctx context.Context, sessionKey string) (viewstate.State, error)
	SaveDraft(ctx context.Context, sessionKey string, draft filters.Input) error
	ApplyFilters(ctx context.Context, sessionKey string, draft filters.Input) (filters.Active, error)
	ResetFilters(ctx context.Context, sessionKey string) error
	ClearSession(ctx context.Context, sessionKey string) error

	// Listing
	Refresh(ctx context.Context, sessionKey, token string) (*Listing, error)

	// Records
	GetEvent(ctx context.Context, token, id string) (*Event, error)
	CreateEvent(ctx context.Context, actor Actor, form EventForm) (*Event, error)
	UpdateEvent(ctx context.Context, actor Actor, id string, form EventForm) (*Event, error)
	DeleteEvent(ctx context.Context, actor Actor, id string) error
}

type service struct {
	repo      Repository
	store     viewstate.Store
	publisher activity.Publisher
	log       *logger.Logger
}

func NewService(repo Repository, store viewstate.Store) Service {
	return &service{
		repo:      repo,
		store:     store,
		publisher: activity.NopPublisher{},
		log:       logger.GetDefault(),
	}
}

func (s *service) SetPublisher(publisher activity.Publisher) {
	if publisher != nil {
		s.publisher = publisher
	}
}

func (s *service) State(ctx context.Context, sessionKey string) (viewstate.State, error) {
	return s.store.Load(ctx, sessionKey)
}

func (s *service) SaveDraft(ctx context.Context, sessionKey string, draft filters.Input) error {
	return s.store.SaveDraft(ctx, sessionKey, draft)
}

// ApplyFilters normalizes draft into the active filter. On a validation
// error only the draft is kept and the previous active filter stays.
func (s *service) ApplyFilters(ctx context.Context, sessionKey string, draft filters.Input) (filters.Active, error) {
	active, err := filters.Normalize(draft)
	if err != nil {
		if saveErr := s.store.SaveDraft(ctx, sessionKey, draft); saveErr != nil {
			return filters.Active{}, fmt.Errorf("save draft: %w", saveErr)
		}
		return filters.Active{}, err
	}
	if err := s.store.SaveFilters(ctx, sessionKey, draft, active); err != nil {
		return filters.Active{}, fmt.Errorf("save filters: %w", err)
	}
	return active, nil
}

func (s *service) ResetFilters(ctx context.Context, sessionKey string) error {
	return s.store.SaveFilters(ctx, sessionKey, filters.Input{}, filters.Active{})
}

func (s *service) ClearSession(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return nil
	}
	return s.store.Clear(ctx, sessionKey)
}

// Refresh fetches the listing for the session's active filter. Results are
// committed only while the request's ticket is the latest issued; a
// superseded request returns the latest committed listing and
// ErrStaleListing. A failed fetch empties the collection and returns the
// remote error.
func (s *service) Refresh(ctx context.Context, sessionKey, token string) (*Listing, error) {
	// ticket before filter: a filter saved in between supersedes this request
	ticket, err := s.store.Begin(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("begin listing: %w", err)
	}
	state, err := s.store.Load(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load view state: %w", err)
	}

	plan := filters.PlanFetch(state.Active)
	events, fetchErr := s.fetch(ctx, token, plan)
	if fetchErr != nil {
		if remote.IsAuth(fetchErr) {
			return nil, fetchErr
		}
		events = nil
	}

	committed, err := s.store.Commit(ctx, sessionKey, ticket, events)
	if err != nil {
		return nil, fmt.Errorf("commit listing: %w", err)
	}
	if !committed {
		s.log.LogListingSuperseded(ctx, ticket)
		latest, err := s.store.Load(ctx, sessionKey)
		if err != nil {
			return nil, fmt.Errorf("load view state: %w", err)
		}
		return listingFrom(latest, plan.Mode), ErrStaleListing
	}

	listing := &Listing{
		Events:      nonNil(events),
		Draft:       state.Draft,
		Active:      state.Active,
		Mode:        plan.Mode,
		Ticket:      ticket,
		RefreshedAt: time.Now().UTC(),
	}
	return listing, fetchErr
}

func (s *service) fetch(ctx context.Context, token string, plan filters.Plan) ([]Event, error) {
	start := time.Now()
	var (
		events []Event
		err    error
		op     = "events.list"
	)
	if plan.Mode == filters.ModeSearch {
		op = "events.search"
		events, err = s.repo.SearchEvents(ctx, token, plan.Query)
	} else {
		events, err = s.repo.ListEvents(ctx, token)
	}
	s.log.LogRemoteCall(ctx, op, time.Since(start), err)
	return events, err
}

func listingFrom(st viewstate.State, mode filters.Mode) *Listing {
	return &Listing{
		Events:      nonNil(st.Events),
		Draft:       st.Draft,
		Active:      st.Active,
		Mode:        mode,
		Ticket:      st.Ticket,
		RefreshedAt: st.RefreshedAt,
	}
}

func (s *service) GetEvent(ctx context.Context, token, id string) (*Event, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	event, err := s.repo.GetEvent(ctx, token, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return event, nil
}

func (s *service) CreateEvent(ctx context.Context, actor Actor, form EventForm) (*Event, error) {
	data, err := form.FormData()
	if err != nil {
		return nil, fmt.Errorf("invalid event form: %w", err)
	}

	event, err := s.repo.CreateEvent(ctx, actor.Token, data)
	if err != nil {
		return nil, err
	}

	s.log.WithRequestID(actor.RequestID).LogEventMutation(ctx, "Created", event.ID, actor.UserID)
	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypeEventCreated, actor.UserID, event.ID).
		WithRequestID(actor.RequestID).
		WithDetail("title", data.Title))
	return event, nil
}

func (s *service) UpdateEvent(ctx context.Context, actor Actor, id string, form EventForm) (*Event, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	data, err := form.FormData()
	if err != nil {
		return nil, fmt.Errorf("invalid event form: %w", err)
	}

	event, err := s.repo.UpdateEvent(ctx, actor.Token, id, data)
	if err != nil {
		return nil, mapNotFound(err)
	}

	s.log.WithRequestID(actor.RequestID).LogEventMutation(ctx, "Updated", id, actor.UserID)
	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypeEventUpdated, actor.UserID, id).
		WithRequestID(actor.RequestID).
		WithDetail("title", data.Title))
	return event, nil
}

func (s *service) DeleteEvent(ctx context.Context, actor Actor, id string) error {
	if id == "" {
		return ErrMissingID
	}
	if err := s.repo.DeleteEvent(ctx, actor.Token, id); err != nil {
		return mapNotFound(err)
	}

	s.log.WithRequestID(actor.RequestID).LogEventMutation(ctx, "Deleted", id, actor.UserID)
	activity.Emit(ctx, s.publisher, activity.NewRecord(activity.TypeEventDeleted, actor.UserID, id).
		WithRequestID(actor.RequestID))
	return nil
}

// mapNotFound keeps the remote error in the chain so callers can still
// inspect its kind.
func mapNotFound(err error) error {
	if remote.KindOf(err) == remote.KindNotFound {
		return fmt.Errorf("%w: %w", ErrEventNotFound, err)
	}
	return err
}

func nonNil(events []Event) []Event {
	if events == nil {
		return []Event{}
	}
	return events
}
