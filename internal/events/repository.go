package events

import (
	"context"
	"net/url"

	"eventdesk/internal/remote"
)

// Repository is the events API as this package uses it. *remote.Client
// satisfies it.
type Repository interface {
	ListEvents(ctx context.Context, token string) ([]remote.Event, error)
	SearchEvents(ctx context.Context, token string, query url.Values) ([]remote.Event, error)
	GetEvent(ctx context.Context, token, id string) (*remote.Event, error)
	CreateEvent(ctx context.Context, token string, data remote.EventFormData) (*remote.Event, error)
	UpdateEvent(ctx context.Context, token, id string, data remote.EventFormData) (*remote.Event, error)
	DeleteEvent(ctx context.Context, token, id string) error
}

var _ Repository = (*remote.Client)(nil)
