package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeEventCreated   Type = "EVENT_CREATED"
	TypeEventUpdated   Type = "EVENT_UPDATED"
	TypeEventDeleted   Type = "EVENT_DELETED"
	TypeLogin          Type = "LOGIN"
	TypeRegistered     Type = "REGISTERED"
	TypeLogout         Type = "LOGOUT"
	TypeAccountUpdated Type = "ACCOUNT_UPDATED"
	TypeAccountDeleted Type = "ACCOUNT_DELETED"
	TypePresetSaved    Type = "PRESET_SAVED"
	TypePresetDeleted  Type = "PRESET_DELETED"
)

// Record is one audit entry of something a user did through the front end.
type Record struct {
	ID         uuid.UUID         `json:"id"`
	Type       Type              `json:"type"`
	Actor      string            `json:"actor,omitempty"` // token subject or email
	Subject    string            `json:"subject,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewRecord(t Type, actor, subject string) *Record {
	return &Record{
		ID:         uuid.New(),
		Type:       t,
		Actor:      actor,
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
	}
}

// WithDetail adds a key/value pair and returns the record for chaining.
func (r *Record) WithDetail(key, value string) *Record {
	if r.Details == nil {
		r.Details = make(map[string]string)
	}
	r.Details[key] = value
	return r
}

func (r *Record) WithRequestID(id string) *Record {
	r.RequestID = id
	return r
}

// PartitionKey keeps one actor's records ordered.
func (r *Record) PartitionKey() string {
	if r.Actor != "" {
		return r.Actor
	}
	return r.ID.String()
}

func (r *Record) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
