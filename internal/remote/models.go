package remote

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format of event dates: second precision, UTC.
const DateLayout = "2006-01-02T15:04:05Z"

// Event is a read copy of a server-owned event record.
type Event struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	Capacity    int     `json:"capacity"`
	TicketPrice float64 `json:"ticketPrice"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
}

// UnmarshalJSON accepts both "_id" and "id" as the identity field.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var aux struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = Event(aux.plain)
	if e.ID == "" {
		e.ID = aux.AltID
	}
	return nil
}

// Time parses the event date. Records with unparsable dates yield the zero time.
func (e Event) Time() time.Time {
	for _, layout := range []string{time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormData returns the editable fields of the record.
func (e Event) FormData() EventFormData {
	return EventFormData{
		Title:       e.Title,
		Date:        e.Date,
		Capacity:    e.Capacity,
		TicketPrice: e.TicketPrice,
		Location:    e.Location,
		Description: e.Description,
	}
}

// EventFormData is the body of create and update calls.
type EventFormData struct {
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	Capacity    int     `json:"capacity"`
	TicketPrice float64 `json:"ticketPrice"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
}

// User is the account profile.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	User User `json:"user"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Errors  []struct {
		Msg string `json:"msg"`
	} `json:"errors"`
}

func (b errorBody) detail() string {
	for _, e := range b.Errors {
		if e.Msg != "" {
			return e.Msg
		}
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
