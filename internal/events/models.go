package events

import (
	"fmt"
	"time"

	"eventdesk/internal/filters"
	"eventdesk/internal/remote"
)

// Event is the remote record as shown by this front end.
type Event = remote.Event

// Listing is what the home page and the JSON feed show.
type Listing struct {
	Events      []Event        `json:"events"`
	Draft       filters.Input  `json:"draft"`
	Active      filters.Active `json:"active"`
	Mode        filters.Mode   `json:"mode"`
	Ticket      uint64         `json:"ticket"`
	RefreshedAt time.Time      `json:"refreshed_at"`
}

// Card is the display form of one event.
type Card struct {
	ID          string
	Title       string
	Date        string
	Location    string
	Attendees   string
	Price       string
	Description string
	Status      Status
}

func NewCard(e Event, now time.Time) Card {
	return Card{
		ID:          e.ID,
		Title:       e.Title,
		Date:        FormatDate(e),
		Location:    e.Location,
		Attendees:   FormatCapacity(e.Capacity),
		Price:       FormatPrice(e.TicketPrice),
		Description: e.Description,
		Status:      StatusOf(e, now),
	}
}

func NewCards(events []Event, now time.Time) []Card {
	cards := make([]Card, 0, len(events))
	for _, e := range events {
		cards = append(cards, NewCard(e, now))
	}
	return cards
}

// FormatDate renders the event date as "January 2, 2006", or the raw value
// when it cannot be parsed.
func FormatDate(e Event) string {
	t := e.Time()
	if t.IsZero() {
		return e.Date
	}
	return t.UTC().Format("January 2, 2006")
}

func FormatPrice(price float64) string {
	if price <= 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", price)
}

func FormatCapacity(capacity int) string {
	if capacity == 1 {
		return "1 attendee"
	}
	return fmt.Sprintf("%d attendees", capacity)
}
