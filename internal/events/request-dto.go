package events

import (
	"math"
	"strconv"
	"strings"
	"time"

	"eventdesk/internal/remote"

	"github.com/go-playground/validator/v10"
)

// accepted layouts for the date field, browser datetime-local first
var formDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	remote.DateLayout,
}

// EventForm is the create/edit form. Numeric fields stay strings until
// validated so the form can be re-rendered with what the user typed.
type EventForm struct {
	Title       string `form:"title" validate:"required,min=3,max=200"`
	Date        string `form:"date" validate:"required,eventdate"`
	Capacity    string `form:"capacity" validate:"required,capacity"`
	TicketPrice string `form:"ticketPrice" validate:"required,price"`
	Location    string `form:"location" validate:"required,max=200"`
	Description string `form:"description" validate:"required,min=10,max=5000"`
}

func (f *EventForm) Trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Date = strings.TrimSpace(f.Date)
	f.Capacity = strings.TrimSpace(f.Capacity)
	f.TicketPrice = strings.TrimSpace(f.TicketPrice)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
}

// FormData converts a validated form to the API payload. The date is sent
// in UTC at second precision.
func (f EventForm) FormData() (remote.EventFormData, error) {
	at, err := parseFormDate(f.Date)
	if err != nil {
		return remote.EventFormData{}, err
	}
	capacity, err := strconv.Atoi(f.Capacity)
	if err != nil {
		return remote.EventFormData{}, err
	}
	price, err := strconv.ParseFloat(f.TicketPrice, 64)
	if err != nil {
		return remote.EventFormData{}, err
	}
	return remote.EventFormData{
		Title:       f.Title,
		Date:        at.UTC().Format(remote.DateLayout),
		Capacity:    capacity,
		TicketPrice: price,
		Location:    f.Location,
		Description: f.Description,
	}, nil
}

// FormFromEvent pre-fills the edit form from a record.
func FormFromEvent(e Event) EventForm {
	date := e.Date
	if t := e.Time(); !t.IsZero() {
		date = t.UTC().Format("2006-01-02T15:04")
	}
	return EventForm{
		Title:       e.Title,
		Date:        date,
		Capacity:    strconv.Itoa(e.Capacity),
		TicketPrice: strconv.FormatFloat(e.TicketPrice, 'f', -1, 64),
		Location:    e.Location,
		Description: e.Description,
	}
}

func parseFormDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range formDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func validEventDate(fl validator.FieldLevel) bool {
	_, err := parseFormDate(fl.Field().String())
	return err == nil
}

// capacity is a whole number of at least one
func validCapacity(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n >= 1
}

// price is a finite, non-negative amount
func validPrice(fl validator.FieldLevel) bool {
	p, err := strconv.ParseFloat(fl.Field().String(), 64)
	return err == nil && p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// RegisterValidations adds the event form rules to v.
func RegisterValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"eventdate": validEventDate,
		"capacity":  validCapacity,
		"price":     validPrice,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
