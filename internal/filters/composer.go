// Package filters turns the listing filter panel into a validated search
// query and decides which listing call to make.
package filters

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

type Mode string

const (
	ModeListAll Mode = "list_all"
	ModeSearch  Mode = "search"
)

// Plan is the listing request to issue for an active filter.
type Plan struct {
	Mode  Mode
	Query url.Values
}

// Normalize merges dates with their times and validates the result.
//
// A start date without time stays a bare date. An end date without time is
// pinned to EndOfDay. A time without its date is ignored.
func Normalize(in Input) (Active, error) {
	start, startAt, err := combine(in.StartDate, in.StartTime, "", FieldStartDate, FieldStartTime)
	if err != nil {
		return Active{}, err
	}
	end, endAt, err := combine(in.EndDate, in.EndTime, EndOfDay, FieldEndDate, FieldEndTime)
	if err != nil {
		return Active{}, err
	}
	if start != "" && end != "" && endAt.Before(startAt) {
		return Active{}, &ValidationError{Code: InvertedRange, Field: FieldEndDate, Value: end}
	}

	minPrice, err := normalizePrice(FieldMinPrice, in.MinPrice)
	if err != nil {
		return Active{}, err
	}
	maxPrice, err := normalizePrice(FieldMaxPrice, in.MaxPrice)
	if err != nil {
		return Active{}, err
	}

	return Active{
		SearchTerm: cloneTerm(in.SearchTerm),
		Start:      start,
		End:        end,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
	}, nil
}

// HasActiveConstraints reports whether any filter field narrows the listing.
// An explicit empty search term does not count.
func HasActiveConstraints(a Active) bool {
	return a.Term() != "" ||
		a.Start != "" ||
		a.End != "" ||
		a.MinPrice != "" ||
		a.MaxPrice != ""
}

// BuildQuery maps every set field to its search parameter. The search term
// is forwarded whenever it was explicitly given, even when blank.
func BuildQuery(a Active) url.Values {
	q := url.Values{}
	if a.SearchTerm != nil {
		q.Set(ParamSearchTerm, *a.SearchTerm)
	}
	setIf(q, ParamStartDate, a.Start)
	setIf(q, ParamEndDate, a.End)
	setIf(q, ParamMinPrice, a.MinPrice)
	setIf(q, ParamMaxPrice, a.MaxPrice)
	return q
}

// PlanFetch picks "list all" for an unconstrained filter and "search"
// otherwise.
func PlanFetch(a Active) Plan {
	if !HasActiveConstraints(a) {
		return Plan{Mode: ModeListAll}
	}
	return Plan{Mode: ModeSearch, Query: BuildQuery(a)}
}

func combine(date, clock, defaultClock, dateField, clockField string) (string, time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return "", time.Time{}, nil
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", time.Time{}, &ValidationError{Code: MalformedDate, Field: dateField, Value: date}
	}
	if clock == "" {
		clock = defaultClock
	}
	if clock == "" {
		return date, day, nil
	}
	if _, err := time.Parse(clockLayout, clock); err != nil {
		return "", time.Time{}, &ValidationError{Code: MalformedTime, Field: clockField, Value: clock}
	}
	ts := date + "T" + clock
	at, err := time.Parse(timestampLayout, ts)
	if err != nil {
		return "", time.Time{}, &ValidationError{Code: MalformedTime, Field: clockField, Value: clock}
	}
	return ts, at, nil
}

func normalizePrice(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !validPrice(value) {
		return "", &ValidationError{Code: InvalidPrice, Field: field, Value: value}
	}
	return value, nil
}

// pricePattern admits plain non-negative decimals only, so the value is
// forwarded to the API exactly as entered.
var pricePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

func validPrice(value string) bool {
	return pricePattern.MatchString(value)
}
