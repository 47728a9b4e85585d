package filters

import (
	"net/url"
	"strings"
)

// Wire names of the search parameters understood by the events API.
const (
	ParamSearchTerm = "q"
	ParamStartDate  = "startDate"
	ParamEndDate    = "endDate"
	ParamMinPrice   = "minPrice"
	ParamMaxPrice   = "maxPrice"
)

// Form field names used by the filter panel. Times are posted separately
// from their dates and merged by Normalize.
const (
	FieldSearchTerm = "searchTerm"
	FieldStartDate  = "startDate"
	FieldStartTime  = "startTime"
	FieldEndDate    = "endDate"
	FieldEndTime    = "endTime"
	FieldMinPrice   = "minPrice"
	FieldMaxPrice   = "maxPrice"
)

const (
	dateLayout      = "2006-01-02"
	clockLayout     = "15:04"
	timestampLayout = dateLayout + "T" + clockLayout

	// EndOfDay is the time an end date without explicit time is pinned to.
	EndOfDay = "23:59"
)

// Input is the raw state of the filter panel. Every field is optional.
// SearchTerm is nil until the user has touched the search box; a non-nil
// empty string is an explicit "no text" and is still forwarded.
type Input struct {
	SearchTerm *string `json:"search_term,omitempty"`
	StartDate  string  `json:"start_date,omitempty"`
	StartTime  string  `json:"start_time,omitempty"`
	EndDate    string  `json:"end_date,omitempty"`
	EndTime    string  `json:"end_time,omitempty"`
	MinPrice   string  `json:"min_price,omitempty"`
	MaxPrice   string  `json:"max_price,omitempty"`
}

// Active is the normalized filter currently driving the listing.
// Start and End are either a bare date or a date with minutes precision.
type Active struct {
	SearchTerm *string `json:"search_term,omitempty"`
	Start      string  `json:"start,omitempty"`
	End        string  `json:"end,omitempty"`
	MinPrice   string  `json:"min_price,omitempty"`
	MaxPrice   string  `json:"max_price,omitempty"`
}

// Term returns the search term or "" when it was never set.
func (in Input) Term() string {
	if in.SearchTerm == nil {
		return ""
	}
	return *in.SearchTerm
}

// Term returns the search term or "" when it was never set.
func (a Active) Term() string {
	if a.SearchTerm == nil {
		return ""
	}
	return *a.SearchTerm
}

// Input splits the combined boundaries back into panel fields.
func (a Active) Input() Input {
	startDate, startTime := splitTimestamp(a.Start)
	endDate, endTime := splitTimestamp(a.End)
	return Input{
		SearchTerm: cloneTerm(a.SearchTerm),
		StartDate:  startDate,
		StartTime:  startTime,
		EndDate:    endDate,
		EndTime:    endTime,
		MinPrice:   a.MinPrice,
		MaxPrice:   a.MaxPrice,
	}
}

// Values renders the input the way the filter panel posts it, for
// redisplaying the panel.
func (in Input) Values() url.Values {
	v := url.Values{}
	if in.SearchTerm != nil {
		v.Set(FieldSearchTerm, *in.SearchTerm)
	}
	setIf(v, FieldStartDate, in.StartDate)
	setIf(v, FieldStartTime, in.StartTime)
	setIf(v, FieldEndDate, in.EndDate)
	setIf(v, FieldEndTime, in.EndTime)
	setIf(v, FieldMinPrice, in.MinPrice)
	setIf(v, FieldMaxPrice, in.MaxPrice)
	return v
}

// Term returns a pointer to s, for building inputs in code.
func Term(s string) *string {
	return &s
}

func splitTimestamp(ts string) (date, clock string) {
	if ts == "" {
		return "", ""
	}
	date, clock, _ = strings.Cut(ts, "T")
	return date, clock
}

func cloneTerm(term *string) *string {
	if term == nil {
		return nil
	}
	s := *term
	return &s
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
