package filters

import (
	"net/url"
	"strings"
	"time"
)

// AcceptPrice is the entry guard for the price boxes: an empty or
// non-negative number replaces the field, anything else leaves the
// previous value in place.
func AcceptPrice(previous, entered string) string {
	entered = strings.TrimSpace(entered)
	if entered == "" || validPrice(entered) {
		return entered
	}
	return previous
}

// AcceptDate keeps the previous value when the entry is not a calendar date.
func AcceptDate(previous, entered string) string {
	entered = strings.TrimSpace(entered)
	if entered == "" {
		return ""
	}
	if _, err := time.Parse(dateLayout, entered); err != nil {
		return previous
	}
	return entered
}

// AcceptTime keeps the previous value when the entry is not HH:MM.
func AcceptTime(previous, entered string) string {
	entered = strings.TrimSpace(entered)
	if entered == "" {
		return ""
	}
	if _, err := time.Parse(clockLayout, entered); err != nil {
		return previous
	}
	return entered
}

// ParseForm reads a posted filter panel on top of the previous draft.
// Fields missing from the form keep their previous value; rejected entries
// do too.
func ParseForm(form url.Values, previous Input) Input {
	next := previous
	if values, ok := form[FieldSearchTerm]; ok {
		term := ""
		if len(values) > 0 {
			term = values[0]
		}
		next.SearchTerm = &term
	}
	if values, ok := form[FieldStartDate]; ok {
		next.StartDate = AcceptDate(previous.StartDate, first(values))
	}
	if values, ok := form[FieldStartTime]; ok {
		next.StartTime = AcceptTime(previous.StartTime, first(values))
	}
	if values, ok := form[FieldEndDate]; ok {
		next.EndDate = AcceptDate(previous.EndDate, first(values))
	}
	if values, ok := form[FieldEndTime]; ok {
		next.EndTime = AcceptTime(previous.EndTime, first(values))
	}
	if values, ok := form[FieldMinPrice]; ok {
		next.MinPrice = AcceptPrice(previous.MinPrice, first(values))
	}
	if values, ok := form[FieldMaxPrice]; ok {
		next.MaxPrice = AcceptPrice(previous.MaxPrice, first(values))
	}
	return next
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
