package filters

import "fmt"

type ValidationCode string

const (
	InvertedRange ValidationCode = "inverted_range"
	MalformedDate ValidationCode = "malformed_date"
	MalformedTime ValidationCode = "malformed_time"
	InvalidPrice  ValidationCode = "invalid_price"
)

// ValidationError is returned by Normalize when the input cannot become an
// active filter. The previous active filter stays in effect.
type ValidationError struct {
	Code  ValidationCode
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case InvertedRange:
		return "end date must not be before start date"
	case MalformedDate:
		return fmt.Sprintf("%s %q is not a valid date", e.Field, e.Value)
	case MalformedTime:
		return fmt.Sprintf("%s %q is not a valid time", e.Field, e.Value)
	case InvalidPrice:
		return fmt.Sprintf("%s %q is not a valid price", e.Field, e.Value)
	default:
		return "invalid filter"
	}
}

// Is lets errors.Is match on the code alone.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Field == "" || t.Field == e.Field)
}

// ErrInvertedRange matches any inverted date range failure.
var ErrInvertedRange = &ValidationError{Code: InvertedRange}
