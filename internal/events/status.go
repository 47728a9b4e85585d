package events

import "time"

type Status string

const (
	StatusUpcoming Status = "UPCOMING"
	StatusToday    Status = "TODAY"
	StatusEnded    Status = "ENDED"
)

// StatusOf places an event relative to now. Events with an unreadable date
// count as upcoming.
func StatusOf(e Event, now time.Time) Status {
	at := e.Time()
	if at.IsZero() {
		return StatusUpcoming
	}
	at = at.UTC()
	now = now.UTC()
	switch {
	case sameDay(at, now):
		return StatusToday
	case at.Before(now):
		return StatusEnded
	default:
		return StatusUpcoming
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
