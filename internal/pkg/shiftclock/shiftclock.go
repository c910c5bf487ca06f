package shiftclock

import "time"

// Clock resolves wall-clock instants to business days at the venue's fixed
// UTC offset. A shift opened at 23:50 server time in UTC still belongs to the
// venue's calendar day, not the server's.
type Clock struct {
	loc *time.Location
}

func New(utcOffsetMinutes int) Clock {
	return Clock{loc: time.FixedZone("venue", utcOffsetMinutes*60)}
}

// BusinessDay truncates t to the venue's calendar day. The result is a
// midnight-UTC date value, suitable for a DATE column.
func (c Clock) BusinessDay(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current business day.
func (c Clock) Today() time.Time {
	return c.BusinessDay(time.Now())
}

// SameBusinessDay reports whether a and b fall on the same venue calendar day.
func (c Clock) SameBusinessDay(a, b time.Time) bool {
	return c.BusinessDay(a).Equal(c.BusinessDay(b))
}
