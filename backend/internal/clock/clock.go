// Package clock supplies the wall-clock used for task deadlines.
//
// Due dates are stored as naive local timestamps, so "now" is UTC shifted by a
// configured offset rather than the host's zone.
package clock

import "time"

// DefaultOffset is the local-time bias applied when none is configured.
const DefaultOffset = 7 * time.Hour

type Clock interface {
	Now() time.Time
}

type OffsetClock struct {
	offset time.Duration
	source func() time.Time
}

func New(offset time.Duration) *OffsetClock {
	return &OffsetClock{offset: offset, source: time.Now}
}

func (c *OffsetClock) Now() time.Time {
	return c.source().UTC().Add(c.offset)
}

func (c *OffsetClock) Offset() time.Duration {
	return c.offset
}

// Wall keeps t's wall-clock reading and drops its zone, the form a naive
// TIMESTAMP column returns. A deadline sent as 15:00+07:00 is stored and
// reported as 15:00 UTC.
func Wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
