// Package clock abstracts wall-clock reads so that history timestamps and
// digest date keys can be pinned in tests.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System reads the host clock in the local timezone.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now() }

// Fixed always returns T.
type Fixed struct{ T time.Time }

// Now implements Clock.
func (f Fixed) Now() time.Time { return f.T }

// Func adapts a plain function to Clock.
type Func func() time.Time

// Now implements Clock.
func (f Func) Now() time.Time { return f() }

// DateKey formats t as a local calendar day, YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ISO formats t the way history entries store it: UTC with milliseconds.
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
