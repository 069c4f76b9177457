// Package status tracks where the user stands with each job.
//
// Status values:
//
//	Not Applied ◄──► Applied ◄──► Rejected ◄──► Selected
//
// Every status is reachable from every other, including itself: this is a
// free assignment, not a workflow. Not Applied is the implicit status of any
// job that was never set.
package status

import "fmt"

// Status is one of the closed set of job statuses.
type Status string

const (
	NotApplied Status = "Not Applied"
	Applied    Status = "Applied"
	Rejected   Status = "Rejected"
	Selected   Status = "Selected"
)

// All lists the statuses in display order; the first is the default.
var All = []Status{NotApplied, Applied, Rejected, Selected}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values. Matching is exact.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// Valid reports whether s is a member of the enum.
func (s Status) Valid() bool {
	switch s {
	case NotApplied, Applied, Rejected, Selected:
		return true
	}
	return false
}

// IsProgress reports whether moving to s is recorded in the history log.
// Only Applied, Rejected and Selected are.
func IsProgress(s Status) bool {
	return s == Applied || s == Rejected || s == Selected
}

// Slug is the lower-case identifier used by clients for styling; anything
// that is not a progress status is "neutral".
func Slug(s Status) string {
	switch s {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	case Selected:
		return "selected"
	}
	return "neutral"
}
