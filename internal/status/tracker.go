package status

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"jobmate/job-tracker/internal/clock"
	"jobmate/job-tracker/internal/events"
	"jobmate/job-tracker/internal/listing"
	"jobmate/job-tracker/internal/store"
)

// HistoryLimit is the number of history entries kept, newest first.
const HistoryLimit = 50

// JobInfo is the display data recorded with a history entry.
type JobInfo struct {
	Title   string
	Company string
}

// Lookup resolves a job id against the listing catalog.
type Lookup func(id int) (listing.Job, bool)

// Entry is one recorded move into a progress status.
type Entry struct {
	JobID       int    `json:"jobId"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Status      Status `json:"status"`
	DateChanged string `json:"dateChanged"`
}

// Tracker stores the status map and the history log.
type Tracker struct {
	st     store.Store
	lookup Lookup
	clock  clock.Clock
	pub    events.Publisher
}

// NewTracker returns a Tracker. lookup may be nil when no catalog is
// available; pub may be nil to disable events.
func NewTracker(st store.Store, lookup Lookup, clk clock.Clock, pub events.Publisher) *Tracker {
	if lookup == nil {
		lookup = func(int) (listing.Job, bool) { return listing.Job{}, false }
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Tracker{st: st, lookup: lookup, clock: clk, pub: pub}
}

// Get returns the status of job id. Unset, unreadable and unknown values all
// read as NotApplied.
func (t *Tracker) Get(ctx context.Context, id int) Status {
	m, err := t.loadMap(ctx)
	if err != nil {
		slog.Warn("read status map failed", "jobId", id, "err", err)
		return NotApplied
	}
	return statusOf(m, id)
}

// Statuses returns the status of every job that has an entry.
func (t *Tracker) Statuses(ctx context.Context) map[int]Status {
	out := make(map[int]Status)
	m, err := t.loadMap(ctx)
	if err != nil {
		slog.Warn("read status map failed", "err", err)
		return out
	}
	for k := range m {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[id] = statusOf(m, id)
	}
	return out
}

// Set records s for job id. Moves into a progress status prepend a history
// entry; info supplies its title and company, falling back to the catalog.
// It reports false when the store failed, never an error.
func (t *Tracker) Set(ctx context.Context, id int, s Status, info *JobInfo) bool {
	m, err := t.loadMap(ctx)
	var de *store.DecodeError
	switch {
	case errors.As(err, &de):
		slog.Warn("status map corrupt, replacing on write", "err", err)
		m = make(map[string]any)
	case err != nil:
		slog.Warn("read status map failed", "jobId", id, "err", err)
		return false
	}
	from := statusOf(m, id)

	m[strconv.Itoa(id)] = string(s)
	if err := store.SetJSON(ctx, t.st, store.KeyStatus, m); err != nil {
		slog.Warn("write status map failed", "jobId", id, "err", err)
		return false
	}

	now := t.clock.Now()
	if IsProgress(s) {
		title, company := t.resolve(id, info)
		history := append([]Entry{{
			JobID:       id,
			Title:       title,
			Company:     company,
			Status:      s,
			DateChanged: clock.ISO(now),
		}}, t.History(ctx)...)
		if len(history) > HistoryLimit {
			history = history[:HistoryLimit]
		}
		if err := store.SetJSON(ctx, t.st, store.KeyStatusHistory, history); err != nil {
			slog.Warn("write status history failed", "jobId", id, "err", err)
			return false
		}
	}

	t.publish(ctx, id, from, s, now)
	return true
}

// History returns the recorded entries, newest first. It is empty when
// nothing was recorded or the log cannot be read.
func (t *Tracker) History(ctx context.Context) []Entry {
	var history []Entry
	found, err := store.GetJSON(ctx, t.st, store.KeyStatusHistory, &history)
	if err != nil {
		slog.Warn("read status history failed", "err", err)
		return []Entry{}
	}
	if !found || history == nil {
		return []Entry{}
	}
	return history
}

func (t *Tracker) loadMap(ctx context.Context) (map[string]any, error) {
	m := make(map[string]any)
	found, err := store.GetJSON(ctx, t.st, store.KeyStatus, &m)
	if err != nil {
		return nil, err
	}
	if !found || m == nil {
		return make(map[string]any), nil
	}
	return m, nil
}

func (t *Tracker) resolve(id int, info *JobInfo) (title, company string) {
	if info != nil {
		title, company = info.Title, info.Company
	}
	if title != "" && company != "" {
		return title, company
	}
	if j, ok := t.lookup(id); ok {
		if title == "" {
			title = j.Title
		}
		if company == "" {
			company = j.Company
		}
	}
	return title, company
}

func (t *Tracker) publish(ctx context.Context, id int, from, to Status, at time.Time) {
	event := map[string]any{
		"type":  events.TypeStatusChanged,
		"jobId": id,
		"from":  string(from),
		"to":    string(to),
		"at":    clock.ISO(at),
	}
	if err := t.pub.Publish(ctx, events.ChannelStatusChanged, event); err != nil {
		slog.Warn("publish status change failed", "jobId", id, "err", err)
	}
}

func statusOf(m map[string]any, id int) Status {
	raw, ok := m[strconv.Itoa(id)].(string)
	if !ok {
		return NotApplied
	}
	if s := Status(raw); s.Valid() {
		return s
	}
	return NotApplied
}
