// Package digest builds, stores and renders the daily top-10 list of the
// listings that best match the user's preferences.
package digest

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"jobmate/job-tracker/internal/clock"
	"jobmate/job-tracker/internal/listing"
	"jobmate/job-tracker/internal/match"
	"jobmate/job-tracker/internal/prefs"
	"jobmate/job-tracker/internal/store"
)

// Size is the maximum number of jobs in one digest.
const Size = 10

const missingPosted = 999

// Entry is the stored projection of a digest job.
type Entry struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	Experience string `json:"experience"`
	MatchScore int    `json:"_matchScore"`
	ApplyURL   string `json:"applyUrl"`
}

// Source supplies the listings a digest is drawn from.
type Source interface {
	All() []listing.Job
}

// Generator owns the digest records for every date.
type Generator struct {
	jobs  Source
	st    store.Store
	clock clock.Clock
}

func NewGenerator(jobs Source, st store.Store, clk clock.Clock) *Generator {
	if clk == nil {
		clk = clock.System{}
	}
	return &Generator{jobs: jobs, st: st, clock: clk}
}

// Today returns the local date key of the injected clock.
func (g *Generator) Today(context.Context) string {
	return clock.DateKey(g.clock.Now())
}

// Generate scores every listing against p and returns the best Size of them,
// highest score first and most recent first among equal scores. A nil p
// yields no jobs.
func (g *Generator) Generate(_ context.Context, p *prefs.Preferences) []listing.Job {
	if p == nil || g.jobs == nil {
		return []listing.Job{}
	}

	all := g.jobs.All()
	scored := make([]listing.Job, len(all))
	for i, j := range all {
		scored[i] = j.WithScore(match.Score(j, p))
	}
	sort.SliceStable(scored, func(a, b int) bool {
		sa, sb := scored[a].ScoreOrZero(), scored[b].ScoreOrZero()
		if sa != sb {
			return sa > sb
		}
		return scored[a].PostedOr(missingPosted) < scored[b].PostedOr(missingPosted)
	})
	if len(scored) > Size {
		scored = scored[:Size]
	}
	return scored
}

// Project reduces jobs to the fields kept in a stored digest.
func Project(jobs []listing.Job) []Entry {
	out := make([]Entry, len(jobs))
	for i, j := range jobs {
		out[i] = Entry{
			ID:         j.ID,
			Title:      j.Title,
			Company:    j.Company,
			Location:   j.Location,
			Experience: j.Experience,
			MatchScore: j.ScoreOrZero(),
			ApplyURL:   j.ApplyURL,
		}
	}
	return out
}

// Save overwrites the digest for date. It reports false when the store
// rejects the write.
func (g *Generator) Save(ctx context.Context, date string, jobs []listing.Job) bool {
	if err := store.SetJSON(ctx, g.st, store.DigestKey(date), Project(jobs)); err != nil {
		slog.Warn("digest: save failed", "date", date, "err", err)
		return false
	}
	return true
}

// Load returns the stored digest for date. Missing, null and unreadable
// records report false; a stored empty list is a valid, empty digest.
func (g *Generator) Load(ctx context.Context, date string) ([]Entry, bool) {
	var entries []Entry
	found, err := store.GetJSON(ctx, g.st, store.DigestKey(date), &entries)
	if err != nil {
		var de *store.DecodeError
		if errors.As(err, &de) {
			slog.Warn("digest: stored record unreadable", "date", date, "err", err)
		} else {
			slog.Warn("digest: load failed", "date", date, "err", err)
		}
		return nil, false
	}
	if !found || entries == nil {
		return nil, false
	}
	return entries, true
}

// EnsureToday returns today's digest, generating and saving it first when
// none is stored. created reports whether a new digest was written. Without
// preferences nothing is generated.
func (g *Generator) EnsureToday(ctx context.Context, p *prefs.Preferences) (entries []Entry, created bool) {
	date := g.Today(ctx)
	if entries, ok := g.Load(ctx, date); ok {
		return entries, false
	}
	if p == nil {
		return nil, false
	}
	jobs := g.Generate(ctx, p)
	if !g.Save(ctx, date, jobs) {
		return Project(jobs), false
	}
	return Project(jobs), true
}

// FormatPlainText renders entries as the shareable text digest.
func FormatPlainText(entries []Entry, date string) string {
	lines := []string{
		"Top 10 Jobs For You — 9AM Digest",
		date,
		"",
		"---",
		"",
	}
	for i, e := range entries {
		lines = append(lines,
			strconv.Itoa(i+1)+". "+e.Title+" — "+e.Company,
			"   Location: "+e.Location+" | Experience: "+e.Experience+" | Match: "+strconv.Itoa(e.MatchScore)+"%",
			"   Apply: "+e.ApplyURL,
			"",
		)
	}
	lines = append(lines, "---", "This digest was generated based on your preferences.")
	return strings.Join(lines, "\n")
}
