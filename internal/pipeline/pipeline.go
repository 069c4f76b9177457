// Package pipeline turns the listing catalog into the ordered list a client
// renders: score, filter, then sort, always on copies.
package pipeline

import (
	"context"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"jobmate/job-tracker/internal/listing"
	"jobmate/job-tracker/internal/match"
	"jobmate/job-tracker/internal/prefs"
	"jobmate/job-tracker/internal/status"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortLatest  SortKey = "latest"
	SortOldest  SortKey = "oldest"
	SortCompany SortKey = "company"
	SortMatch   SortKey = "match"
	SortSalary  SortKey = "salary"
)

// Missing postedDaysAgo sorts last in both directions.
const (
	missingLatest = 999
	missingOldest = -1
)

// Filters are AND-combined; empty fields do not filter.
type Filters struct {
	Keyword    string
	Location   string
	Mode       string
	Experience string
	Source     string
	Status     status.Status
	Sort       SortKey
}

// Options gate results on precomputed match scores.
type Options struct {
	FilterByMatchScore bool
	Preferences        *prefs.Preferences
	MinMatchScore      int
}

// StatusReader resolves a job's status for the status filter.
type StatusReader interface {
	Get(ctx context.Context, id int) status.Status
}

// Pipeline filters and sorts listings.
type Pipeline struct {
	statuses StatusReader
}

// New returns a Pipeline. statuses may be nil when no status filter is used.
func New(statuses StatusReader) *Pipeline {
	return &Pipeline{statuses: statuses}
}

// Scored returns copies of jobs carrying their match score against p.
func Scored(jobs []listing.Job, p *prefs.Preferences) []listing.Job {
	out := make([]listing.Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.WithScore(match.Score(j, p))
	}
	return out
}

// Apply returns the jobs passing f and opts, ordered by f.Sort (default
// latest). The input slice is never modified.
func (p *Pipeline) Apply(ctx context.Context, jobs []listing.Job, f Filters, opts Options) []listing.Job {
	result := make([]listing.Job, 0, len(jobs))
	q := strings.ToLower(f.Keyword)
	for _, j := range jobs {
		if q != "" && !strings.Contains(strings.ToLower(j.Title), q) && !strings.Contains(strings.ToLower(j.Company), q) {
			continue
		}
		if f.Location != "" && j.Location != f.Location {
			continue
		}
		if f.Mode != "" && j.Mode != f.Mode {
			continue
		}
		if f.Experience != "" && j.Experience != f.Experience {
			continue
		}
		if f.Source != "" && j.Source != f.Source {
			continue
		}
		if f.Status != "" && p.statusOf(ctx, j.ID) != f.Status {
			continue
		}
		if opts.FilterByMatchScore && opts.Preferences != nil && j.ScoreOrZero() < opts.MinMatchScore {
			continue
		}
		result = append(result, j)
	}

	sortJobs(result, f.Sort)
	return result
}

func (p *Pipeline) statusOf(ctx context.Context, id int) status.Status {
	if p.statuses == nil {
		return status.NotApplied
	}
	return p.statuses.Get(ctx, id)
}

func sortJobs(jobs []listing.Job, key SortKey) {
	if key == "" {
		key = SortLatest
	}
	switch key {
	case SortLatest:
		sort.SliceStable(jobs, func(a, b int) bool {
			return jobs[a].PostedOr(missingLatest) < jobs[b].PostedOr(missingLatest)
		})
	case SortOldest:
		sort.SliceStable(jobs, func(a, b int) bool {
			return jobs[a].PostedOr(missingOldest) > jobs[b].PostedOr(missingOldest)
		})
	case SortCompany:
		c := collate.New(language.English)
		sort.SliceStable(jobs, func(a, b int) bool {
			return c.CompareString(jobs[a].Company, jobs[b].Company) < 0
		})
	case SortMatch:
		sort.SliceStable(jobs, func(a, b int) bool {
			return jobs[a].ScoreOrZero() > jobs[b].ScoreOrZero()
		})
	case SortSalary:
		sort.SliceStable(jobs, func(a, b int) bool {
			return SalaryNumber(jobs[a].SalaryRange) > SalaryNumber(jobs[b].SalaryRange)
		})
	}
}

var salaryToken = regexp.MustCompile(`[\d.]+`)

// SalaryNumber returns the first decimal token of a free-text salary range,
// e.g. 80 for "$80k-$100k". Text without a parsable number yields 0.
func SalaryNumber(s string) float64 {
	tok := salaryToken.FindString(s)
	if tok == "" {
		return 0
	}
	// Mirror a lenient float parse: "12.5.3" reads as 12.5.
	if i := strings.Index(tok, "."); i >= 0 {
		if j := strings.Index(tok[i+1:], "."); j >= 0 {
			tok = tok[:i+1+j]
		}
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0
	}
	return v
}

// Field names a listing attribute offered as a filter choice.
type Field string

const (
	FieldTitle      Field = "title"
	FieldCompany    Field = "company"
	FieldLocation   Field = "location"
	FieldMode       Field = "mode"
	FieldExperience Field = "experience"
	FieldSource     Field = "source"
)

// UniqueValues returns the distinct non-empty values of field, sorted.
func UniqueValues(jobs []listing.Job, field Field) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, j := range jobs {
		v := fieldValue(j, field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func fieldValue(j listing.Job, field Field) string {
	switch field {
	case FieldTitle:
		return j.Title
	case FieldCompany:
		return j.Company
	case FieldLocation:
		return j.Location
	case FieldMode:
		return j.Mode
	case FieldExperience:
		return j.Experience
	case FieldSource:
		return j.Source
	}
	return ""
}
