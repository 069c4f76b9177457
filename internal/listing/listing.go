// Package listing holds the read-only job listing catalog the tracker scores,
// filters and digests. Listings are supplied by a data source this service
// does not own; they are never mutated after loading.
package listing

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Job is one listing. MatchScore is transient: it is filled by scoring
// consumers on copies and never loaded from a data source.
type Job struct {
	ID            int      `json:"id" yaml:"id" validate:"gt=0"`
	Title         string   `json:"title" yaml:"title" validate:"required"`
	Company       string   `json:"company" yaml:"company" validate:"required"`
	Location      string   `json:"location" yaml:"location"`
	Mode          string   `json:"mode" yaml:"mode"`
	Experience    string   `json:"experience" yaml:"experience"`
	SalaryRange   string   `json:"salaryRange" yaml:"salaryRange"`
	Skills        []string `json:"skills" yaml:"skills"`
	Description   string   `json:"description" yaml:"description"`
	Source        string   `json:"source" yaml:"source"`
	PostedDaysAgo *int     `json:"postedDaysAgo,omitempty" yaml:"postedDaysAgo" validate:"omitempty,gte=0"`
	ApplyURL      string   `json:"applyUrl" yaml:"applyUrl"`
	MatchScore    *int     `json:"_matchScore,omitempty" yaml:"-"`
}

// PostedOr returns PostedDaysAgo, or fallback when it is missing.
func (j Job) PostedOr(fallback int) int {
	if j.PostedDaysAgo == nil {
		return fallback
	}
	return *j.PostedDaysAgo
}

// ScoreOrZero returns MatchScore, or 0 when it has not been computed.
func (j Job) ScoreOrZero() int {
	if j.MatchScore == nil {
		return 0
	}
	return *j.MatchScore
}

// WithScore returns a copy of j carrying score.
func (j Job) WithScore(score int) Job {
	j.MatchScore = &score
	return j
}

// Catalog is an immutable, id-indexed set of listings.
type Catalog struct {
	jobs []Job
	byID map[int]int
}

var validate = validator.New()

// NewCatalog validates jobs and indexes them by id. Duplicate ids are an
// error since the id is the join key for all per-job state.
func NewCatalog(jobs []Job) (*Catalog, error) {
	c := &Catalog{
		jobs: make([]Job, 0, len(jobs)),
		byID: make(map[int]int, len(jobs)),
	}
	for i, j := range jobs {
		if err := validate.Struct(j); err != nil {
			return nil, fmt.Errorf("listing #%d (id %d): %w", i, j.ID, err)
		}
		if _, dup := c.byID[j.ID]; dup {
			return nil, fmt.Errorf("listing #%d: duplicate id %d", i, j.ID)
		}
		j.MatchScore = nil
		c.byID[j.ID] = len(c.jobs)
		c.jobs = append(c.jobs, j)
	}
	return c, nil
}

// All returns a copy of every listing in load order.
func (c *Catalog) All() []Job {
	out := make([]Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// Len is the number of listings.
func (c *Catalog) Len() int { return len(c.jobs) }

// Lookup returns the listing with the given id.
func (c *Catalog) Lookup(id int) (Job, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Job{}, false
	}
	return c.jobs[i], true
}
