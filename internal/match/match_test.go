package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobmate/job-tracker/internal/listing"
	"jobmate/job-tracker/internal/match"
	"jobmate/job-tracker/internal/prefs"
)

func days(n int) *int { return &n }

func perfectJob() listing.Job {
	return listing.Job{
		ID:            1,
		Title:         "Senior Go Developer",
		Company:       "Acme",
		Location:      "Bangalore",
		Mode:          "Remote",
		Experience:    "3-5",
		Skills:        []string{"Go", "Kubernetes"},
		Description:   "Build backend services in Go.",
		Source:        "LinkedIn",
		PostedDaysAgo: days(1),
	}
}

func perfectPrefs() *prefs.Preferences {
	return &prefs.Preferences{
		RoleKeywords:       "developer, backend",
		PreferredLocations: []string{"Bangalore", "Pune"},
		PreferredMode:      []string{"Remote"},
		ExperienceLevel:    "3-5",
		Skills:             "kubernetes, docker",
		MinMatchScore:      40,
	}
}

func TestScore_NilPreferences(t *testing.T) {
	assert.Equal(t, 0, match.Score(perfectJob(), nil))
}

func TestScore_AllFactorsIsExactlyHundred(t *testing.T) {
	assert.Equal(t, 100, match.Score(perfectJob(), perfectPrefs()))
}

func TestScore_Deterministic(t *testing.T) {
	j, p := perfectJob(), perfectPrefs()
	p.Skills = ""
	first := match.Score(j, p)
	assert.Equal(t, first, match.Score(j, p))
	assert.Equal(t, 85, first)
}

func TestScore_IndividualFactors(t *testing.T) {
	base := listing.Job{ID: 1, Title: "Analyst", Company: "X", Description: "numbers", Source: "Indeed"}

	cases := []struct {
		name string
		job  func(listing.Job) listing.Job
		p    prefs.Preferences
		want int
	}{
		{"keyword in title only", func(j listing.Job) listing.Job { j.Title = "Data Analyst"; return j },
			prefs.Preferences{RoleKeywords: "DATA"}, 25},
		{"keyword in description only", func(j listing.Job) listing.Job { j.Description = "data pipelines"; return j },
			prefs.Preferences{RoleKeywords: "data"}, 15},
		{"several keywords count once", func(j listing.Job) listing.Job { j.Title = "data platform analyst"; return j },
			prefs.Preferences{RoleKeywords: "data, platform, analyst"}, 25},
		{"location exact", func(j listing.Job) listing.Job { j.Location = "Pune"; return j },
			prefs.Preferences{PreferredLocations: []string{"Pune"}}, 15},
		{"location case differs", func(j listing.Job) listing.Job { j.Location = "pune"; return j },
			prefs.Preferences{PreferredLocations: []string{"Pune"}}, 0},
		{"mode", func(j listing.Job) listing.Job { j.Mode = "Hybrid"; return j },
			prefs.Preferences{PreferredMode: []string{"Hybrid", "Onsite"}}, 10},
		{"experience", func(j listing.Job) listing.Job { j.Experience = "Fresher"; return j },
			prefs.Preferences{ExperienceLevel: "Fresher"}, 10},
		{"skill case-insensitive", func(j listing.Job) listing.Job { j.Skills = []string{"SQL"}; return j },
			prefs.Preferences{Skills: "sql"}, 15},
		{"skill is not substring", func(j listing.Job) listing.Job { j.Skills = []string{"PostgreSQL"}; return j },
			prefs.Preferences{Skills: "sql"}, 0},
		{"posted two days ago", func(j listing.Job) listing.Job { j.PostedDaysAgo = days(2); return j },
			prefs.Preferences{}, 5},
		{"posted three days ago", func(j listing.Job) listing.Job { j.PostedDaysAgo = days(3); return j },
			prefs.Preferences{}, 0},
		{"posted missing", func(j listing.Job) listing.Job { return j },
			prefs.Preferences{}, 0},
		{"linkedin source", func(j listing.Job) listing.Job { j.Source = "LinkedIn"; return j },
			prefs.Preferences{}, 5},
		{"empty keyword tokens ignored", func(j listing.Job) listing.Job { return j },
			prefs.Preferences{RoleKeywords: " , ,"}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := c.p
			assert.Equal(t, c.want, match.Score(c.job(base), &p))
		})
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	p := perfectPrefs()
	for _, j := range []listing.Job{{}, perfectJob(), {Title: "developer developer", Description: "developer"}} {
		s := match.Score(j, p)
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
}

func TestBand(t *testing.T) {
	assert.Equal(t, "high", match.Band(80))
	assert.Equal(t, "medium", match.Band(79))
	assert.Equal(t, "medium", match.Band(60))
	assert.Equal(t, "neutral", match.Band(40))
	assert.Equal(t, "low", match.Band(39))
}
