package listing_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-tracker/internal/listing"
)

func days(n int) *int { return &n }

func TestNewCatalog_LookupAndAll(t *testing.T) {
	c, err := listing.NewCatalog([]listing.Job{
		{ID: 1, Title: "Go Developer", Company: "Acme"},
		{ID: 2, Title: "SRE", Company: "Initech", PostedDaysAgo: days(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	j, ok := c.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "SRE", j.Title)

	_, ok = c.Lookup(99)
	assert.False(t, ok)

	all := c.All()
	all[0].Title = "mutated"
	j, _ = c.Lookup(1)
	assert.Equal(t, "Go Developer", j.Title, "All must return a copy")
}

func TestNewCatalog_RejectsDuplicateIDs(t *testing.T) {
	_, err := listing.NewCatalog([]listing.Job{
		{ID: 1, Title: "A", Company: "X"},
		{ID: 1, Title: "B", Company: "Y"},
	})
	assert.ErrorContains(t, err, "duplicate id 1")
}

func TestNewCatalog_Validation(t *testing.T) {
	cases := map[string]listing.Job{
		"zero id":       {ID: 0, Title: "A", Company: "X"},
		"no title":      {ID: 1, Company: "X"},
		"no company":    {ID: 1, Title: "A"},
		"negative days": {ID: 1, Title: "A", Company: "X", PostedDaysAgo: days(-1)},
	}
	for name, j := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := listing.NewCatalog([]listing.Job{j})
			assert.Error(t, err)
		})
	}
}

func TestNewCatalog_DropsIncomingScores(t *testing.T) {
	c, err := listing.NewCatalog([]listing.Job{
		listing.Job{ID: 1, Title: "A", Company: "X"}.WithScore(90),
	})
	require.NoError(t, err)
	j, _ := c.Lookup(1)
	assert.Nil(t, j.MatchScore)
}

func TestJob_Fallbacks(t *testing.T) {
	j := listing.Job{ID: 1}
	assert.Equal(t, 999, j.PostedOr(999))
	assert.Equal(t, 0, j.ScoreOrZero())

	j.PostedDaysAgo = days(0)
	assert.Equal(t, 0, j.PostedOr(999))
	assert.Equal(t, 55, j.WithScore(55).ScoreOrZero())
	assert.Nil(t, j.MatchScore, "WithScore returns a copy")
}

func TestLoadFile_YAMLSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: 7
  title: Backend Engineer
  company: Globex
  location: Pune
  mode: Remote
  experience: 1-3
  salaryRange: 10-18 LPA
  skills: [Go, SQL]
  source: LinkedIn
  postedDaysAgo: 1
  applyUrl: https://example.com/7
`), 0o644))

	c, err := listing.LoadFile(path)
	require.NoError(t, err)
	j, ok := c.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, "Globex", j.Company)
	assert.Equal(t, []string{"Go", "SQL"}, j.Skills)
	assert.Equal(t, 1, j.PostedOr(999))
	assert.Equal(t, "https://example.com/7", j.ApplyURL)
}

func TestLoadFile_JSONWithJobsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"jobs":[{"id":3,"title":"QA","company":"Hooli","salaryRange":"$80k-$100k"}]}`), 0o644))

	c, err := listing.LoadFile(path)
	require.NoError(t, err)
	j, ok := c.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "$80k-$100k", j.SalaryRange)
	assert.Nil(t, j.PostedDaysAgo)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := listing.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
