// Package prefs is the user's preference record: what roles, places, modes
// and skills listings are scored against.
package prefs

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strings"

	"jobmate/job-tracker/internal/store"
)

// DefaultMinMatchScore is the score gate used when none was saved.
const DefaultMinMatchScore = 40

// Preferences is overwritten wholesale on save; there is no partial update.
type Preferences struct {
	RoleKeywords       string   `json:"roleKeywords"`
	PreferredLocations []string `json:"preferredLocations"`
	PreferredMode      []string `json:"preferredMode"`
	ExperienceLevel    string   `json:"experienceLevel"`
	Skills             string   `json:"skills"`
	MinMatchScore      int      `json:"minMatchScore"`
}

// Defaults returns the record used before anything has been saved.
func Defaults() Preferences {
	return Preferences{
		PreferredLocations: []string{},
		PreferredMode:      []string{},
		MinMatchScore:      DefaultMinMatchScore,
	}
}

// ClampScore limits a score threshold to [0,100].
func ClampScore(n int) int {
	return max(0, min(100, n))
}

// Keywords returns the comma-separated role keywords, trimmed, lower-cased,
// without empties.
func (p Preferences) Keywords() []string { return SplitList(p.RoleKeywords) }

// SkillSet returns the comma-separated skills, parsed like Keywords.
func (p Preferences) SkillSet() []string { return SplitList(p.Skills) }

// SplitList parses comma-separated free text into lower-cased tokens.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if tok := strings.ToLower(strings.TrimSpace(part)); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Normalize fills nil lists and clamps MinMatchScore.
func (p Preferences) Normalize() Preferences {
	if p.PreferredLocations == nil {
		p.PreferredLocations = []string{}
	}
	if p.PreferredMode == nil {
		p.PreferredMode = []string{}
	}
	p.MinMatchScore = ClampScore(p.MinMatchScore)
	return p
}

// Repository reads and writes the preference record.
type Repository struct {
	st store.Store
}

// NewRepository returns a Repository over st.
func NewRepository(st store.Store) *Repository {
	return &Repository{st: st}
}

// Get returns the saved preferences. ok is false when nothing was saved or
// the record cannot be read, in which case Defaults are returned. Fields of
// the wrong type fall back individually.
func (r *Repository) Get(ctx context.Context) (Preferences, bool) {
	var raw map[string]json.RawMessage
	found, err := store.GetJSON(ctx, r.st, store.KeyPreferences, &raw)
	if err != nil {
		slog.Warn("read preferences failed", "err", err)
		return Defaults(), false
	}
	if !found || raw == nil {
		return Defaults(), false
	}
	return fromRaw(raw), true
}

// Save clamps and stores p. It reports false when the store rejected the
// write.
func (r *Repository) Save(ctx context.Context, p Preferences) bool {
	if err := store.SetJSON(ctx, r.st, store.KeyPreferences, p.Normalize()); err != nil {
		slog.Warn("save preferences failed", "err", err)
		return false
	}
	return true
}

func fromRaw(raw map[string]json.RawMessage) Preferences {
	p := Defaults()
	p.RoleKeywords = stringField(raw["roleKeywords"])
	p.ExperienceLevel = stringField(raw["experienceLevel"])
	p.Skills = stringField(raw["skills"])
	p.PreferredLocations = listField(raw["preferredLocations"])
	p.PreferredMode = listField(raw["preferredMode"])
	var score float64
	if v, ok := raw["minMatchScore"]; ok && json.Unmarshal(v, &score) == nil {
		p.MinMatchScore = int(math.Max(0, math.Min(100, score)))
	}
	return p
}

func stringField(v json.RawMessage) string {
	var s string
	if v == nil || json.Unmarshal(v, &s) != nil {
		return ""
	}
	return s
}

func listField(v json.RawMessage) []string {
	var items []any
	if v == nil || json.Unmarshal(v, &items) != nil || items == nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
