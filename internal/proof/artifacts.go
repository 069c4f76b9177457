// Package proof keeps the submission records of the tracker: the three proof
// links and the ten-item manual test checklist.
package proof

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"jobmate/job-tracker/internal/store"
)

var urlPattern = regexp.MustCompile(`^https?://.+`)

// IsValidURL reports whether s, trimmed, is an http(s) URL.
func IsValidURL(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && urlPattern.MatchString(s)
}

// Artifacts are the links proving the project was shipped.
type Artifacts struct {
	LovableLink string `json:"lovableLink"`
	GithubLink  string `json:"githubLink"`
	DeployedURL string `json:"deployedUrl"`
}

// AllProvided reports whether every link is a valid URL.
func (a Artifacts) AllProvided() bool {
	return IsValidURL(a.LovableLink) && IsValidURL(a.GithubLink) && IsValidURL(a.DeployedURL)
}

// ArtifactStore reads and writes the Artifacts record.
type ArtifactStore struct {
	st store.Store
}

// NewArtifactStore returns an ArtifactStore over st.
func NewArtifactStore(st store.Store) *ArtifactStore {
	return &ArtifactStore{st: st}
}

// Get returns the saved artifacts, empty when unset or unreadable.
func (s *ArtifactStore) Get(ctx context.Context) Artifacts {
	var a Artifacts
	if _, err := store.GetJSON(ctx, s.st, store.KeyProofArtifacts, &a); err != nil {
		slog.Warn("read proof artifacts failed", "err", err)
		return Artifacts{}
	}
	return a
}

// Set stores a as given; validation is left to AllProvided.
func (s *ArtifactStore) Set(ctx context.Context, a Artifacts) bool {
	if err := store.SetJSON(ctx, s.st, store.KeyProofArtifacts, a); err != nil {
		slog.Warn("write proof artifacts failed", "err", err)
		return false
	}
	return true
}

// AllProvided reports whether the stored artifacts are complete.
func (s *ArtifactStore) AllProvided(ctx context.Context) bool {
	return s.Get(ctx).AllProvided()
}
