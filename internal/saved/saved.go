// Package saved keeps the set of bookmarked job ids.
package saved

import (
	"context"
	"log/slog"
	"slices"

	"jobmate/job-tracker/internal/store"
)

// Set is the saved-job id list, in insertion order and free of duplicates.
type Set struct {
	st store.Store
}

// NewSet returns a Set over st.
func NewSet(st store.Store) *Set {
	return &Set{st: st}
}

// IDs returns the saved ids; empty when unset or unreadable.
func (s *Set) IDs(ctx context.Context) []int {
	var ids []int
	found, err := store.GetJSON(ctx, s.st, store.KeySavedIDs, &ids)
	if err != nil {
		slog.Warn("read saved ids failed", "err", err)
		return []int{}
	}
	if !found || ids == nil {
		return []int{}
	}
	return ids
}

// Save adds id. It reports false when id was already saved or the write
// failed.
func (s *Set) Save(ctx context.Context, id int) bool {
	ids := s.IDs(ctx)
	if slices.Contains(ids, id) {
		return false
	}
	return s.write(ctx, append(ids, id))
}

// Unsave removes id. It reports false when id was not saved or the write
// failed.
func (s *Set) Unsave(ctx context.Context, id int) bool {
	ids := s.IDs(ctx)
	if !slices.Contains(ids, id) {
		return false
	}
	return s.write(ctx, slices.DeleteFunc(ids, func(v int) bool { return v == id }))
}

// IsSaved reports whether id is in the set.
func (s *Set) IsSaved(ctx context.Context, id int) bool {
	return slices.Contains(s.IDs(ctx), id)
}

func (s *Set) write(ctx context.Context, ids []int) bool {
	if err := store.SetJSON(ctx, s.st, store.KeySavedIDs, ids); err != nil {
		slog.Warn("write saved ids failed", "err", err)
		return false
	}
	return true
}
