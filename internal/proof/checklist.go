package proof

import (
	"context"
	"fmt"
	"log/slog"

	"jobmate/job-tracker/internal/store"
)

// ChecklistSize is the fixed number of manual test items.
const ChecklistSize = 10

// Checklist persists which manual tests have been ticked.
type Checklist struct {
	st store.Store
}

// NewChecklist returns a Checklist over st.
func NewChecklist(st store.Store) *Checklist {
	return &Checklist{st: st}
}

// State returns one flag per test. Anything but a stored list of exactly
// ChecklistSize entries reads as all unchecked.
func (c *Checklist) State(ctx context.Context) []bool {
	var raw []any
	found, err := store.GetJSON(ctx, c.st, store.KeyTestChecklist, &raw)
	if err != nil {
		slog.Warn("read test checklist failed", "err", err)
		return make([]bool, ChecklistSize)
	}
	if !found || len(raw) != ChecklistSize {
		return make([]bool, ChecklistSize)
	}
	out := make([]bool, ChecklistSize)
	for i, v := range raw {
		out[i] = truthy(v)
	}
	return out
}

// Set stores state, which must have ChecklistSize entries.
func (c *Checklist) Set(ctx context.Context, state []bool) bool {
	if len(state) != ChecklistSize {
		slog.Warn("test checklist has wrong length", "len", len(state))
		return false
	}
	if err := store.SetJSON(ctx, c.st, store.KeyTestChecklist, state); err != nil {
		slog.Warn("write test checklist failed", "err", err)
		return false
	}
	return true
}

// Toggle sets a single item.
func (c *Checklist) Toggle(ctx context.Context, idx int, checked bool) error {
	if idx < 0 || idx >= ChecklistSize {
		return fmt.Errorf("checklist index %d out of range [0,%d)", idx, ChecklistSize)
	}
	state := c.State(ctx)
	state[idx] = checked
	if !c.Set(ctx, state) {
		return fmt.Errorf("checklist write failed")
	}
	return nil
}

// Reset unchecks every item.
func (c *Checklist) Reset(ctx context.Context) bool {
	return c.Set(ctx, make([]bool, ChecklistSize))
}

// Passed counts the checked items.
func (c *Checklist) Passed(ctx context.Context) int {
	n := 0
	for _, ok := range c.State(ctx) {
		if ok {
			n++
		}
	}
	return n
}

// AllPassed reports whether every item is checked.
func (c *Checklist) AllPassed(ctx context.Context) bool {
	return c.Passed(ctx) == ChecklistSize
}

// truthy mirrors loose JSON truthiness for values written by older clients.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case nil:
		return false
	}
	return true
}
