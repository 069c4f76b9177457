package status_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-tracker/internal/clock"
	"jobmate/job-tracker/internal/events"
	"jobmate/job-tracker/internal/listing"
	"jobmate/job-tracker/internal/status"
	"jobmate/job-tracker/internal/store"
	"jobmate/job-tracker/internal/store/storetest"
)

var noon = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func catalog(t *testing.T) *listing.Catalog {
	t.Helper()
	c, err := listing.NewCatalog([]listing.Job{
		{ID: 1, Title: "Go Developer", Company: "Acme"},
		{ID: 2, Title: "Data Analyst", Company: "Initech"},
	})
	require.NoError(t, err)
	return c
}

func newTracker(t *testing.T, st store.Store) (*status.Tracker, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	return status.NewTracker(st, catalog(t).Lookup, clock.Fixed{T: noon}, rec), rec
}

func TestGet_DefaultsToNotApplied(t *testing.T) {
	tr, _ := newTracker(t, store.NewMemory())
	assert.Equal(t, status.NotApplied, tr.Get(context.Background(), 1))
}

func TestGet_UnknownStoredValue(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.Set(ctx, store.KeyStatus, `{"1":"Interview","2":7,"3":"Selected"}`))
	tr, _ := newTracker(t, m)

	assert.Equal(t, status.NotApplied, tr.Get(ctx, 1))
	assert.Equal(t, status.NotApplied, tr.Get(ctx, 2))
	assert.Equal(t, status.Selected, tr.Get(ctx, 3))
}

func TestGet_UnreadableStore(t *testing.T) {
	tr, _ := newTracker(t, storetest.Broken{})
	assert.Equal(t, status.NotApplied, tr.Get(context.Background(), 1))
}

func TestSet_AppliedRecordsHistory(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t, store.NewMemory())

	require.True(t, tr.Set(ctx, 1, status.Applied, &status.JobInfo{Title: "Custom", Company: "Co"}))
	assert.Equal(t, status.Applied, tr.Get(ctx, 1))

	h := tr.History(ctx)
	require.Len(t, h, 1)
	assert.Equal(t, status.Entry{
		JobID:       1,
		Title:       "Custom",
		Company:     "Co",
		Status:      status.Applied,
		DateChanged: "2026-10-16T12:00:00.000Z",
	}, h[0])
}

func TestSet_NotAppliedAddsNoHistory(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t, store.NewMemory())

	require.True(t, tr.Set(ctx, 1, status.Applied, nil))
	require.True(t, tr.Set(ctx, 1, status.NotApplied, nil))

	assert.Equal(t, status.NotApplied, tr.Get(ctx, 1))
	assert.Len(t, tr.History(ctx), 1)
}

func TestSet_SelfTransitionRecordsAgain(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t, store.NewMemory())

	require.True(t, tr.Set(ctx, 2, status.Rejected, nil))
	require.True(t, tr.Set(ctx, 2, status.Rejected, nil))
	assert.Len(t, tr.History(ctx), 2)
}

func TestSet_ResolvesFromCatalog(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t, store.NewMemory())

	require.True(t, tr.Set(ctx, 2, status.Selected, nil))
	require.True(t, tr.Set(ctx, 1, status.Rejected, &status.JobInfo{Title: "Only title"}))
	require.True(t, tr.Set(ctx, 42, status.Applied, nil))

	h := tr.History(ctx)
	require.Len(t, h, 3)
	assert.Equal(t, 42, h[0].JobID)
	assert.Equal(t, "", h[0].Title)
	assert.Equal(t, "", h[0].Company)
	assert.Equal(t, "Only title", h[1].Title)
	assert.Equal(t, "Acme", h[1].Company)
	assert.Equal(t, "Data Analyst", h[2].Title)
	assert.Equal(t, "Initech", h[2].Company)
}

func TestSet_HistoryCappedNewestFirst(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t, store.NewMemory())

	for id := 1; id <= 60; id++ {
		require.True(t, tr.Set(ctx, id, status.Applied, &status.JobInfo{Title: fmt.Sprint(id)}))
	}

	h := tr.History(ctx)
	require.Len(t, h, status.HistoryLimit)
	assert.Equal(t, 60, h[0].JobID)
	assert.Equal(t, 11, h[len(h)-1].JobID, "the ten oldest entries are evicted")
}

func TestSet_UnknownStatusIsWrittenButReadsAsDefault(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	tr, _ := newTracker(t, m)

	require.True(t, tr.Set(ctx, 1, status.Status("Interview"), nil))
	assert.Equal(t, status.NotApplied, tr.Get(ctx, 1))
	assert.Empty(t, tr.History(ctx))

	raw, _, _ := m.Get(ctx, store.KeyStatus)
	assert.JSONEq(t, `{"1":"Interview"}`, raw)
}

func TestSet_StoreFailureReturnsFalse(t *testing.T) {
	tr, _ := newTracker(t, storetest.Broken{})
	assert.False(t, tr.Set(context.Background(), 1, status.Applied, nil))

	ro, _ := newTracker(t, storetest.ReadOnly{Data: map[string]string{}})
	assert.False(t, ro.Set(context.Background(), 1, status.Applied, nil))
}

func TestSet_CorruptMapIsReplaced(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.Set(ctx, store.KeyStatus, `not json`))
	tr, _ := newTracker(t, m)

	assert.Equal(t, status.NotApplied, tr.Get(ctx, 1))
	raw, _, _ := m.Get(ctx, store.KeyStatus)
	assert.Equal(t, "not json", raw, "reads never repair")

	require.True(t, tr.Set(ctx, 1, status.Applied, nil))
	assert.Equal(t, status.Applied, tr.Get(ctx, 1))
}

func TestHistory_CorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.Set(ctx, store.KeyStatusHistory, `{"not":"a list"}`))
	tr, _ := newTracker(t, m)

	assert.Equal(t, []status.Entry{}, tr.History(ctx))
}

func TestStatuses(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTracker(t, store.NewMemory())
	require.True(t, tr.Set(ctx, 1, status.Applied, nil))
	require.True(t, tr.Set(ctx, 2, status.Status("bogus"), nil))

	assert.Equal(t, map[int]status.Status{1: status.Applied, 2: status.NotApplied}, tr.Statuses(ctx))
}

func TestSet_PublishesChange(t *testing.T) {
	ctx := context.Background()
	tr, rec := newTracker(t, store.NewMemory())

	require.True(t, tr.Set(ctx, 1, status.Applied, nil))
	require.True(t, tr.Set(ctx, 1, status.NotApplied, nil))

	msgs := rec.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, events.ChannelStatusChanged, msgs[0].Channel)
	payload := msgs[1].Payload.(map[string]any)
	assert.Equal(t, "Applied", payload["from"])
	assert.Equal(t, "Not Applied", payload["to"])
	assert.Equal(t, 1, payload["jobId"])
	assert.Equal(t, events.TypeStatusChanged, payload["type"])
	assert.Equal(t, "status.changed", payload["type"])
}
