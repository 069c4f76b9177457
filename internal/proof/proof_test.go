package proof_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-tracker/internal/proof"
	"jobmate/job-tracker/internal/store"
	"jobmate/job-tracker/internal/store/storetest"
)

func TestIsValidURL(t *testing.T) {
	valid := []string{"https://github.com/x/y", "http://a", "  https://trim.me  "}
	invalid := []string{"", "   ", "ftp://x", "github.com", "https://"}
	for _, s := range valid {
		assert.True(t, proof.IsValidURL(s), s)
	}
	for _, s := range invalid {
		assert.False(t, proof.IsValidURL(s), s)
	}
}

func TestArtifacts_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := proof.NewArtifactStore(store.NewMemory())
	assert.Equal(t, proof.Artifacts{}, s.Get(ctx))
	assert.False(t, s.AllProvided(ctx))

	a := proof.Artifacts{
		LovableLink: "https://lovable.dev/p/1",
		GithubLink:  "https://github.com/me/tracker",
		DeployedURL: "https://tracker.example.com",
	}
	require.True(t, s.Set(ctx, a))
	assert.Equal(t, a, s.Get(ctx))
	assert.True(t, s.AllProvided(ctx))

	a.DeployedURL = "tracker.example.com"
	require.True(t, s.Set(ctx, a))
	assert.False(t, s.AllProvided(ctx))
}

func TestArtifacts_Failures(t *testing.T) {
	s := proof.NewArtifactStore(storetest.Broken{})
	assert.Equal(t, proof.Artifacts{}, s.Get(context.Background()))
	assert.False(t, s.Set(context.Background(), proof.Artifacts{}))
}

func TestChecklist_Defaults(t *testing.T) {
	c := proof.NewChecklist(store.NewMemory())
	assert.Equal(t, make([]bool, 10), c.State(context.Background()))
	assert.Equal(t, 0, c.Passed(context.Background()))
}

func TestChecklist_WrongLengthReadsAsUnchecked(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.Set(ctx, store.KeyTestChecklist, `[true,true,true]`))
	assert.Equal(t, make([]bool, 10), proof.NewChecklist(m).State(ctx))
}

func TestChecklist_LooseValues(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.Set(ctx, store.KeyTestChecklist, `[1,0,"x","",null,true,false,true,true,true]`))
	assert.Equal(t,
		[]bool{true, false, true, false, false, true, false, true, true, true},
		proof.NewChecklist(m).State(ctx))
}

func TestChecklist_ToggleResetAllPassed(t *testing.T) {
	ctx := context.Background()
	c := proof.NewChecklist(store.NewMemory())

	for i := 0; i < proof.ChecklistSize; i++ {
		require.NoError(t, c.Toggle(ctx, i, true))
	}
	assert.True(t, c.AllPassed(ctx))

	require.NoError(t, c.Toggle(ctx, 4, false))
	assert.False(t, c.AllPassed(ctx))
	assert.Equal(t, 9, c.Passed(ctx))

	assert.Error(t, c.Toggle(ctx, 10, true))
	assert.Error(t, c.Toggle(ctx, -1, true))

	require.True(t, c.Reset(ctx))
	assert.Equal(t, 0, c.Passed(ctx))
}

func TestChecklist_SetRejectsWrongLength(t *testing.T) {
	assert.False(t, proof.NewChecklist(store.NewMemory()).Set(context.Background(), []bool{true}))
}
