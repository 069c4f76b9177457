package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-tracker/internal/config"
	"jobmate/job-tracker/internal/db"
	"jobmate/job-tracker/internal/events"
	"jobmate/job-tracker/internal/store"
)

func TestConnect_LocalBackendsNeedNoConnections(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	jobs := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(jobs, []byte("- id: 1\n  title: Go Developer\n  company: Acme\n"), 0o644))

	cfg := &config.Config{StoreBackend: config.BackendFile, DataDir: dir, JobsSource: config.SourceFile, JobsFile: jobs}
	conns, err := db.Connect(ctx, cfg)
	require.NoError(t, err)
	defer conns.Close()
	assert.Nil(t, conns.Pool)
	assert.Nil(t, conns.Redis)

	st, err := conns.Store(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.File{}, st)

	catalog, err := conns.Catalog(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Len())

	assert.IsType(t, events.Nop{}, conns.Publisher())
}

func TestStore_RemoteBackendWithoutConnection(t *testing.T) {
	ctx := context.Background()
	conns := &db.Conns{}

	_, err := conns.Store(ctx, &config.Config{StoreBackend: config.BackendRedis})
	assert.Error(t, err)
	_, err = conns.Store(ctx, &config.Config{StoreBackend: config.BackendPostgres})
	assert.Error(t, err)
	_, err = conns.Catalog(ctx, &config.Config{JobsSource: config.SourcePostgres})
	assert.Error(t, err)

	st, err := conns.Store(ctx, &config.Config{StoreBackend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, st)
}
