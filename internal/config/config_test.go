package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-tracker/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"TRACKER_PORT", "TRACKER_GRPC_PORT", "STORE_BACKEND", "DATA_DIR", "JOBS_SOURCE", "JOBS_FILE", "DIGEST_SCHEDULE", "REDIS_NAMESPACE"} {
		t.Setenv(k, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, "9082", cfg.GRPCPort)
	assert.Equal(t, config.BackendFile, cfg.StoreBackend)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, config.SourceFile, cfg.JobsSource)
	assert.Equal(t, "./data/jobs.yaml", cfg.JobsFile)
	assert.Equal(t, config.DefaultDigestSchedule, cfg.DigestSchedule)
	assert.Equal(t, "jobtracker:", cfg.RedisNamespace)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad port", map[string]string{"TRACKER_PORT": "http"}, "TRACKER_PORT"},
		{"unknown backend", map[string]string{"STORE_BACKEND": "sqlite"}, "STORE_BACKEND"},
		{"redis without url", map[string]string{"STORE_BACKEND": "redis", "REDIS_URL": ""}, "REDIS_URL"},
		{"postgres without url", map[string]string{"STORE_BACKEND": "postgres", "DATABASE_URL": ""}, "DATABASE_URL"},
		{"jobs from postgres without url", map[string]string{"JOBS_SOURCE": "postgres", "DATABASE_URL": ""}, "DATABASE_URL"},
		{"unknown jobs source", map[string]string{"JOBS_SOURCE": "s3"}, "JOBS_SOURCE"},
		{"bad schedule", map[string]string{"DIGEST_SCHEDULE": "every morning"}, "DIGEST_SCHEDULE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("STORE_BACKEND", "")
			t.Setenv("JOBS_SOURCE", "")
			t.Setenv("TRACKER_PORT", "")
			t.Setenv("DIGEST_SCHEDULE", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_RedisBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("DIGEST_SCHEDULE", "30 8 * * 1-5")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "30 8 * * 1-5", cfg.DigestSchedule)
}
