package config

import (
	"os"
	"path/filepath"
	"testing"

	"scalebench/internal/benchmark"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	t.Chdir(t.TempDir())

	require.NoError(t, Load(""))
	cfg, err := Current()
	require.NoError(t, err)

	assert.Equal(t, benchmark.Median, cfg.Metric)
	assert.Equal(t, 1, cfg.Repeats)
	assert.Equal(t, "taskset", cfg.Taskset)
	assert.Equal(t, "-gpu", cfg.AcceleratorSuffix)
	assert.Equal(t, "sqlite", cfg.Archive.Type)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoad_FileAndEnv(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "metric: mean\nrepeats: 5\narchive:\n  enabled: true\n  type: sqlite\n  dsn: runs.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scalebench.yaml"), []byte(yaml), 0644))
	t.Setenv("SCALEBENCH_REPEATS", "7")
	t.Setenv("SCALEBENCH_ARCHIVE_DSN", "other.db")

	require.NoError(t, Load(""))
	cfg, err := Current()
	require.NoError(t, err)

	assert.Equal(t, benchmark.Mean, cfg.Metric)
	assert.Equal(t, 7, cfg.Repeats, "environment overrides the file")
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "other.db", cfg.Archive.DSN)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		setup  func()
		errMsg string
	}{
		{
			name:  "Valid Configuration",
			setup: func() { viper.Set("metric", "MEAN"); viper.Set("repeats", 3) },
		},
		{
			name:   "Unknown Metric",
			setup:  func() { viper.Set("metric", "p95") },
			errMsg: "unknown metric",
		},
		{
			name:   "Zero Repeats",
			setup:  func() { viper.Set("repeats", 0) },
			errMsg: "repeats must be at least 1",
		},
		{
			name:   "Unknown Archive",
			setup:  func() { viper.Set("archive.type", "mongo") },
			errMsg: "unsupported archive.type",
		},
		{
			name: "Postgres Without DSN",
			setup: func() {
				viper.Set("archive.enabled", true)
				viper.Set("archive.type", "postgres")
			},
			errMsg: "archive.dsn is required",
		},
		{
			name:   "Empty Suffix",
			setup:  func() { viper.Set("accelerator_suffix", "") },
			errMsg: "accelerator_suffix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			SetDefaults()
			tt.setup()

			err := ValidateConfig()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
