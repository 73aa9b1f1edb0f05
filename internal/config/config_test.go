package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-search-go/internal/models"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.GoogleAPI.DailyQuota)
	assert.Equal(t, 24, cfg.Search.TimeFilterHours)
	assert.Equal(t, "both", cfg.Output.Format)
	assert.NotEmpty(t, cfg.Sites.ATSPlatforms)
	assert.True(t, cfg.Filters.RemoteRequired())
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := writeConfigFile(t, `
google_api:
  api_key: file-key
  search_engine_id: file-cx
  daily_quota: 50
search_settings:
  time_filter_hours: 168
  request_delay: 0.5
job_sites:
  ats_platforms:
    - greenhouse.io
filters:
  salary_ranges:
    minimum: 80000
    maximum: 150000
  require_remote: false
output:
  format: markdown
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.GoogleAPI.APIKey)
	assert.Equal(t, 50, cfg.GoogleAPI.DailyQuota)
	assert.Equal(t, 168, cfg.Search.TimeFilterHours)
	assert.InDelta(t, 0.5, cfg.Search.RequestDelay().Seconds(), 0.001)
	assert.Equal(t, 80000, cfg.Filters.SalaryRanges.Minimum)
	assert.False(t, cfg.Filters.RemoteRequired())
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.Equal(t, []string{"greenhouse.io"}, cfg.Sites.ATSPlatforms)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "google_api: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
google_api:
  api_key: file-key
  daily_quota: 50
`)
	t.Setenv("GOOGLE_API_KEY", "env-key")
	t.Setenv("GOOGLE_SEARCH_ENGINE_ID", "env-cx")
	t.Setenv("GOOGLE_DAILY_QUOTA", "25")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.GoogleAPI.APIKey)
	assert.Equal(t, "env-cx", cfg.GoogleAPI.SearchEngineID)
	assert.Equal(t, 25, cfg.GoogleAPI.DailyQuota)
}

func TestSitesAll(t *testing.T) {
	sites := SitesConfig{
		ATSPlatforms:        []string{"greenhouse.io"},
		AdditionalPlatforms: []string{"remoteok.io"},
	}.All()

	require.Len(t, sites, 2)
	assert.Equal(t, models.CategoryATS, sites[0].Category)
	assert.Equal(t, models.CategoryBoard, sites[1].Category)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.GoogleAPI.APIKey = "k"
		cfg.GoogleAPI.SearchEngineID = "cx"
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing api key", func(c *Config) { c.GoogleAPI.APIKey = "" }, "google_api.api_key"},
		{"missing engine id", func(c *Config) { c.GoogleAPI.SearchEngineID = "" }, "google_api.search_engine_id"},
		{"zero quota", func(c *Config) { c.GoogleAPI.DailyQuota = 0 }, "google_api.daily_quota"},
		{"no sites", func(c *Config) { c.Sites = SitesConfig{} }, "job_sites"},
		{"inverted salary range", func(c *Config) {
			c.Filters.SalaryRanges = SalaryRange{Minimum: 200000, Maximum: 100000}
		}, "filters.salary_ranges"},
		{"bad output format", func(c *Config) { c.Output.Format = "docx" }, "output.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr), "expected a ConfigError, got %v", err)
			assert.Equal(t, tt.wantField, cerr.Field)
			assert.NotEmpty(t, cerr.Remediation, "every config error needs remediation guidance")
		})
	}
}

func TestHasCredentials(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.HasCredentials())
	cfg.GoogleAPI.APIKey = "k"
	cfg.GoogleAPI.SearchEngineID = "cx"
	assert.True(t, cfg.HasCredentials())
}
