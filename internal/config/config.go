package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"job-search-go/internal/models"
)

// Config holds the application configuration. It is loaded once per run
// and treated as an immutable snapshot by the pipeline.
type Config struct {
	GoogleAPI       GoogleAPIConfig `yaml:"google_api"`
	Search          SearchConfig    `yaml:"search_settings"`
	Sites           SitesConfig     `yaml:"job_sites"`
	DefaultSearches []string        `yaml:"default_searches"`
	Filters         FilterConfig    `yaml:"filters"`
	Scoring         ScoringConfig   `yaml:"scoring"`
	Output          OutputConfig    `yaml:"output"`
}

// GoogleAPIConfig holds Custom Search API credentials and limits.
// BaseURL is overridable for tests; leave it empty in real configs.
type GoogleAPIConfig struct {
	APIKey         string `yaml:"api_key"`
	SearchEngineID string `yaml:"search_engine_id"`
	DailyQuota     int    `yaml:"daily_quota"`
	BaseURL        string `yaml:"base_url,omitempty"`
}

// SearchConfig holds search and fetch tuning. Durations are expressed in
// seconds in the YAML file.
type SearchConfig struct {
	TimeFilterHours     int     `yaml:"time_filter_hours"`
	MaxResultsPerSite   int     `yaml:"max_results_per_site"`
	RequestDelaySecs    float64 `yaml:"request_delay"`
	RequestTimeoutSecs  float64 `yaml:"request_timeout"`
	SearchWorkers       int     `yaml:"search_workers"`
	ExtractWorkers      int     `yaml:"extract_workers"`
	RetryAttempts       int     `yaml:"retry_attempts"`
	RetryDelaySecs      float64 `yaml:"retry_delay"`
	PageRatePerMinute   int     `yaml:"page_rate_per_minute"`
}

func (s SearchConfig) RequestDelay() time.Duration {
	return time.Duration(s.RequestDelaySecs * float64(time.Second))
}

func (s SearchConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSecs * float64(time.Second))
}

func (s SearchConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySecs * float64(time.Second))
}

func (s SearchConfig) TimeWindow() time.Duration {
	return time.Duration(s.TimeFilterHours) * time.Hour
}

// SitesConfig lists the job sites to search, split by category.
type SitesConfig struct {
	ATSPlatforms        []string `yaml:"ats_platforms"`
	AdditionalPlatforms []string `yaml:"additional_platforms"`
}

// All returns every configured site as a SiteSpec, ATS platforms first.
func (s SitesConfig) All() []models.SiteSpec {
	specs := make([]models.SiteSpec, 0, len(s.ATSPlatforms)+len(s.AdditionalPlatforms))
	for _, d := range s.ATSPlatforms {
		specs = append(specs, models.SiteSpec{Domain: d, Category: models.CategoryATS})
	}
	for _, d := range s.AdditionalPlatforms {
		specs = append(specs, models.SiteSpec{Domain: d, Category: models.CategoryBoard})
	}
	return specs
}

// SalaryRange bounds acceptable parsed salaries.
type SalaryRange struct {
	Minimum int `yaml:"minimum"`
	Maximum int `yaml:"maximum"`
}

// FilterConfig holds the togglable filter predicates. A predicate whose
// keyword list is empty is effectively disabled.
type FilterConfig struct {
	ExcludeKeywords         []string    `yaml:"exclude_keywords"`
	ExcludeExperienceLevels []string    `yaml:"exclude_experience_levels"`
	SalaryRanges            SalaryRange `yaml:"salary_ranges"`
	RejectUnknownSalary     bool        `yaml:"reject_unknown_salary"`
	RequireRemote           *bool       `yaml:"require_remote"`
	RemoteKeywords          []string    `yaml:"remote_keywords"`
	OnsiteKeywords          []string    `yaml:"onsite_keywords"`
}

// RemoteRequired reports whether the remote-verification predicate is on.
// It defaults to on: the "remote" search operator only biases ranking,
// it does not guarantee page content.
func (f FilterConfig) RemoteRequired() bool {
	if f.RequireRemote == nil {
		return true
	}
	return *f.RequireRemote
}

// ScoringConfig holds relevance score weights. The four weights should
// sum to 100 so scores stay in the 0-100 range.
type ScoringConfig struct {
	TitleExactWeight   float64 `yaml:"title_exact_weight"`
	TitlePartialWeight float64 `yaml:"title_partial_weight"`
	DescriptionWeight  float64 `yaml:"description_weight"`
	RecencyWeight      float64 `yaml:"recency_weight"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Format           string `yaml:"format"` // markdown, pdf, or both
	OutputDir        string `yaml:"output_dir"`
	IncludeSummaries bool   `yaml:"include_summaries"`
	MaxSummaryLength int    `yaml:"max_summary_length"`
}

// DefaultConfig returns a configuration with usable defaults for
// everything except API credentials.
func DefaultConfig() *Config {
	requireRemote := true
	return &Config{
		GoogleAPI: GoogleAPIConfig{
			DailyQuota: 100,
		},
		Search: SearchConfig{
			TimeFilterHours:    24,
			MaxResultsPerSite:  10,
			RequestDelaySecs:   2.0,
			RequestTimeoutSecs: 10.0,
			SearchWorkers:      0, // 0 means one worker per site
			ExtractWorkers:     5,
			RetryAttempts:      3,
			RetryDelaySecs:     1.0,
			PageRatePerMinute:  30,
		},
		Sites: SitesConfig{
			ATSPlatforms: []string{
				"greenhouse.io",
				"lever.co",
				"myworkdayjobs.com",
				"jobs.smartrecruiters.com",
			},
			AdditionalPlatforms: []string{
				"remoteok.io",
				"weworkremotely.com",
			},
		},
		Filters: FilterConfig{
			ExcludeKeywords:         []string{"unpaid", "commission only"},
			ExcludeExperienceLevels: []string{"internship", "entry level"},
			SalaryRanges:            SalaryRange{Minimum: 0, Maximum: 1000000},
			RejectUnknownSalary:     false,
			RequireRemote:           &requireRemote,
			RemoteKeywords: []string{
				"remote", "telecommute", "work from home", "wfh",
				"distributed", "virtual", "anywhere", "location independent",
			},
			OnsiteKeywords: []string{
				"hybrid", "on-site", "in-person", "in office", "commute",
				"relocation",
			},
		},
		Scoring: ScoringConfig{
			TitleExactWeight:   40,
			TitlePartialWeight: 25,
			DescriptionWeight:  15,
			RecencyWeight:      20,
		},
		Output: OutputConfig{
			Format:           "both",
			OutputDir:        "./reports",
			IncludeSummaries: true,
			MaxSummaryLength: 300,
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults for
// anything unset, then applies environment overrides. A missing file is
// not an error; the defaults plus environment are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv overrides credentials and quota from the environment. The env
// file itself is loaded by the caller (godotenv) before Load runs.
func (c *Config) applyEnv() {
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.GoogleAPI.APIKey = v
	}
	if v := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); v != "" {
		c.GoogleAPI.SearchEngineID = v
	}
	if v := os.Getenv("GOOGLE_DAILY_QUOTA"); v != "" {
		if quota, err := strconv.Atoi(v); err == nil && quota > 0 {
			c.GoogleAPI.DailyQuota = quota
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Search.TimeFilterHours <= 0 {
		c.Search.TimeFilterHours = 24
	}
	if c.Search.MaxResultsPerSite <= 0 {
		c.Search.MaxResultsPerSite = 10
	}
	if c.Search.ExtractWorkers <= 0 {
		c.Search.ExtractWorkers = 5
	}
	if c.Search.RetryAttempts < 0 {
		c.Search.RetryAttempts = 0
	}
	if c.Search.PageRatePerMinute <= 0 {
		c.Search.PageRatePerMinute = 30
	}
	if c.Search.RequestTimeoutSecs <= 0 {
		c.Search.RequestTimeoutSecs = 10
	}
	if c.Output.Format == "" {
		c.Output.Format = "both"
	}
	if c.Output.OutputDir == "" {
		c.Output.OutputDir = "./reports"
	}
	if c.Output.MaxSummaryLength <= 0 {
		c.Output.MaxSummaryLength = 300
	}
	if c.Scoring == (ScoringConfig{}) {
		c.Scoring = DefaultConfig().Scoring
	}
	if c.Filters.SalaryRanges.Maximum <= 0 {
		c.Filters.SalaryRanges.Maximum = 1000000
	}
	if len(c.Filters.RemoteKeywords) == 0 {
		c.Filters.RemoteKeywords = DefaultConfig().Filters.RemoteKeywords
	}
}

// Validate checks the configuration before any network activity. It
// returns a ConfigError with remediation guidance on failure.
func (c *Config) Validate() error {
	if c.GoogleAPI.APIKey == "" {
		return &ConfigError{
			Field:       "google_api.api_key",
			Reason:      "missing Google API key",
			Remediation: "set GOOGLE_API_KEY in the environment or google_api.api_key in the config file; see https://developers.google.com/custom-search/v1/introduction",
		}
	}
	if c.GoogleAPI.SearchEngineID == "" {
		return &ConfigError{
			Field:       "google_api.search_engine_id",
			Reason:      "missing Custom Search engine ID",
			Remediation: "set GOOGLE_SEARCH_ENGINE_ID in the environment or google_api.search_engine_id in the config file",
		}
	}
	if c.GoogleAPI.DailyQuota <= 0 {
		return &ConfigError{
			Field:       "google_api.daily_quota",
			Reason:      "daily quota must be positive",
			Remediation: "set google_api.daily_quota to the number of queries your plan allows per day (free tier: 100)",
		}
	}
	if len(c.Sites.All()) == 0 {
		return &ConfigError{
			Field:       "job_sites",
			Reason:      "no job sites configured",
			Remediation: "add at least one domain under job_sites.ats_platforms or job_sites.additional_platforms",
		}
	}
	if c.Filters.SalaryRanges.Minimum > c.Filters.SalaryRanges.Maximum {
		return &ConfigError{
			Field:       "filters.salary_ranges",
			Reason:      "minimum salary exceeds maximum",
			Remediation: "set filters.salary_ranges.minimum below filters.salary_ranges.maximum",
		}
	}
	switch c.Output.Format {
	case "markdown", "pdf", "both":
	default:
		return &ConfigError{
			Field:       "output.format",
			Reason:      fmt.Sprintf("unknown output format %q", c.Output.Format),
			Remediation: "use one of: markdown, pdf, both",
		}
	}
	return nil
}

// HasCredentials reports whether API credentials are present, without the
// full validation pass.
func (c *Config) HasCredentials() bool {
	return c.GoogleAPI.APIKey != "" && c.GoogleAPI.SearchEngineID != ""
}
