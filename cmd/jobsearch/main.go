package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"job-search-go/internal/config"
	"job-search-go/internal/pipeline"
)

func main() {
	var (
		configFile      = flag.String("config", "config.yaml", "Configuration file path")
		outputFormat    = flag.String("output-format", "", "Output format: markdown, pdf, both (overrides config)")
		maxResults      = flag.Int("max-results", 0, "Maximum results per site (overrides config)")
		salaryMin       = flag.Int("salary-min", 0, "Minimum salary filter in USD (overrides config)")
		salaryMax       = flag.Int("salary-max", 0, "Maximum salary filter in USD (overrides config)")
		excludeKeywords = flag.String("exclude-keywords", "", "Additional comma-separated keywords to exclude")
		verbose         = flag.Bool("verbose", false, "Verbose output")
		dryRun          = flag.Bool("dry-run", false, "Show the queries that would run without searching")
		help            = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	// API credentials commonly live in .env during local use.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyOverrides(cfg, *outputFormat, *maxResults, *salaryMin, *salaryMax, *excludeKeywords)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if !*verbose {
		logger.SetOutput(io.Discard)
	}

	args := flag.Args()
	command := "search"
	if len(args) > 0 {
		switch args[0] {
		case "search", "setup", "validate-api", "test-sources", "list-sites":
			command = args[0]
			args = args[1:]
		}
	}

	switch command {
	case "search":
		runSearch(cfg, logger, args, *dryRun)
	case "setup":
		runSetup(cfg, *configFile)
	case "validate-api":
		runValidateAPI(cfg, logger)
	case "test-sources":
		runTestSources(cfg, logger)
	case "list-sites":
		runListSites(cfg)
	}
}

func applyOverrides(cfg *config.Config, outputFormat string, maxResults, salaryMin, salaryMax int, excludeKeywords string) {
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if maxResults > 0 {
		cfg.Search.MaxResultsPerSite = maxResults
	}
	if salaryMin > 0 {
		cfg.Filters.SalaryRanges.Minimum = salaryMin
	}
	if salaryMax > 0 {
		cfg.Filters.SalaryRanges.Maximum = salaryMax
	}
	if excludeKeywords != "" {
		for _, kw := range strings.Split(excludeKeywords, ",") {
			kw = strings.TrimSpace(strings.ToLower(kw))
			if kw != "" {
				cfg.Filters.ExcludeKeywords = append(cfg.Filters.ExcludeKeywords, kw)
			}
		}
	}
}

func runSearch(cfg *config.Config, logger *log.Logger, terms []string, dryRun bool) {
	if len(terms) == 0 {
		terms = cfg.DefaultSearches
	}
	if len(terms) == 0 {
		fmt.Println("No search terms provided and no default_searches configured.")
		printUsage()
		os.Exit(1)
	}

	pl := pipeline.New(cfg, logger)

	if dryRun {
		queries, err := pl.DryRun(terms)
		if err != nil {
			log.Fatalf("Dry run failed: %v", err)
		}
		fmt.Printf("Dry run: %d queries would be dispatched\n", len(queries))
		for _, q := range queries {
			fmt.Printf("  [%s] %s (dateRestrict=%s)\n", q.Site.Domain, q.Text, q.DateRestrict)
		}
		fmt.Printf("Output format: %s\n", cfg.Output.Format)
		fmt.Printf("Salary range: $%d - $%d\n", cfg.Filters.SalaryRanges.Minimum, cfg.Filters.SalaryRanges.Maximum)
		fmt.Printf("Excluded keywords: %v\n", cfg.Filters.ExcludeKeywords)
		return
	}

	// Queries touch the network, so validate credentials first.
	if err := cfg.Validate(); err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Printf("Configuration error: %s\n", cfgErr.Reason)
			fmt.Printf("Remediation: %s\n", cfgErr.Remediation)
		} else {
			fmt.Printf("Configuration error: %v\n", err)
		}
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := pl.Run(ctx, terms)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nSearch cancelled.")
			os.Exit(130)
		}
		log.Fatalf("Search failed: %v", err)
	}

	printSummary(summary)
	if summary.Final == 0 {
		os.Exit(1)
	}
}

func printSummary(s *pipeline.Summary) {
	fmt.Println("=== Run Summary ===")
	fmt.Printf("Run ID: %s\n", s.RunID)
	fmt.Printf("Search terms: %s\n", strings.Join(s.Terms, ", "))
	fmt.Printf("Queries dispatched: %d (quota used: %d)\n", s.Queries, s.QuotaUsed)
	fmt.Printf("Search hits: %d\n", s.RawResults)
	fmt.Printf("Postings extracted: %d\n", s.Extracted)
	fmt.Printf("Rejected by filters: %d\n", s.Rejected)
	fmt.Printf("Duplicates collapsed: %d\n", s.Duplicates)
	fmt.Printf("Final postings: %d\n", s.Final)
	fmt.Printf("Duration: %v\n", s.Duration)

	if s.QuotaExhausted {
		fmt.Println("\nNOTE: the daily search quota was exhausted mid-run; results are partial.")
	}
	if len(s.SearchErrors) > 0 {
		fmt.Printf("\nSearch errors (%d):\n", len(s.SearchErrors))
		for _, e := range s.SearchErrors {
			fmt.Printf("  - %v\n", e)
		}
	}
	if len(s.ExtractionErrors) > 0 {
		fmt.Printf("\nExtraction errors (%d):\n", len(s.ExtractionErrors))
		for _, e := range s.ExtractionErrors {
			fmt.Printf("  - %v\n", e)
		}
	}
	if len(s.RenderErrors) > 0 {
		fmt.Printf("\nRender errors (%d):\n", len(s.RenderErrors))
		for _, e := range s.RenderErrors {
			fmt.Printf("  - %v\n", e)
		}
	}
	if len(s.ReportPaths) > 0 {
		fmt.Println("\nGenerated reports:")
		for format, path := range s.ReportPaths {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			fmt.Printf("  %s: %s\n", strings.ToUpper(format), path)
		}
	}
}

func runSetup(cfg *config.Config, configFile string) {
	fmt.Println("Checking job search agent setup...")

	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Configuration file found: %s\n", configFile)
	} else {
		fmt.Printf("Configuration file not found: %s (defaults + environment will be used)\n", configFile)
	}

	if cfg.HasCredentials() {
		fmt.Println("API credentials: present")
	} else {
		fmt.Println("API credentials: MISSING - set GOOGLE_API_KEY and GOOGLE_SEARCH_ENGINE_ID")
	}

	fmt.Printf("Sites configured: %d\n", len(cfg.Sites.All()))
	fmt.Printf("Output directory: %s\n", cfg.Output.OutputDir)
	fmt.Printf("Output format: %s\n", cfg.Output.Format)
	fmt.Printf("Daily quota: %d queries\n", cfg.GoogleAPI.DailyQuota)

	if err := os.MkdirAll(cfg.Output.OutputDir, 0o755); err != nil {
		fmt.Printf("Output directory is not writable: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Setup check complete.")
}

func runValidateAPI(cfg *config.Config, logger *log.Logger) {
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Configuration invalid: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pl := pipeline.New(cfg, logger)
	if err := pl.Probe(ctx); err != nil {
		fmt.Printf("API validation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Search API credentials are valid.")
	fmt.Printf("Daily quota: %d queries\n", cfg.GoogleAPI.DailyQuota)
}

func runTestSources(cfg *config.Config, logger *log.Logger) {
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Configuration invalid: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Testing configured job sites...")
	pl := pipeline.New(cfg, logger)
	results := pl.TestSites(ctx, "software engineer")

	failures := 0
	for _, site := range cfg.Sites.All() {
		if err := results[site.Domain]; err != nil {
			fmt.Printf("  FAIL %s: %v\n", site.Domain, err)
			failures++
		} else {
			fmt.Printf("  OK   %s\n", site.Domain)
		}
	}
	if failures > 0 {
		fmt.Printf("%d of %d sites failed\n", failures, len(cfg.Sites.All()))
		os.Exit(1)
	}
	fmt.Println("All sites reachable.")
}

func runListSites(cfg *config.Config) {
	fmt.Println("Configured job sites:")
	fmt.Println("\nATS platforms:")
	for _, site := range cfg.Sites.ATSPlatforms {
		fmt.Printf("  - %s\n", site)
	}
	fmt.Println("\nAdditional platforms:")
	for _, site := range cfg.Sites.AdditionalPlatforms {
		fmt.Printf("  - %s\n", site)
	}
	fmt.Printf("\nTotal: %d sites\n", len(cfg.Sites.All()))
}

func printUsage() {
	fmt.Println("Remote Job Search Agent")
	fmt.Println("Usage:")
	fmt.Println("  jobsearch [options] [command] [search terms...]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  search <terms...>  - Run a job search (default command)")
	fmt.Println("  setup              - Check configuration and output directory")
	fmt.Println("  validate-api       - Verify search API credentials")
	fmt.Println("  test-sources       - Run one probe query per configured site")
	fmt.Println("  list-sites         - List configured job sites")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config string           - Configuration file (default: config.yaml)")
	fmt.Println("  -output-format string    - markdown, pdf, or both")
	fmt.Println("  -max-results int         - Maximum results per site")
	fmt.Println("  -salary-min int          - Minimum salary filter (USD)")
	fmt.Println("  -salary-max int          - Maximum salary filter (USD)")
	fmt.Println("  -exclude-keywords string - Extra comma-separated exclusion keywords")
	fmt.Println("  -verbose                 - Verbose output")
	fmt.Println("  -dry-run                 - Print the queries without searching")
	fmt.Println("  -help                    - Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  jobsearch \"data scientist\"")
	fmt.Println("  jobsearch -output-format pdf search \"golang developer\" \"backend engineer\"")
	fmt.Println("  jobsearch -salary-min 100000 -exclude-keywords intern \"product manager\"")
	fmt.Println("  jobsearch -dry-run \"data scientist\"")
}
