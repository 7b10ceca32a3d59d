package contract

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/civicscan/fleetdoctor/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit    = 25
	MaxResultLimit        = 1000
	DefaultSandboxTimeout = 2 * time.Minute
	DefaultAgentGlob      = "*/spiders/*.py"
	DefaultRunCommand     = "scrapy crawl {agent} -O {out}"

	// WeightDrift is the tolerance around 1.0 for the priority weight sum.
	WeightDrift = 0.01
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig validates the profiling prefix and fills cfg.
func ProcessProfilingConfig(cfg *ProfileConfig, prefix string) error {
	if prefix == "" {
		cfg.Enabled = false
		return nil
	}
	if strings.ContainsAny(prefix, " \t") {
		return fmt.Errorf("profile prefix must not contain whitespace: %q", prefix)
	}
	cfg.Enabled = true
	cfg.Prefix = prefix
	return nil
}

// Config holds the runtime configuration for fleet analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RootPath    string // Root directory of repository clones (local provider)
	Workers     int
	ResultLimit int

	Output     schema.OutputMode
	OutputFile string
	UseEmojis  bool
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	Provider    string // "local" (default) or "github"
	GitHubOrg   string
	GitHubToken string

	AgentGlob      string
	RunCommand     string
	SandboxTimeout time.Duration

	// PriorImplementations lists agent names that already have a
	// browser-automation port somewhere to build on.
	PriorImplementations []string

	StoreBackend   schema.StoreBackend
	StoreDBConnect string // Please use env var as this is plaintext

	Classifier schema.ClassifierConfig
	Complexity schema.ComplexityConfig
	Effort     schema.EffortConfig
	Priority   schema.PriorityConfig
	Candidacy  schema.CandidacyConfig
	Report     schema.ReportConfig
}

// Clone returns a copy of the config for per-request overrides. Slice and
// map fields are shared; callers must treat them as read-only.
func (cfg *Config) Clone() *Config {
	out := *cfg
	return &out
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RootPathStr string

	Workers    int    `mapstructure:"workers"`
	Limit      int    `mapstructure:"limit"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Emoji      string `mapstructure:"emoji"`
	Color      string `mapstructure:"color"`
	Width      int    `mapstructure:"width"`

	Provider    string `mapstructure:"provider"`
	GitHubOrg   string `mapstructure:"github-org"`
	GitHubToken string `mapstructure:"github-token"`

	AgentGlob  string `mapstructure:"agent-glob"`
	RunCommand string `mapstructure:"run-command"`
	Timeout    string `mapstructure:"timeout"`

	StalenessDays int    `mapstructure:"staleness-days"`
	DormancyDays  int    `mapstructure:"dormancy-days"`
	Watchlist     string `mapstructure:"watchlist"`
	PriorImpl     string `mapstructure:"prior-implementations"`

	Weights *PriorityWeightsRaw `mapstructure:"weights"`

	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
}

// PriorityWeightsRaw holds optional weight overrides from the YAML config
// file. Use float64 pointers so absent fields keep their defaults.
type PriorityWeightsRaw struct {
	Contract    *float64 `mapstructure:"contract"`
	Usage       *float64 `mapstructure:"usage"`
	Freshness   *float64 `mapstructure:"freshness"`
	Feasibility *float64 `mapstructure:"feasibility"`
}

// ProcessAndValidate turns the raw input into the final validated Config.
// Misconfigured priority weights produce a warning, never an error; the
// scorer computes with whatever weights it was given.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.RootPath = input.RootPathStr
	if cfg.RootPath == "" {
		cfg.RootPath = "."
	}

	if input.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	} else {
		cfg.Workers = input.Workers
	}

	if input.Limit <= 0 {
		cfg.ResultLimit = DefaultResultLimit
	} else if input.Limit > MaxResultLimit {
		return fmt.Errorf("limit cannot exceed %d", MaxResultLimit)
	} else {
		cfg.ResultLimit = input.Limit
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output mode %q. Must be text, json, csv, or parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	cfg.UseEmojis = parseYesNo(input.Emoji, false)
	cfg.UseColors = parseYesNo(input.Color, true)
	cfg.Width = input.Width

	cfg.Provider = strings.ToLower(input.Provider)
	if cfg.Provider == "" {
		cfg.Provider = "local"
	}
	if cfg.Provider != "local" && cfg.Provider != "github" {
		return fmt.Errorf("invalid provider %q. Must be local or github", input.Provider)
	}
	cfg.GitHubOrg = input.GitHubOrg
	cfg.GitHubToken = input.GitHubToken
	if cfg.Provider == "github" && cfg.GitHubOrg == "" {
		return fmt.Errorf("github provider requires github-org")
	}

	cfg.AgentGlob = input.AgentGlob
	if cfg.AgentGlob == "" {
		cfg.AgentGlob = DefaultAgentGlob
	}
	cfg.RunCommand = input.RunCommand
	if cfg.RunCommand == "" {
		cfg.RunCommand = DefaultRunCommand
	}
	if input.PriorImpl != "" {
		cfg.PriorImplementations = splitAndTrim(input.PriorImpl)
	}

	cfg.SandboxTimeout = DefaultSandboxTimeout
	if input.Timeout != "" {
		d, err := ParseHumanDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		cfg.SandboxTimeout = d
	}

	backend := schema.StoreBackend(strings.ToLower(input.StoreBackend))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend %q. Must be sqlite, mysql, postgresql, or none", input.StoreBackend)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateStoreConnectionString(backend, cfg.StoreDBConnect); err != nil {
		return err
	}

	// Component tables start from defaults and take targeted overrides.
	cfg.Classifier = schema.DefaultClassifierConfig()
	if input.StalenessDays > 0 {
		cfg.Classifier.StalenessDays = input.StalenessDays
	}
	if input.DormancyDays > 0 {
		cfg.Classifier.DormancyDays = input.DormancyDays
	}
	cfg.Complexity = schema.DefaultComplexityConfig()
	cfg.Effort = schema.DefaultEffortConfig()
	cfg.Candidacy = schema.DefaultCandidacyConfig()
	cfg.Report = schema.DefaultReportConfig()

	cfg.Priority = schema.DefaultPriorityConfig()
	if input.Watchlist != "" {
		cfg.Priority.Watchlist = splitAndTrim(input.Watchlist)
	}
	if input.Weights != nil {
		applyWeightOverrides(&cfg.Priority.Weights, input.Weights)
	}
	if sum := cfg.Priority.Weights.Sum(); math.Abs(sum-1.0) > WeightDrift {
		LogWarn(fmt.Sprintf("Priority weights sum to %.3f, expected 1.0; scoring proceeds with the given weights", sum), nil)
	}

	return nil
}

// ValidateStoreConnectionString checks that network backends carry a
// connection string. SQLite falls back to the default file path.
func ValidateStoreConnectionString(backend schema.StoreBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("%s backend requires store-db-connect", backend)
		}
	}
	return nil
}

func applyWeightOverrides(w *schema.PriorityWeights, raw *PriorityWeightsRaw) {
	if raw.Contract != nil {
		w.ContractRisk = *raw.Contract
	}
	if raw.Usage != nil {
		w.UsageFrequency = *raw.Usage
	}
	if raw.Freshness != nil {
		w.FreshnessImpact = *raw.Freshness
	}
	if raw.Feasibility != nil {
		w.RepairFeasibility = *raw.Feasibility
	}
}

func splitAndTrim(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseYesNo(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "on", "1":
		return true
	case "no", "false", "off", "0":
		return false
	default:
		return def
	}
}
