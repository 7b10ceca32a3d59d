package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicscan/fleetdoctor/schema"
)

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{}))

	assert.Equal(t, ".", cfg.RootPath)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, "local", cfg.Provider)
	assert.Equal(t, DefaultAgentGlob, cfg.AgentGlob)
	assert.Equal(t, DefaultRunCommand, cfg.RunCommand)
	assert.Equal(t, DefaultSandboxTimeout, cfg.SandboxTimeout)
	assert.Equal(t, schema.NoneBackend, cfg.StoreBackend)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)

	// Component tables come from the defaults.
	assert.Equal(t, schema.DefaultClassifierConfig().StalenessDays, cfg.Classifier.StalenessDays)
	assert.InDelta(t, 1.0, cfg.Priority.Weights.Sum(), WeightDrift)
}

func TestProcessAndValidateOverrides(t *testing.T) {
	cfg := &Config{}
	input := &ConfigRawInput{
		RootPathStr:   "/srv/clones",
		Workers:       4,
		Limit:         10,
		Output:        "JSON",
		Emoji:         "yes",
		Color:         "no",
		Timeout:       "5 minutes",
		StalenessDays: 14,
		DormancyDays:  60,
		Watchlist:     "Chicago Public Library, Cook County",
		PriorImpl:     "chi_library,chi_parks",
	}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "/srv/clones", cfg.RootPath)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 10, cfg.ResultLimit)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.True(t, cfg.UseEmojis)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, 5*time.Minute, cfg.SandboxTimeout)
	assert.Equal(t, 14, cfg.Classifier.StalenessDays)
	assert.Equal(t, 60, cfg.Classifier.DormancyDays)
	assert.Equal(t, []string{"Chicago Public Library", "Cook County"}, cfg.Priority.Watchlist)
	assert.Equal(t, []string{"chi_library", "chi_parks"}, cfg.PriorImplementations)
}

func TestProcessAndValidateWeightOverrides(t *testing.T) {
	contractW := 0.5
	usageW := 0.2
	cfg := &Config{}
	input := &ConfigRawInput{
		Weights: &PriorityWeightsRaw{Contract: &contractW, Usage: &usageW},
	}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, 0.5, cfg.Priority.Weights.ContractRisk)
	assert.Equal(t, 0.2, cfg.Priority.Weights.UsageFrequency)
	// Unset weights keep their defaults.
	defaults := schema.DefaultPriorityWeights()
	assert.Equal(t, defaults.FreshnessImpact, cfg.Priority.Weights.FreshnessImpact)
	assert.Equal(t, defaults.RepairFeasibility, cfg.Priority.Weights.RepairFeasibility)
}

func TestProcessAndValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		input ConfigRawInput
	}{
		{name: "limit exceeds max", input: ConfigRawInput{Limit: MaxResultLimit + 1}},
		{name: "bad output mode", input: ConfigRawInput{Output: "yaml"}},
		{name: "bad provider", input: ConfigRawInput{Provider: "gitlab"}},
		{name: "github without org", input: ConfigRawInput{Provider: "github"}},
		{name: "bad timeout", input: ConfigRawInput{Timeout: "soon"}},
		{name: "bad store backend", input: ConfigRawInput{StoreBackend: "redis"}},
		{name: "mysql without connection", input: ConfigRawInput{StoreBackend: "mysql"}},
		{name: "postgresql without connection", input: ConfigRawInput{StoreBackend: "postgresql"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ProcessAndValidate(&Config{}, &tt.input))
		})
	}
}

func TestValidateStoreConnectionString(t *testing.T) {
	assert.NoError(t, ValidateStoreConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateStoreConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateStoreConnectionString(schema.MySQLBackend, "user:pass@tcp(host:3306)/db"))
	assert.Error(t, ValidateStoreConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateStoreConnectionString(schema.PostgreSQLBackend, ""))
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "fleet"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "fleet", profile.Prefix)

	assert.Error(t, ProcessProfilingConfig(profile, "with space"))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{Workers: 2}))

	clone := cfg.Clone()
	clone.Workers = 16
	clone.Provider = "github"

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "local", cfg.Provider)
	assert.Equal(t, 16, clone.Workers)
}
