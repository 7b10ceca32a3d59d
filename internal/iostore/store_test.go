package iostore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/civicscan/fleetdoctor/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentStore_UnsupportedBackend(t *testing.T) {
	store, err := NewAssessmentStore(schema.StoreBackend("cassandra"), "")
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "unsupported store backend")
}

func TestAssessmentStore_SQLite(t *testing.T) {
	store, err := NewAssessmentStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	// Test BeginRun
	startTime := time.Now()
	configParams := map[string]any{
		"provider": "local",
		"workers":  4,
	}
	runID, err := store.BeginRun(startTime, configParams)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	// Test RecordAssessment
	hours := 3.5
	detail, err := json.Marshal(map[string]any{"evidence": []string{"line 12: TimeoutError"}})
	require.NoError(t, err)
	rec := schema.AssessmentRecord{
		RunID:           runID,
		Repository:      "city-scrapers-cle",
		AgentName:       "cuya_county_council",
		AgencyName:      "Cuyahoga County Council",
		Status:          schema.StatusTimeout,
		ItemCount:       0,
		DurationSeconds: 312.4,
		Complexity:      schema.MediumComplexity,
		LineCount:       140,
		EffortHours:     &hours,
		EffortTier:      schema.LowEffort,
		PriorityScore:   6.7,
		PriorityTier:    schema.HighPriority,
		Recommendation:  schema.ConventionalRecommendation,
		Detail:          string(detail),
		AssessedAt:      time.Now(),
	}
	err = store.RecordAssessment(rec)
	assert.NoError(t, err)

	// Test EndRun
	err = store.EndRun(runID, time.Now(), 1)
	assert.NoError(t, err)

	// Verify roundtrip via ListAssessments
	records, err := store.ListAssessments(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	got := records[0]
	assert.Equal(t, runID, got.RunID)
	assert.Equal(t, "city-scrapers-cle", got.Repository)
	assert.Equal(t, "cuya_county_council", got.AgentName)
	assert.Equal(t, schema.StatusTimeout, got.Status)
	assert.Equal(t, schema.MediumComplexity, got.Complexity)
	require.NotNil(t, got.EffortHours)
	assert.InDelta(t, hours, *got.EffortHours, 0.001)
	assert.Equal(t, schema.HighPriority, got.PriorityTier)
	assert.Equal(t, string(detail), got.Detail)
	assert.False(t, got.AssessedAt.IsZero())
}

func TestAssessmentStore_BlockedEffortHours(t *testing.T) {
	store, err := NewAssessmentStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	// A blocked estimate carries no numeric hours
	rec := schema.AssessmentRecord{
		RunID:          runID,
		Repository:     "city-scrapers-atl",
		AgentName:      "atl_parks",
		Status:         schema.StatusDormant,
		Complexity:     schema.SimpleComplexity,
		EffortHours:    nil,
		EffortTier:     schema.BlockedEffort,
		PriorityTier:   schema.MediumPriority,
		Recommendation: schema.ConsiderRecommendation,
		AssessedAt:     time.Now(),
	}
	require.NoError(t, store.RecordAssessment(rec))

	records, err := store.ListAssessments(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].EffortHours)
	assert.Equal(t, schema.BlockedEffort, records[0].EffortTier)
}

func TestAssessmentStore_ListAssessmentsOrderAndLimit(t *testing.T) {
	store, err := NewAssessmentStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	agents := []string{"first", "second", "third"}
	for _, name := range agents {
		rec := schema.AssessmentRecord{
			RunID:          runID,
			Repository:     "repo",
			AgentName:      name,
			Status:         schema.StatusSuccess,
			Complexity:     schema.SimpleComplexity,
			EffortTier:     schema.TrivialEffort,
			PriorityTier:   schema.LowPriority,
			Recommendation: schema.ConventionalRecommendation,
			AssessedAt:     time.Now(),
		}
		require.NoError(t, store.RecordAssessment(rec))
	}

	// Newest first
	records, err := store.ListAssessments(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].AgentName)
	assert.Equal(t, "second", records[1].AgentName)
}

func TestAssessmentStore_AccuracyStats(t *testing.T) {
	store, err := NewAssessmentStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// Empty store
	stats, err := store.AccuracyStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Outcomes)
	assert.Equal(t, 0.0, stats.MeanAbsolutePercentageError)

	outcomes := []schema.RepairOutcomeRecord{
		{Repository: "repo", AgentName: "a", EstimatedHours: 4, ActualHours: 5, RecordedAt: time.Now()},  // under, 20% error
		{Repository: "repo", AgentName: "b", EstimatedHours: 6, ActualHours: 4, RecordedAt: time.Now()},  // over, 50% error
		{Repository: "repo", AgentName: "c", EstimatedHours: 2, ActualHours: 2, RecordedAt: time.Now()},  // exact
		{Repository: "repo", AgentName: "d", EstimatedHours: 10, ActualHours: 0, RecordedAt: time.Now()}, // skipped
	}
	for _, o := range outcomes {
		require.NoError(t, store.RecordRepairOutcome(o))
	}

	stats, err = store.AccuracyStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Outcomes)
	assert.Equal(t, 1, stats.Overestimates)
	assert.Equal(t, 1, stats.Underestimates)
	assert.InDelta(t, (20.0+50.0+0.0)/3.0, stats.MeanAbsolutePercentageError, 0.001)
}

func TestAssessmentStore_GetStatus(t *testing.T) {
	store, err := NewAssessmentStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
	assert.Equal(t, int64(0), status.Runs)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordAssessment(schema.AssessmentRecord{
		RunID: runID, Repository: "repo", AgentName: "a",
		Status: schema.StatusSuccess, Complexity: schema.SimpleComplexity,
		EffortTier: schema.TrivialEffort, PriorityTier: schema.LowPriority,
		Recommendation: schema.ConventionalRecommendation, AssessedAt: time.Now(),
	}))
	require.NoError(t, store.RecordRepairOutcome(schema.RepairOutcomeRecord{
		Repository: "repo", AgentName: "a", EstimatedHours: 1, ActualHours: 1, RecordedAt: time.Now(),
	}))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.Runs)
	assert.Equal(t, int64(1), status.Assessments)
	assert.Equal(t, int64(1), status.RepairOutcomes)
}

func TestAssessmentStore_MultipleRuns(t *testing.T) {
	store, err := NewAssessmentStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	var runIDs []int64
	for i := range 3 {
		id, err := store.BeginRun(time.Now(), map[string]any{"run": i})
		require.NoError(t, err)
		runIDs = append(runIDs, id)
		require.NoError(t, store.EndRun(id, time.Now(), 1))
	}

	assert.Equal(t, 3, len(runIDs))
	assert.NotEqual(t, runIDs[0], runIDs[1])
	assert.NotEqual(t, runIDs[1], runIDs[2])
}

func TestInitStores_NoneBackendDisablesPersistence(t *testing.T) {
	mgr := &StoreManagerImpl{}
	assert.Nil(t, mgr.GetAssessmentStore())
}
