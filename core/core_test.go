package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/civicscan/fleetdoctor/internal/iostore"
	"github.com/civicscan/fleetdoctor/schema"
)

func TestToRecord(t *testing.T) {
	hours := 4.5
	a := schema.ScraperAssessment{
		Repository:      "city-scrapers-il",
		AgentName:       "chi_library",
		AgencyName:      "Chicago Public Library",
		LineCount:       150,
		ItemCount:       12,
		DurationSeconds: 4.2,
		Classification:  schema.Classification{Status: schema.StatusSelectorFailure},
		Complexity:      schema.MediumComplexity,
		Effort:          schema.EffortEstimate{TotalHours: &hours, Tier: schema.MediumEffort},
		Priority:        schema.PriorityAssessment{Score: 6.4, Tier: schema.HighPriority},
		Candidacy:       schema.CandidacyAssessment{Recommendation: schema.ConventionalRecommendation},
		AssessedAt:      fixedNow,
	}

	rec := ToRecord(7, a)

	assert.Equal(t, int64(7), rec.RunID)
	assert.Equal(t, "city-scrapers-il", rec.Repository)
	assert.Equal(t, "chi_library", rec.AgentName)
	assert.Equal(t, schema.StatusSelectorFailure, rec.Status)
	require.NotNil(t, rec.EffortHours)
	assert.Equal(t, 4.5, *rec.EffortHours)
	assert.Equal(t, schema.HighPriority, rec.PriorityTier)
	assert.Equal(t, fixedNow, rec.AssessedAt)

	// The full assessment rides along as the detail blob.
	assert.Contains(t, rec.Detail, `"agentName":"chi_library"`)
	assert.Contains(t, rec.Detail, `"priorityScore":6.4`)
}

func TestPersistAssessments(t *testing.T) {
	store := &iostore.MockAssessmentStore{}
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetAssessmentStore").Return(store)

	start := fixedNow.Add(-time.Minute)
	store.On("BeginRun", start, mock.Anything).Return(int64(3), nil)
	store.On("RecordAssessment", mock.AnythingOfType("schema.AssessmentRecord")).Return(nil).Twice()
	store.On("EndRun", int64(3), mock.Anything, 2).Return(nil)

	assessments := []schema.ScraperAssessment{
		{AgentName: "chi_library"},
		{AgentName: "chi_parks"},
	}
	persistAssessments(mgr, analyzerConfig(), assessments, start)

	store.AssertExpectations(t)
}

// A nil manager or store means persistence is off; nothing happens and
// nothing panics.
func TestPersistAssessmentsDisabled(t *testing.T) {
	persistAssessments(nil, analyzerConfig(), []schema.ScraperAssessment{{}}, fixedNow)

	mgr := &iostore.MockStoreManager{}
	mgr.On("GetAssessmentStore").Return(nil)
	persistAssessments(mgr, analyzerConfig(), []schema.ScraperAssessment{{}}, fixedNow)
	mgr.AssertExpectations(t)
}

// When run tracking fails no assessments are written; the analysis output
// still stands.
func TestPersistAssessmentsBeginRunFails(t *testing.T) {
	store := &iostore.MockAssessmentStore{}
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetAssessmentStore").Return(store)
	store.On("BeginRun", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full"))

	persistAssessments(mgr, analyzerConfig(), []schema.ScraperAssessment{{AgentName: "x"}}, fixedNow)

	store.AssertNotCalled(t, "RecordAssessment", mock.Anything)
	store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteRecordOutcome(t *testing.T) {
	store := &iostore.MockAssessmentStore{}
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetAssessmentStore").Return(store)

	rec := schema.RepairOutcomeRecord{
		Repository:  "city-scrapers-il",
		AgentName:   "chi_library",
		ActualHours: 3.5,
		RecordedAt:  fixedNow,
	}
	store.On("RecordRepairOutcome", rec).Return(nil)

	require.NoError(t, ExecuteRecordOutcome(mgr, rec))
	store.AssertExpectations(t)
}

func TestExecuteRecordOutcomeNoStore(t *testing.T) {
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetAssessmentStore").Return(nil)

	err := ExecuteRecordOutcome(mgr, schema.RepairOutcomeRecord{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store-backend")
}
