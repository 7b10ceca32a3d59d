package iostore

import (
	"time"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetAssessmentStore implements the StoreManager interface.
func (m *MockStoreManager) GetAssessmentStore() contract.AssessmentStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AssessmentStore)
	return store
}

// MockAssessmentStore is a mock implementation of AssessmentStore for testing.
type MockAssessmentStore struct {
	mock.Mock
}

var _ contract.AssessmentStore = &MockAssessmentStore{} // Compile-time check

// BeginRun implements the AssessmentStore interface.
func (m *MockAssessmentStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the AssessmentStore interface.
func (m *MockAssessmentStore) EndRun(runID int64, endTime time.Time, totalAgents int) error {
	args := m.Called(runID, endTime, totalAgents)
	return args.Error(0)
}

// RecordAssessment implements the AssessmentStore interface.
func (m *MockAssessmentStore) RecordAssessment(rec schema.AssessmentRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

// RecordRepairOutcome implements the AssessmentStore interface.
func (m *MockAssessmentStore) RecordRepairOutcome(rec schema.RepairOutcomeRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

// AccuracyStats implements the AssessmentStore interface.
func (m *MockAssessmentStore) AccuracyStats() (schema.AccuracyStats, error) {
	args := m.Called()
	return args.Get(0).(schema.AccuracyStats), args.Error(1)
}

// ListAssessments implements the AssessmentStore interface.
func (m *MockAssessmentStore) ListAssessments(limit int) ([]schema.AssessmentRecord, error) {
	args := m.Called(limit)
	records, _ := args.Get(0).([]schema.AssessmentRecord)
	return records, args.Error(1)
}

// ListRepairOutcomes implements the AssessmentStore interface.
func (m *MockAssessmentStore) ListRepairOutcomes() ([]schema.RepairOutcomeRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RepairOutcomeRecord)
	return records, args.Error(1)
}

// GetStatus implements the AssessmentStore interface.
func (m *MockAssessmentStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the AssessmentStore interface.
func (m *MockAssessmentStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
