package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
)

// MockProvider is a mock implementation of MetadataProvider for testing.
type MockProvider struct {
	mock.Mock
}

var _ contract.MetadataProvider = &MockProvider{} // Compile-time check

func (m *MockProvider) ListRepositories(ctx context.Context) ([]schema.RepositoryRef, error) {
	args := m.Called(ctx)
	refs, _ := args.Get(0).([]schema.RepositoryRef)
	return refs, args.Error(1)
}

func (m *MockProvider) GetRepositoryInfo(ctx context.Context, name string) (schema.RepositoryInfo, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(schema.RepositoryInfo), args.Error(1)
}

func (m *MockProvider) ListAgentFiles(ctx context.Context, repo string) ([]schema.AgentFile, error) {
	args := m.Called(ctx, repo)
	files, _ := args.Get(0).([]schema.AgentFile)
	return files, args.Error(1)
}

func (m *MockProvider) GetAgentMetadata(ctx context.Context, repo string, file schema.AgentFile) (schema.AgentMetadata, error) {
	args := m.Called(ctx, repo, file)
	return args.Get(0).(schema.AgentMetadata), args.Error(1)
}

func (m *MockProvider) CheckQuota(ctx context.Context) (schema.QuotaInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.QuotaInfo), args.Error(1)
}

// MockSandbox is a mock implementation of Sandbox for testing.
type MockSandbox struct {
	mock.Mock
}

var _ contract.Sandbox = &MockSandbox{} // Compile-time check

func (m *MockSandbox) Setup(ctx context.Context, cloneLocator string) (string, error) {
	args := m.Called(ctx, cloneLocator)
	return args.String(0), args.Error(1)
}

func (m *MockSandbox) Execute(ctx context.Context, workDir, agentName string, timeout time.Duration) (schema.ExecutionResult, error) {
	args := m.Called(ctx, workDir, agentName, timeout)
	return args.Get(0).(schema.ExecutionResult), args.Error(1)
}

func (m *MockSandbox) Teardown(workDir string) error {
	args := m.Called(workDir)
	return args.Error(0)
}

func analyzerConfig() *contract.Config {
	return &contract.Config{
		Workers:        2,
		SandboxTimeout: time.Minute,
		Classifier:     schema.DefaultClassifierConfig(),
		Complexity:     schema.DefaultComplexityConfig(),
		Effort:         schema.DefaultEffortConfig(),
		Priority:       schema.DefaultPriorityConfig(),
		Candidacy:      schema.DefaultCandidacyConfig(),
		Report:         schema.DefaultReportConfig(),
	}
}

func successResult() schema.ExecutionResult {
	return schema.ExecutionResult{
		ExitCode:        0,
		ItemCount:       12,
		LogText:         "scraped 12 items",
		DurationSeconds: 4.2,
		Items:           []map[string]any{{"date": fixedNow.Add(-24 * time.Hour).Format(time.RFC3339)}},
	}
}

// Assess composes the component results; every input field must surface in
// the finished assessment.
func TestAssessComposition(t *testing.T) {
	an := NewAnalyzer(analyzerConfig(), nil, nil)
	meta := schema.AgentMetadata{
		AgentName:         "chi_library",
		AgencyName:        "Chicago Public Library",
		FilePath:          "city/spiders/chi_library.py",
		LineCount:         150,
		SharedBaseMarkers: []string{"CityScrapersSpider"},
		StartURLs:         []string{"https://chipublib.org/news"},
		LastModified:      fixedNow.Add(-48 * time.Hour),
	}

	got := an.Assess(meta, successResult(), "city-scrapers-il", fixedNow)

	assert.Equal(t, "city-scrapers-il", got.Repository)
	assert.Equal(t, "chi_library", got.AgentName)
	assert.Equal(t, "Chicago Public Library", got.AgencyName)
	assert.Equal(t, 12, got.ItemCount)
	assert.Equal(t, schema.StatusSuccess, got.Classification.Status)
	assert.Equal(t, schema.MediumComplexity, got.Complexity)
	assert.Equal(t, schema.BlockedEffort, got.Effort.Tier)
	assert.Equal(t, schema.LowPriority, got.Priority.Tier)
	assert.Equal(t, schema.ConventionalRecommendation, got.Candidacy.Recommendation)
	assert.Equal(t, fixedNow, got.AssessedAt)
}

// A failing scraper flows through classification into a concrete effort,
// priority and candidacy.
func TestAssessFailingScraper(t *testing.T) {
	cfg := analyzerConfig()
	cfg.PriorImplementations = []string{"sd_council"}
	an := NewAnalyzer(cfg, nil, nil)

	meta := schema.AgentMetadata{
		AgentName:  "sd_council",
		AgencyName: "San Diego City Council",
		LineCount:  250,
		StartURLs:  []string{"https://sandiego.gov/a", "https://sandiego.gov/b"},
	}
	res := schema.ExecutionResult{
		ExitCode:  0,
		LogText:   "This site requires JavaScript to display content",
		ItemCount: 0,
	}

	got := an.Assess(meta, res, "city-scrapers-ca", fixedNow)

	assert.Equal(t, schema.StatusJavascript, got.Classification.Status)
	assert.Equal(t, schema.HighComplexity, got.Complexity)
	require.NotNil(t, got.Effort.TotalHours)
	assert.Equal(t, 30.0, *got.Effort.TotalHours) // 12 x 2.5
	assert.Equal(t, schema.VeryHighEffort, got.Effort.Tier)
	// JS(3) + prior art(4) + complex(2) + high effort(1) - penalty(2) = 8
	assert.Equal(t, 8, got.Candidacy.Score)
	assert.Equal(t, schema.ConvertRecommendation, got.Candidacy.Recommendation)
}

func TestAnalyzeRepository(t *testing.T) {
	provider := &MockProvider{}
	sandbox := &MockSandbox{}
	an := NewAnalyzer(analyzerConfig(), provider, sandbox)

	info := schema.RepositoryInfo{
		Name:           "city-scrapers-il",
		LastCommitTime: fixedNow.Add(-24 * time.Hour),
		CloneLocator:   "/repos/city-scrapers-il",
	}
	files := []schema.AgentFile{
		{Name: "chi_library", Path: "spiders/chi_library.py"},
		{Name: "chi_parks", Path: "spiders/chi_parks.py"},
	}

	provider.On("GetRepositoryInfo", mock.Anything, "city-scrapers-il").Return(info, nil)
	provider.On("ListAgentFiles", mock.Anything, "city-scrapers-il").Return(files, nil)
	provider.On("GetAgentMetadata", mock.Anything, "city-scrapers-il", files[0]).
		Return(schema.AgentMetadata{AgentName: "chi_library", LineCount: 80}, nil)
	// The second agent fails; it must be skipped, not fatal.
	provider.On("GetAgentMetadata", mock.Anything, "city-scrapers-il", files[1]).
		Return(schema.AgentMetadata{}, errors.New("boom"))

	sandbox.On("Setup", mock.Anything, "/repos/city-scrapers-il").Return("/tmp/work", nil)
	sandbox.On("Execute", mock.Anything, "/tmp/work", "chi_library", time.Minute).
		Return(successResult(), nil)
	sandbox.On("Teardown", "/tmp/work").Return(nil)

	rep, err := an.AnalyzeRepository(context.Background(), "city-scrapers-il", fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 1, rep.TotalScrapers)
	assert.Equal(t, 1, rep.Functional)
	assert.NotEqual(t, schema.StatusDormant, rep.Dormancy.Status)
	provider.AssertExpectations(t)
	sandbox.AssertExpectations(t)
}

// A repository with no agent files produces a no-agents report without ever
// touching the sandbox.
func TestAnalyzeRepositoryNoAgents(t *testing.T) {
	provider := &MockProvider{}
	sandbox := &MockSandbox{}
	an := NewAnalyzer(analyzerConfig(), provider, sandbox)

	provider.On("GetRepositoryInfo", mock.Anything, "empty-repo").
		Return(schema.RepositoryInfo{Name: "empty-repo"}, nil)
	provider.On("ListAgentFiles", mock.Anything, "empty-repo").Return([]schema.AgentFile{}, nil)

	rep, err := an.AnalyzeRepository(context.Background(), "empty-repo", fixedNow)
	require.NoError(t, err)

	assert.True(t, rep.NoAgentsFound)
	assert.Equal(t, schema.StatusDormant, rep.Dormancy.Status)
	sandbox.AssertNotCalled(t, "Setup", mock.Anything, mock.Anything)
}

func TestAnalyzeRepositoryInfoError(t *testing.T) {
	provider := &MockProvider{}
	an := NewAnalyzer(analyzerConfig(), provider, &MockSandbox{})

	provider.On("GetRepositoryInfo", mock.Anything, "missing").
		Return(schema.RepositoryInfo{}, errors.New("not found"))

	_, err := an.AnalyzeRepository(context.Background(), "missing", fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository info for missing")
}

// One repository's failure never aborts the fleet run.
func TestAnalyzeFleetSkipsFailedRepo(t *testing.T) {
	provider := &MockProvider{}
	sandbox := &MockSandbox{}
	an := NewAnalyzer(analyzerConfig(), provider, sandbox)

	provider.On("ListRepositories", mock.Anything).Return([]schema.RepositoryRef{
		{Name: "good-repo"}, {Name: "bad-repo"},
	}, nil)
	provider.On("GetRepositoryInfo", mock.Anything, "good-repo").
		Return(schema.RepositoryInfo{Name: "good-repo", LastCommitTime: fixedNow}, nil)
	provider.On("ListAgentFiles", mock.Anything, "good-repo").Return([]schema.AgentFile{}, nil)
	provider.On("GetRepositoryInfo", mock.Anything, "bad-repo").
		Return(schema.RepositoryInfo{}, errors.New("clone failed"))

	eco, err := an.AnalyzeFleet(context.Background(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 1, eco.TotalRepositories)
	assert.Equal(t, "good-repo", eco.Repositories[0].Repository)
}

func TestAnalyzeFleetListError(t *testing.T) {
	provider := &MockProvider{}
	an := NewAnalyzer(analyzerConfig(), provider, &MockSandbox{})

	provider.On("ListRepositories", mock.Anything).
		Return([]schema.RepositoryRef(nil), errors.New("quota exhausted"))

	_, err := an.AnalyzeFleet(context.Background(), fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list repositories")
}

func TestDaysSinceLastData(t *testing.T) {
	assert.Equal(t, -1, daysSinceLastData(nil, fixedNow))

	items := []map[string]any{{"date": fixedNow.Add(-72 * time.Hour).Format(time.RFC3339)}}
	assert.Equal(t, 3, daysSinceLastData(items, fixedNow))
}
