package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/civicscan/fleetdoctor/core/report"
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
)

// Analyzer sequences the core components per agent, per repository and per
// fleet. It holds no decision logic of its own; all scoring lives in the
// components it composes.
type Analyzer struct {
	cfg      *contract.Config
	provider contract.MetadataProvider
	sandbox  contract.Sandbox

	classifier *Classifier
	complexity *ComplexityAssessor
	effort     *EffortEstimator
	priority   *PriorityScorer
	candidacy  *CandidacyScorer

	priorImpl map[string]struct{}
}

// NewAnalyzer wires the core components from the validated config.
func NewAnalyzer(cfg *contract.Config, provider contract.MetadataProvider, sandbox contract.Sandbox) *Analyzer {
	prior := make(map[string]struct{}, len(cfg.PriorImplementations))
	for _, name := range cfg.PriorImplementations {
		prior[name] = struct{}{}
	}
	return &Analyzer{
		cfg:        cfg,
		provider:   provider,
		sandbox:    sandbox,
		classifier: NewClassifier(cfg.Classifier),
		complexity: NewComplexityAssessor(cfg.Complexity),
		effort:     NewEffortEstimator(cfg.Effort),
		priority:   NewPriorityScorer(cfg.Priority),
		candidacy:  NewCandidacyScorer(cfg.Candidacy, cfg.Complexity),
		priorImpl:  prior,
	}
}

// AnalyzeAgent runs one scraper in the sandbox and builds its assessment.
// The sandbox's own timeout bounds the run; no additional timeout applies.
func (an *Analyzer) AnalyzeAgent(ctx context.Context, repo string, workDir string, file schema.AgentFile, now time.Time) (schema.ScraperAssessment, error) {
	meta, err := an.provider.GetAgentMetadata(ctx, repo, file)
	if err != nil {
		return schema.ScraperAssessment{}, fmt.Errorf("metadata for %s: %w", file.Path, err)
	}

	res, err := an.sandbox.Execute(ctx, workDir, meta.AgentName, an.cfg.SandboxTimeout)
	if err != nil {
		return schema.ScraperAssessment{}, fmt.Errorf("execute %s: %w", meta.AgentName, err)
	}

	return an.Assess(meta, res, repo, now), nil
}

// Assess composes the five component results into one ScraperAssessment.
// It is the only place an assessment is constructed.
func (an *Analyzer) Assess(meta schema.AgentMetadata, res schema.ExecutionResult, repo string, now time.Time) schema.ScraperAssessment {
	classification := an.classifier.Classify(res, now)
	complexity := an.complexity.Assess(meta.LineCount, meta.SharedBaseMarkers)
	dep := an.complexity.DependencyFor(meta.SharedBaseMarkers)
	effort := an.effort.Estimate(classification.Status, complexity, dep)

	priority := an.priority.Score(PriorityInput{
		AgencyName:        meta.AgencyName,
		AssignmentCount:   len(meta.StartURLs),
		DaysSinceLastData: daysSinceLastData(res.Items, now),
		RepairHours:       effort.TotalHours,
		Status:            classification.Status,
	})

	_, hasPrior := an.priorImpl[meta.AgentName]
	candidacy := an.candidacy.Assess(CandidacyInput{
		Status:                 classification.Status,
		HasPriorImplementation: hasPrior,
		Complexity:             complexity,
		EffortTier:             effort.Tier,
		SharedBaseMarkers:      meta.SharedBaseMarkers,
	})

	return schema.ScraperAssessment{
		Repository:      repo,
		AgentName:       meta.AgentName,
		AgencyName:      meta.AgencyName,
		FilePath:        meta.FilePath,
		StartURLs:       meta.StartURLs,
		LastModified:    meta.LastModified,
		LineCount:       meta.LineCount,
		ItemCount:       res.ItemCount,
		DurationSeconds: res.DurationSeconds,
		Classification:  classification,
		Complexity:      complexity,
		Effort:          effort,
		Priority:        priority,
		Candidacy:       candidacy,
		AssessedAt:      now,
	}
}

// AnalyzeRepository discovers a repository's agents and assesses each one
// with a worker pool. One agent's failure never aborts its siblings; failed
// agents are logged and excluded from aggregation.
func (an *Analyzer) AnalyzeRepository(ctx context.Context, name string, now time.Time) (schema.RepositoryReport, error) {
	info, err := an.provider.GetRepositoryInfo(ctx, name)
	if err != nil {
		return schema.RepositoryReport{}, fmt.Errorf("repository info for %s: %w", name, err)
	}
	dormancy := an.classifier.ClassifyDormancy(info.LastCommitTime, info.LastAutomatedRunTime, now)

	files, err := an.provider.ListAgentFiles(ctx, name)
	if err != nil {
		return schema.RepositoryReport{}, fmt.Errorf("list agents for %s: %w", name, err)
	}

	builder := report.NewRepositoryBuilder(name, an.cfg.Report).SetDormancy(dormancy)
	if len(files) == 0 {
		return builder.Build(now), nil
	}

	workDir, err := an.sandbox.Setup(ctx, info.CloneLocator)
	if err != nil {
		return schema.RepositoryReport{}, fmt.Errorf("sandbox setup for %s: %w", name, err)
	}
	defer func() {
		if err := an.sandbox.Teardown(workDir); err != nil {
			contract.LogWarn(fmt.Sprintf("sandbox teardown for %s", name), err)
		}
	}()

	fileCh := make(chan schema.AgentFile, len(files))
	resultCh := make(chan schema.ScraperAssessment, len(files))
	var wg sync.WaitGroup

	for range an.cfg.Workers {
		wg.Go(func() {
			for f := range fileCh {
				assessment, err := an.AnalyzeAgent(ctx, name, workDir, f, now)
				if err != nil {
					contract.LogWarn(fmt.Sprintf("skipping agent %s in %s", f.Name, name), err)
					continue
				}
				resultCh <- assessment
			}
		})
	}

	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)
	wg.Wait()
	close(resultCh)

	for assessment := range resultCh {
		builder.Add(assessment)
	}
	return builder.Build(now), nil
}

// AnalyzeFleet analyzes every repository the provider knows about.
// Repositories are independent; one repository's failure is logged and the
// ecosystem report covers whatever succeeded.
func (an *Analyzer) AnalyzeFleet(ctx context.Context, now time.Time) (schema.EcosystemReport, error) {
	repos, err := an.provider.ListRepositories(ctx)
	if err != nil {
		return schema.EcosystemReport{}, fmt.Errorf("list repositories: %w", err)
	}

	builder := report.NewEcosystemBuilder(an.cfg.Report)
	for _, ref := range repos {
		rep, err := an.AnalyzeRepository(ctx, ref.Name, now)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("skipping repository %s", ref.Name), err)
			continue
		}
		builder.Add(rep)
	}
	return builder.Build(now), nil
}

// daysSinceLastData derives the freshness signal from the extracted
// records; -1 means unknown.
func daysSinceLastData(items []map[string]any, now time.Time) int {
	newest, ok := newestItemDate(items)
	if !ok {
		return -1
	}
	return int(now.Sub(newest).Hours() / 24)
}
