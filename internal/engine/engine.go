package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"revq/internal/adapters"
	"revq/internal/dedup"
	"revq/internal/ingest"
	"revq/internal/issues"
	"revq/internal/logging"
	"revq/internal/policy"
	"revq/internal/recommend"
	"revq/internal/report"
	"revq/internal/risk"
	"revq/internal/scoring"
)

// Engine wires the full aggregation pipeline: adapters fan out over the
// bundle's analyzer outputs, a barrier waits for every task, then the
// deduplicated set flows through scoring, recommendations, and risk
// classification into one sealed report. The engine is stateless between
// runs; only the read-only policy tables persist for its lifetime.
type Engine struct {
	policy     *policy.Policy
	registry   *adapters.Registry
	dedup      *dedup.Deduplicator
	scorer     *scoring.Engine
	classifier *risk.Classifier
	generator  *recommend.Generator
	logger     *logging.Logger
	workers    int
}

// New creates an engine bound to one validated policy version.
func New(p *policy.Policy, logger *logging.Logger, workers int) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if workers <= 0 {
		workers = 4
	}

	scorer := scoring.NewEngine(p)
	return &Engine{
		policy:     p,
		registry:   adapters.NewRegistry(),
		dedup:      dedup.New(p),
		scorer:     scorer,
		classifier: risk.NewClassifier(p),
		generator:  recommend.NewGenerator(p, scorer),
		logger:     logger,
		workers:    workers,
	}, nil
}

// adapterResult carries one adapter invocation's outcome back across the
// barrier.
type adapterResult struct {
	analyzer string
	issues   []issues.Issue
	failed   bool
}

// Review runs the pipeline for one diagnostics bundle and returns the
// sealed report. Adapter tasks run in parallel; the merge into one issue
// stream waits for all of them, because partial results must never be
// scored. A single analyzer failing degrades coverage but never aborts
// the run.
func (e *Engine) Review(ctx context.Context, bundle *ingest.DiagnosticsBundle) (*report.AggregateReport, error) {
	start := time.Now()

	if err := bundle.Validate(); err != nil {
		return nil, err
	}

	analyzerIDs := make([]string, 0, len(bundle.Diagnostics))
	for id := range bundle.Diagnostics {
		analyzerIDs = append(analyzerIDs, id)
	}
	sort.Strings(analyzerIDs)

	results := e.runAdapters(ctx, bundle, analyzerIDs)

	// Cancellation leaves an incomplete issue stream; a report sealed
	// from it would understate the change-set, so no report at all.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []issues.Issue
	parseFailed := make(map[string]bool)
	for _, res := range results {
		all = append(all, res.issues...)
		if res.failed {
			parseFailed[res.analyzer] = true
		}
	}

	deduped := e.dedup.Dedup(all)
	result := &issues.AnalysisResult{
		Changeset: bundle.Changeset,
		Issues:    deduped,
		Files:     bundle.Files,
	}

	score := e.scorer.Score(result)
	recs := e.generator.Recommend(result)
	level := e.classifier.Classify(score, result.Issues)
	coverage := e.coverageWarnings(bundle, parseFailed)

	rep := report.Assemble(result, e.policy.Version, score, level, recs, coverage)

	e.logger.Info("review completed", logging.Fields{
		"changeset":   bundle.Changeset,
		"rawIssues":   len(all),
		"totalIssues": rep.TotalIssues,
		"score":       rep.Score,
		"riskLevel":   rep.RiskLevel,
		"duration":    time.Since(start).Milliseconds(),
	})
	return rep, nil
}

// runAdapters fans one task per analyzer out over the worker pool and
// blocks until every task finished. The barrier, not a stream: dedup and
// scoring need the complete issue set.
func (e *Engine) runAdapters(ctx context.Context, bundle *ingest.DiagnosticsBundle, analyzerIDs []string) []adapterResult {
	tasks := make(chan string)
	out := make(chan adapterResult, len(analyzerIDs))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for analyzer := range tasks {
				out <- e.runAdapter(analyzer, bundle.Diagnostics[analyzer])
			}
		}()
	}

	for _, id := range analyzerIDs {
		select {
		case tasks <- id:
		case <-ctx.Done():
			// Stop feeding; tasks already started still drain into out.
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(tasks)
	wg.Wait()
	close(out)

	results := make([]adapterResult, 0, len(analyzerIDs))
	for res := range out {
		results = append(results, res)
	}
	return results
}

// runAdapter executes one adapter invocation in isolation.
func (e *Engine) runAdapter(analyzer string, raw []byte) adapterResult {
	adapter, ok := e.registry.Lookup(analyzer)
	if !ok {
		e.logger.Warn("no adapter for analyzer", logging.Fields{
			"analyzer": analyzer,
		})
		return adapterResult{analyzer: analyzer, failed: true}
	}

	normalized, err := adapter.Normalize(raw)
	if err != nil {
		// The whole payload was unusable. The adapter's synthetic issue
		// carries the failure into the report; coverage degrades, the
		// run continues. Bad records inside a parseable payload recover
		// locally and never reach this branch.
		e.logger.Warn("analyzer payload unusable", logging.Fields{
			"analyzer": analyzer,
			"error":    err.Error(),
		})
		return adapterResult{analyzer: analyzer, issues: normalized, failed: true}
	}

	return adapterResult{analyzer: analyzer, issues: normalized, failed: false}
}

// coverageWarnings reports every analyzer whose run contributed no
// usable output. An analyzer that ran cleanly and found nothing is not
// degraded coverage; one that was absent or whose payload could not be
// parsed is. Recovered bad records inside a parseable payload do not
// degrade coverage.
func (e *Engine) coverageWarnings(bundle *ingest.DiagnosticsBundle, parseFailed map[string]bool) []report.CoverageWarning {
	var warnings []report.CoverageWarning

	expected := make([]string, len(bundle.Expected))
	copy(expected, bundle.Expected)
	sort.Strings(expected)

	for _, analyzer := range expected {
		if _, present := bundle.Diagnostics[analyzer]; !present {
			warnings = append(warnings, report.CoverageWarning{
				Analyzer: analyzer,
				Reason:   "expected analyzer produced no output",
			})
			continue
		}
		if parseFailed[analyzer] {
			warnings = append(warnings, report.CoverageWarning{
				Analyzer: analyzer,
				Reason:   "analyzer output could not be parsed",
			})
		}
	}

	for analyzer := range parseFailed {
		if !inList(expected, analyzer) {
			warnings = append(warnings, report.CoverageWarning{
				Analyzer: analyzer,
				Reason:   "analyzer output could not be used",
			})
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].Analyzer < warnings[j].Analyzer
	})
	return warnings
}

func inList(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
