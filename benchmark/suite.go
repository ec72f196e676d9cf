package benchmark

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-deteval/charts"
	"github.com/nvr-ai/go-deteval/evaluation"
	"github.com/nvr-ai/go-deteval/report"
	"github.com/nvr-ai/go-deteval/util"
)

// ErrNoScenarios indicates Run was called before any scenario was added.
var ErrNoScenarios = errors.New("benchmark: no scenarios")

// Result is the outcome of a run.
type Result struct {
	RunID     uuid.UUID
	Summaries *evaluation.Summaries
	Best      evaluation.ResolutionSummary
	// Failures lists the resolutions that could not be evaluated.
	Failures []error
	Metrics  RunMetrics
	// Outputs lists every file written, in write order.
	Outputs []string
}

// Suite manages and executes evaluation scenarios
type Suite struct {
	config    *Config
	logger    *zap.SugaredLogger
	evaluator *evaluation.Evaluator
	mu        sync.RWMutex
	scenarios []Scenario
}

// NewSuite creates a new evaluation suite.
//
// Arguments:
//   - config: The run configuration. A nil config uses DefaultConfig.
//   - logger: The logger. A nil logger disables logging.
//
// Returns:
//   - *Suite: The evaluation suite.
func NewSuite(config *Config, logger *zap.SugaredLogger) *Suite {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Suite{
		config:    config,
		logger:    logger,
		evaluator: evaluation.NewEvaluator(evaluation.Config{Concurrency: config.Concurrency}, logger),
		scenarios: make([]Scenario, 0, len(config.Resolutions)),
	}
}

// AddScenario adds a scenario to the suite
func (s *Suite) AddScenario(scenario Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios = append(s.scenarios, scenario)
}

// AddScenarioSet adds every scenario of a set, in order
func (s *Suite) AddScenarioSet(set *ScenarioSet) {
	for _, scenario := range set.Scenarios {
		s.AddScenario(scenario)
	}
}

// Scenarios returns a copy of the configured scenarios
func (s *Suite) Scenarios() []Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scenarios := make([]Scenario, len(s.scenarios))
	copy(scenarios, s.scenarios)
	return scenarios
}

// Run loads, evaluates and reports every scenario.
//
// A scenario whose records cannot be loaded or evaluated is reported in
// Result.Failures and left out of the selection. Run fails only when no
// scenario could be evaluated or the results cannot be written.
//
// Arguments:
//   - ctx: Cancels loading and evaluation of scenarios not yet started.
//
// Returns:
//   - *Result: The run result. Non-nil whenever evaluation took place.
//   - error: ErrNoScenarios, evaluation.ErrNoResolutions or an output error.
func (s *Suite) Run(ctx context.Context) (*Result, error) {
	scenarios := s.Scenarios()
	if len(scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	startMem := readMemStats()
	start := time.Now()

	result := &Result{
		RunID: uuid.New(),
		Metrics: RunMetrics{
			Timestamp: start,
			Scenarios: make([]ScenarioMetrics, len(scenarios)),
		},
	}

	inputs := make([]evaluation.ResolutionRecords, 0, len(scenarios))
	for i, scenario := range scenarios {
		sm := &result.Metrics.Scenarios[i]
		sm.Scenario = scenario.Name
		sm.Resolution = scenario.Resolution

		if err := ctx.Err(); err != nil {
			err = errors.Wrapf(err, "resolution %d", scenario.Resolution)
			sm.Error = err.Error()
			result.Failures = append(result.Failures, err)
			continue
		}

		loadStart := time.Now()
		records, err := s.loadRecords(scenario)
		sm.LoadDuration = time.Since(loadStart)
		if err != nil {
			err = errors.Wrapf(err, "resolution %d", scenario.Resolution)
			sm.Error = err.Error()
			result.Failures = append(result.Failures, err)
			s.logger.Warnw("scenario skipped", "scenario", scenario.Name, "error", err)
			continue
		}

		sm.RecordCount = len(records)
		s.logger.Debugw("scenario loaded", "scenario", scenario.Describe(), "records", len(records))
		inputs = append(inputs, evaluation.ResolutionRecords{
			Resolution: scenario.Resolution,
			Records:    records,
		})
	}

	evalStart := time.Now()
	summaries, err := s.evaluator.Evaluate(ctx, inputs)
	result.Metrics.EvaluationDuration = time.Since(evalStart)
	result.Summaries = summaries
	result.Failures = append(result.Failures, multierr.Errors(err)...)
	for i := range result.Metrics.Scenarios {
		sm := &result.Metrics.Scenarios[i]
		if _, ok := summaries.Get(sm.Resolution); !ok && sm.Error == "" {
			sm.Error = "evaluation failed"
		}
	}

	best, err := evaluation.Best(summaries)
	if err != nil {
		result.Metrics.TotalDuration = time.Since(start)
		return result, errors.Wrapf(err, "%d scenarios failed", len(result.Failures))
	}
	result.Best = best

	s.logger.Infow("best resolution selected",
		"resolution", best.Resolution,
		"ap", best.AP,
		"threshold", best.BestThreshold.ConfidenceThreshold,
		"f1", best.BestThreshold.F1,
	)

	reportStart := time.Now()
	if err := s.SaveResults(result); err != nil {
		return result, err
	}
	result.Metrics.ReportDuration = time.Since(reportStart)
	result.Metrics.TotalDuration = time.Since(start)
	result.Metrics.MemoryStats = memoryDelta(startMem, readMemStats())

	return result, nil
}

func (s *Suite) loadRecords(scenario Scenario) ([]evaluation.DetectionRecord, error) {
	if scenario.Records != nil {
		return scenario.Records, nil
	}
	if scenario.RecordsPath == "" {
		return nil, errors.Errorf("scenario %s has no records", scenario.Name)
	}
	return util.LoadRecordsFile(scenario.RecordsPath)
}

// SaveResults persists a run's report, tables and plots to the output directory.
func (s *Suite) SaveResults(result *Result) error {
	if err := os.MkdirAll(s.config.OutputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	if err := s.writeFile(result, report.TextFileName, func(f *os.File) error {
		return report.WriteText(f, result.Best, result.Summaries)
	}); err != nil {
		return err
	}

	if s.config.WriteJSON {
		doc := report.Document{
			RunID:       result.RunID,
			GeneratedAt: result.Metrics.Timestamp,
			Best:        result.Best,
			Resolutions: result.Summaries,
		}
		for _, f := range result.Failures {
			doc.Failures = append(doc.Failures, f.Error())
		}
		if err := s.writeFile(result, report.JSONFileName, func(f *os.File) error {
			return report.WriteJSON(f, doc)
		}); err != nil {
			return err
		}
	}

	if s.config.WriteCSV {
		if err := s.writeFile(result, report.CSVFileName, func(f *os.File) error {
			return report.WriteCSV(f, result.Summaries)
		}); err != nil {
			return err
		}
	}

	if !s.config.Plots.Enabled {
		return nil
	}

	opts := s.config.Plots.Options()
	for _, summary := range result.Summaries.Items() {
		plotStart := time.Now()
		path, err := charts.SavePRCurve(s.config.OutputDir, summary, opts)
		if err != nil {
			return errors.Wrap(err, "failed to save precision-recall curve")
		}
		result.Outputs = append(result.Outputs, path)
		for i := range result.Metrics.Scenarios {
			if result.Metrics.Scenarios[i].Resolution == summary.Resolution {
				result.Metrics.Scenarios[i].PlotDuration = time.Since(plotStart)
			}
		}
	}

	if s.config.Plots.HTML {
		if err := s.writeFile(result, charts.HTMLFileName, func(f *os.File) error {
			return charts.RenderHTML(f, result.Summaries.Items())
		}); err != nil {
			return err
		}
	}

	return nil
}

func (s *Suite) writeFile(result *Result, name string, write func(f *os.File) error) error {
	path := filepath.Join(s.config.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", name)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", name)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", name)
	}

	result.Outputs = append(result.Outputs, path)
	s.logger.Debugw("output written", "path", path)
	return nil
}
