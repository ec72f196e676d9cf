package evaluation

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Summarize runs the full pipeline for one resolution: validation, metric
// computation, AP integration and best-threshold selection.
//
// Arguments:
//   - resolution: The input resolution the records were measured at.
//   - records: The detection records in threshold order.
//
// Returns:
//   - ResolutionSummary: The summary for the resolution.
//   - error: ErrMalformedRecord or ErrEmptySeries wrapped with the resolution.
func Summarize(resolution int, records []DetectionRecord) (ResolutionSummary, error) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return ResolutionSummary{}, errors.Wrapf(err, "resolution %d: record %d", resolution, i)
		}
	}

	tuples := ComputeMetrics(records)

	best, err := BestByF1(tuples)
	if err != nil {
		return ResolutionSummary{}, errors.Wrapf(err, "resolution %d", resolution)
	}

	return ResolutionSummary{
		Resolution:    resolution,
		AP:            AveragePrecision(tuples),
		BestThreshold: best,
		Metrics:       tuples,
	}, nil
}

// Config holds evaluator parameters.
type Config struct {
	// Concurrency bounds how many resolutions are evaluated at once.
	// Zero means runtime.NumCPU().
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// Evaluator summarizes many resolutions independently.
type Evaluator struct {
	concurrency int
	logger      *zap.SugaredLogger
}

// NewEvaluator creates an evaluator. A nil logger disables logging.
func NewEvaluator(cfg Config, logger *zap.SugaredLogger) *Evaluator {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Evaluator{
		concurrency: concurrency,
		logger:      logger,
	}
}

// Evaluate summarizes every input resolution.
//
// Resolutions are processed concurrently but the returned Summaries follow the
// order of inputs. A failing resolution is left out of the summaries and its
// error is combined into the returned error; it does not stop the others.
//
// Arguments:
//   - ctx: Cancelling it stops resolutions that have not started yet.
//   - inputs: The records of each resolution, in processing order.
//
// Returns:
//   - *Summaries: The summaries of the resolutions that succeeded. Never nil.
//   - error: The combined per-resolution failures, or nil.
func (e *Evaluator) Evaluate(ctx context.Context, inputs []ResolutionRecords) (*Summaries, error) {
	results := make([]ResolutionSummary, len(inputs))
	failures := make([]error, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				failures[i] = errors.Wrapf(err, "resolution %d", in.Resolution)
				return nil
			}

			summary, err := Summarize(in.Resolution, in.Records)
			if err != nil {
				failures[i] = err
				return nil
			}

			results[i] = summary
			e.logger.Debugw("resolution evaluated",
				"resolution", in.Resolution,
				"records", len(in.Records),
				"ap", summary.AP,
				"bestF1", summary.BestThreshold.F1,
			)
			return nil
		})
	}

	// Workers only report through failures, so Wait never returns an error.
	_ = g.Wait()

	summaries := NewSummaries(len(inputs))
	var errs error
	for i, in := range inputs {
		if failures[i] != nil {
			e.logger.Warnw("resolution skipped", "resolution", in.Resolution, "error", failures[i])
			errs = multierr.Append(errs, failures[i])
			continue
		}
		if err := summaries.Add(results[i]); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return summaries, errs
}
