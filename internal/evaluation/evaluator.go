package evaluation

import (
	"context"

	"github.com/vrdeval/vrd-eval/internal/pkg/logger"
)

// Evaluator runs corpus evaluations with progress logging. The metric
// functions themselves are pure; this is the orchestration layer callers
// use.
type Evaluator struct {
	opts Options
	log  *logger.Logger
}

// NewEvaluator creates an evaluator with the given options.
func NewEvaluator(opts Options, log *logger.Logger) *Evaluator {
	if log == nil {
		log = logger.Default()
	}
	return &Evaluator{opts: opts, log: log}
}

// Options returns the evaluator's options.
func (e *Evaluator) Options() Options {
	return e.opts
}

// Relations evaluates visual relation detection and tagging at the
// video level.
func (e *Evaluator) Relations(ctx context.Context, groundtruth map[string][]Instance, prediction map[string][]Prediction) (*Result, error) {
	anchor := "groundtruth"
	count := len(groundtruth)
	if !e.opts.BaseOnGT {
		anchor = "prediction"
		count = len(prediction)
	}
	e.log.Info("computing average precision over videos",
		"anchor", anchor,
		"videos", count,
		"viou_threshold", e.opts.VIoUThreshold,
	)

	res, err := Evaluate(ctx, groundtruth, prediction, e.opts)
	if err != nil {
		return nil, err
	}
	e.logResult(res)
	return res, nil
}

// Segments evaluates visual relation detection and tagging at the
// temporal segment level.
func (e *Evaluator) Segments(ctx context.Context, groundtruth map[string][]Instance, prediction map[string][]Prediction) (*Result, error) {
	e.log.Info("computing average precision over segments",
		"videos", len(prediction),
		"viou_threshold", e.opts.VIoUThreshold,
	)

	res, err := EvaluateSegments(ctx, groundtruth, prediction, e.opts)
	if err != nil {
		return nil, err
	}
	e.logResult(res)
	return res, nil
}

// ZeroShot re-runs the evaluation on the subsets restricted to the given
// unseen-triplet set. segments selects segment-level aggregation.
func (e *Evaluator) ZeroShot(ctx context.Context, groundtruth map[string][]Instance, prediction map[string][]Prediction, zeroshot TripletSet, segments bool) (*Result, error) {
	zsGT, zsPred := ZeroShotSubsets(groundtruth, prediction, zeroshot)
	e.log.Info("zero-shot setting",
		"zeroshot_triplets", len(zeroshot),
		"videos", len(zsGT),
	)
	if segments {
		return e.Segments(ctx, zsGT, zsPred)
	}
	return e.Relations(ctx, zsGT, zsPred)
}

func (e *Evaluator) logResult(res *Result) {
	if res.EmptyCorpus {
		e.log.Warn("no videos contributed any relevant instances")
		return
	}
	e.log.Info("evaluation complete",
		"count", res.Count,
		"mean_ap", res.MeanAP,
	)
}
