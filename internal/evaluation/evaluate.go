package evaluation

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Options configure a corpus evaluation run.
type Options struct {
	// BaseOnGT selects ground-truth-anchored video iteration (the
	// primary mode) over prediction-anchored iteration.
	BaseOnGT bool

	// VIoUThreshold is the minimum spatio-temporal overlap for a
	// detection match.
	VIoUThreshold float64

	// DetectionNReturns are the per-video rank cutoffs pooled into
	// corpus recall@N.
	DetectionNReturns []int

	// TaggingNReturns are the rank cutoffs for mean tagging precision@N.
	TaggingNReturns []int

	// Workers bounds how many videos are evaluated concurrently.
	// Values below 1 fall back to GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the challenge evaluation settings.
func DefaultOptions() Options {
	return Options{
		BaseOnGT:          true,
		VIoUThreshold:     0.5,
		DetectionNReturns: []int{50, 100},
		TaggingNReturns:   []int{1, 5, 10},
		Workers:           runtime.GOMAXPROCS(0),
	}
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// videoScores is one video's (or segment's) contribution to the corpus
// aggregate. Scoring owns its slices exclusively; aggregation reads them
// only after every contribution is collected.
type videoScores struct {
	vid     string
	ap      float64
	detHits map[int][]RankedHit // top-N detection hits per cutoff
	tagPrec map[int]float64     // tagging precision at each cutoff
}

func scoreVideo(vid string, gt []Instance, preds []Prediction, opts Options) videoScores {
	vs := videoScores{
		vid:     vid,
		detHits: make(map[int][]RankedHit, len(opts.DetectionNReturns)),
		tagPrec: make(map[int]float64, len(opts.TaggingNReturns)),
	}

	detPrec, detRec, detHits := DetectionScores(gt, preds, opts.VIoUThreshold)
	vs.ap = VOCAveragePrecision(detRec, detPrec)
	for _, n := range opts.DetectionNReturns {
		cut := min(n, len(detHits))
		vs.detHits[n] = detHits[:cut]
	}

	// A video with fewer than n retained triplets contributes 0 at
	// that cutoff.
	tagPrec, _, _ := TaggingScores(gt, preds)
	for _, n := range opts.TaggingNReturns {
		if n <= len(tagPrec) {
			vs.tagPrec[n] = tagPrec[n-1]
		}
	}
	return vs
}

// Evaluate computes corpus-level relation detection and tagging scores.
//
// In ground-truth-anchored mode it visits every video present in
// groundtruth that has at least one relation; a video absent from
// prediction is evaluated against an empty prediction list. In
// prediction-anchored mode it visits videos present in prediction with
// at least one prediction, and the pooled recall denominator is the
// total prediction count instead of the total ground-truth count.
//
// Videos are scored concurrently; aggregation happens after all videos
// complete, so results do not depend on scheduling order.
func Evaluate(ctx context.Context, groundtruth map[string][]Instance, prediction map[string][]Prediction, opts Options) (*Result, error) {
	if err := validateGroundTruth(groundtruth); err != nil {
		return nil, err
	}
	if err := validatePredictions(prediction); err != nil {
		return nil, err
	}

	var vids []string
	totalRelevant := 0
	if opts.BaseOnGT {
		for vid, insts := range groundtruth {
			if len(insts) == 0 {
				continue
			}
			vids = append(vids, vid)
			totalRelevant += len(insts)
		}
	} else {
		for vid, preds := range prediction {
			if len(preds) == 0 {
				continue
			}
			vids = append(vids, vid)
			totalRelevant += len(preds)
		}
	}
	sort.Strings(vids)

	scores := make([]videoScores, len(vids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, vid := range vids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores[i] = scoreVideo(vid, groundtruth[vid], prediction[vid], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregate(scores, totalRelevant, opts, true), nil
}

func aggregate(scores []videoScores, totalRelevant int, opts Options, perVideoAP bool) *Result {
	res := &Result{
		RecallAtN:       make(map[int]float64, len(opts.DetectionNReturns)),
		TagPrecisionAtN: make(map[int]float64, len(opts.TaggingNReturns)),
		Count:           len(scores),
	}
	for _, n := range opts.DetectionNReturns {
		res.RecallAtN[n] = 0
	}
	for _, n := range opts.TaggingNReturns {
		res.TagPrecisionAtN[n] = 0
	}
	if len(scores) == 0 {
		res.EmptyCorpus = true
		return res
	}
	if perVideoAP {
		res.VideoAP = make(map[string]float64, len(scores))
	}

	var apSum float64
	pooled := make(map[int][]RankedHit, len(opts.DetectionNReturns))
	tagSums := make(map[int]float64, len(opts.TaggingNReturns))
	for _, vs := range scores {
		apSum += vs.ap
		if perVideoAP {
			res.VideoAP[vs.vid] = vs.ap
		}
		for _, n := range opts.DetectionNReturns {
			pooled[n] = append(pooled[n], vs.detHits[n]...)
		}
		for _, n := range opts.TaggingNReturns {
			tagSums[n] += vs.tagPrec[n]
		}
	}

	res.MeanAP = apSum / float64(len(scores))
	for _, n := range opts.DetectionNReturns {
		res.RecallAtN[n] = pooledRecall(pooled[n], totalRelevant)
	}
	for _, n := range opts.TaggingNReturns {
		res.TagPrecisionAtN[n] = tagSums[n] / float64(len(scores))
	}
	return res
}

// pooledRecall re-ranks the pooled per-video top-N hits globally by
// score and reads the cumulative recall at the last pooled rank.
func pooledRecall(pool []RankedHit, totalRelevant int) float64 {
	if len(pool) == 0 {
		return 0
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})
	_, rec := cumulativeCurves(pool, totalRelevant)
	return rec[len(rec)-1]
}
