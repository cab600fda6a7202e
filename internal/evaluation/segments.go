package evaluation

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"
)

// EvaluateSegments computes relation scores against temporally segmented
// ground truth: each ground-truth relation instance is treated as an
// independent single-instance segment, matched against its video's full
// prediction list, yielding one AP value per segment. The pooled recall
// denominator is the total prediction count.
//
// Only prediction-anchored iteration is implemented; requesting the
// ground-truth-anchored mode returns an UnsupportedMode error. That
// branch has no defined semantics upstream and failing loudly beats
// guessing them.
func EvaluateSegments(ctx context.Context, groundtruth map[string][]Instance, prediction map[string][]Prediction, opts Options) (*Result, error) {
	if opts.BaseOnGT {
		return nil, apperrors.UnsupportedModeError("ground-truth-anchored segment evaluation")
	}
	if err := validateGroundTruth(groundtruth); err != nil {
		return nil, err
	}
	if err := validatePredictions(prediction); err != nil {
		return nil, err
	}

	var vids []string
	for vid, preds := range prediction {
		if len(preds) == 0 {
			continue
		}
		vids = append(vids, vid)
	}
	sort.Strings(vids)

	type segment struct {
		vid string
		gt  Instance
	}
	var segs []segment
	totalPredictions := 0
	for _, vid := range vids {
		totalPredictions += len(prediction[vid])
		for _, gt := range groundtruth[vid] {
			segs = append(segs, segment{vid: vid, gt: gt})
		}
	}

	scores := make([]videoScores, len(segs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, seg := range segs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores[i] = scoreVideo(seg.vid, []Instance{seg.gt}, prediction[seg.vid], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregate(scores, totalPredictions, opts, false), nil
}
