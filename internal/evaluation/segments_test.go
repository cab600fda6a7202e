package evaluation

import (
	"context"
	"testing"

	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"
)

func TestEvaluateSegments_GroundTruthAnchoredUnsupported(t *testing.T) {
	opts := DefaultOptions()
	opts.BaseOnGT = true

	_, err := EvaluateSegments(context.Background(), nil, nil, opts)
	if err == nil {
		t.Fatal("EvaluateSegments() error = nil, want unsupported mode")
	}
	if !apperrors.IsUnsupportedMode(err) {
		t.Errorf("error = %v, want UNSUPPORTED_MODE", err)
	}
}

func TestEvaluateSegments_PerSegmentAP(t *testing.T) {
	// One video, two single-instance segments of the same triplet at
	// disjoint locations, and one prediction matching each.
	//
	// Segment 1 sees ranked hits [hit, miss]: prec = [1, .5],
	// rec = [1, 1] => AP = 1.
	// Segment 2 sees [miss, hit]: prec = [0, .5], rec = [0, 1];
	// envelope AP = 0.5. Mean AP = 0.75.
	//
	// Pooled recall@50: 4 pooled entries, 2 hits, denominator = total
	// predictions (2) => 1.0.
	segA := relation("dog", "chase", "cat", boxFull, boxFull, 0, 10)
	segB := relation("dog", "chase", "cat", boxFar, boxFar, 20, 30)

	groundtruth := map[string][]Instance{"vid": {segA, segB}}
	prediction := map[string][]Prediction{
		"vid": {scored(segA, 0.9), scored(segB, 0.8)},
	}

	opts := DefaultOptions()
	opts.BaseOnGT = false
	res, err := EvaluateSegments(context.Background(), groundtruth, prediction, opts)
	if err != nil {
		t.Fatalf("EvaluateSegments() error = %v", err)
	}

	if !approxEqual(res.MeanAP, 0.75) {
		t.Errorf("MeanAP = %f, want 0.75", res.MeanAP)
	}
	if res.Count != 2 {
		t.Errorf("Count = %d, want 2 segments", res.Count)
	}
	if !approxEqual(res.RecallAtN[50], 1.0) {
		t.Errorf("RecallAtN[50] = %f, want 1.0", res.RecallAtN[50])
	}
	if res.VideoAP != nil {
		t.Error("VideoAP should be nil for segment-level runs")
	}
}

func TestEvaluateSegments_SkipsVideosWithoutPredictions(t *testing.T) {
	seg := relation("a", "p", "b", boxFull, boxFull, 0, 5)
	groundtruth := map[string][]Instance{
		"silent": {seg},
	}
	prediction := map[string][]Prediction{
		"silent": {},
	}

	opts := DefaultOptions()
	opts.BaseOnGT = false
	res, err := EvaluateSegments(context.Background(), groundtruth, prediction, opts)
	if err != nil {
		t.Fatalf("EvaluateSegments() error = %v", err)
	}
	if !res.EmptyCorpus {
		t.Error("EmptyCorpus = false, want true when every video has no predictions")
	}
}
