package evaluation

import (
	"fmt"
	"math"

	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"
)

// A corrupted corpus makes downstream mAP meaningless, so validation
// failures abort the whole evaluation rather than degrading to a
// best-effort aggregate.

func validateInstance(vid string, idx int, inst Instance) error {
	if inst.Triplet.Subject == "" || inst.Triplet.Predicate == "" || inst.Triplet.Object == "" {
		return malformed(vid, idx, "incomplete triplet")
	}
	if inst.Duration.Frames() <= 0 {
		return malformed(vid, idx, fmt.Sprintf("empty duration [%d, %d)", inst.Duration.Start, inst.Duration.End))
	}
	if len(inst.SubTraj) != inst.Duration.Frames() {
		return malformed(vid, idx, fmt.Sprintf("subject trajectory has %d boxes for %d frames", len(inst.SubTraj), inst.Duration.Frames()))
	}
	if len(inst.ObjTraj) != inst.Duration.Frames() {
		return malformed(vid, idx, fmt.Sprintf("object trajectory has %d boxes for %d frames", len(inst.ObjTraj), inst.Duration.Frames()))
	}
	return nil
}

func validateGroundTruth(groundtruth map[string][]Instance) error {
	for vid, insts := range groundtruth {
		for i, inst := range insts {
			if err := validateInstance(vid, i, inst); err != nil {
				return err
			}
		}
	}
	return nil
}

func validatePredictions(prediction map[string][]Prediction) error {
	for vid, preds := range prediction {
		for i, pred := range preds {
			if err := validateInstance(vid, i, pred.Instance); err != nil {
				return err
			}
			if math.IsNaN(pred.Score) {
				return malformed(vid, i, "NaN score")
			}
		}
	}
	return nil
}

func malformed(vid string, idx int, reason string) error {
	return apperrors.MalformedInstanceError(reason).
		WithDetail("video", vid).
		WithDetail("instance", fmt.Sprintf("%d", idx))
}
