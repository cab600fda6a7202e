package evaluation

import (
	"math"
	"sort"
)

// epsilon guards divisions when a video has no ground truth or no
// predictions (float32 machine epsilon, matching the curve semantics the
// reported scores are defined against).
const epsilon = 1.1920929e-07

// rankByScore returns a copy of preds sorted by score descending. The
// sort is stable: predictions with equal scores keep their input order,
// which fixes which of two tied predictions gets to claim a ground-truth
// instance first.
func rankByScore(preds []Prediction) []Prediction {
	ranked := make([]Prediction, len(preds))
	copy(ranked, preds)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// cumulativeCurves converts a rank-ordered hit sequence into cumulative
// precision and recall. nrelevant is the recall denominator (total
// ground-truth instances, or unique ground-truth triplets for tagging).
// Recall is non-decreasing by construction; precision is not monotonic.
func cumulativeCurves(hits []RankedHit, nrelevant int) (prec, rec []float64) {
	prec = make([]float64, len(hits))
	rec = make([]float64, len(hits))
	tp := 0
	for i, h := range hits {
		if h.Hit {
			tp++
		}
		rec[i] = float64(tp) / math.Max(float64(nrelevant), epsilon)
		prec[i] = float64(tp) / math.Max(float64(i+1), epsilon)
	}
	return prec, rec
}

// VOCAveragePrecision integrates the precision-recall curve using the
// PASCAL VOC interpolated precision envelope: precision at recall r is
// the maximum precision among all measured points with recall >= r, and
// the area under the resulting step function is summed over recall
// transitions. Returns 0 for empty input.
func VOCAveragePrecision(rec, prec []float64) float64 {
	if len(rec) == 0 {
		return 0
	}

	mrec := make([]float64, 0, len(rec)+2)
	mrec = append(mrec, 0)
	mrec = append(mrec, rec...)
	mrec = append(mrec, 1)

	mpre := make([]float64, 0, len(prec)+2)
	mpre = append(mpre, 0)
	mpre = append(mpre, prec...)
	mpre = append(mpre, 0)

	// precision envelope, right to left
	for i := len(mpre) - 2; i >= 0; i-- {
		if mpre[i] < mpre[i+1] {
			mpre[i] = mpre[i+1]
		}
	}

	var ap float64
	for i := 0; i < len(mrec)-1; i++ {
		if mrec[i+1] != mrec[i] {
			ap += (mrec[i+1] - mrec[i]) * mpre[i+1]
		}
	}
	return ap
}
