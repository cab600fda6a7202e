package evaluation

import "math"

// DetectionScores greedily matches predicted relation instances against
// unclaimed ground-truth instances of the same triplet for one video.
//
// Predictions are ranked by score descending (stable on ties). Each
// prediction in rank order considers every unclaimed ground-truth
// instance with an identical triplet, scoring the pair by
// min(subject trajectory IoU, object trajectory IoU); it claims the
// qualifying candidate with the maximal overlap at or above
// viouThreshold, not the first qualifying one. A claim marks the
// prediction a hit and retires the ground-truth instance for the rest of
// the pass.
//
// Returns cumulative precision and recall over rank order plus the
// rank-aligned hit labels. All three slices have length len(preds).
func DetectionScores(gt []Instance, preds []Prediction, viouThreshold float64) (prec, rec []float64, hits []RankedHit) {
	ranked := rankByScore(preds)
	detected := make([]bool, len(gt))
	hits = make([]RankedHit, len(ranked))

	for i, pred := range ranked {
		ovMax := math.Inf(-1)
		kMax := -1
		for k := range gt {
			if detected[k] || gt[k].Triplet != pred.Triplet {
				continue
			}
			sIoU := TrajectoryIoU(pred.SubTraj, pred.Duration, gt[k].SubTraj, gt[k].Duration)
			oIoU := TrajectoryIoU(pred.ObjTraj, pred.Duration, gt[k].ObjTraj, gt[k].Duration)
			ov := math.Min(sIoU, oIoU)
			if ov >= viouThreshold && ov > ovMax {
				ovMax = ov
				kMax = k
			}
		}
		hits[i] = RankedHit{Score: pred.Score}
		if kMax >= 0 {
			hits[i].Hit = true
			detected[kMax] = true
		}
	}

	prec, rec = cumulativeCurves(hits, len(gt))
	return prec, rec, hits
}
