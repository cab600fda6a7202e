package evaluation

// TaggingScores evaluates triplet tagging for one video, ignoring
// trajectories entirely. Predictions are ranked by score descending and
// deduplicated to the first occurrence of each triplet; a retained
// triplet is a hit when it appears among the ground-truth triplets
// (ground-truth duplicates collapse to a set).
//
// Returns cumulative precision and recall over the deduplicated rank
// list plus its hit labels, with the ground-truth triplet count as the
// recall denominator.
func TaggingScores(gt []Instance, preds []Prediction) (prec, rec []float64, hits []RankedHit) {
	gtTriplets := make(TripletSet, len(gt))
	for _, g := range gt {
		gtTriplets.Add(g.Triplet)
	}

	seen := make(TripletSet)
	for _, pred := range rankByScore(preds) {
		if seen.Contains(pred.Triplet) {
			continue
		}
		seen.Add(pred.Triplet)
		hits = append(hits, RankedHit{
			Score: pred.Score,
			Hit:   gtTriplets.Contains(pred.Triplet),
		})
	}

	prec, rec = cumulativeCurves(hits, len(gtTriplets))
	return prec, rec, hits
}
