package evaluation

// ZeroShotSubsets restricts groundtruth and prediction to relations
// whose triplet is in zeroshot (triplets unseen during training). Only
// videos retaining at least one ground-truth relation are kept; their
// prediction lists are filtered to the same triplet set, and a video
// missing from prediction contributes an empty list.
func ZeroShotSubsets(groundtruth map[string][]Instance, prediction map[string][]Prediction, zeroshot TripletSet) (map[string][]Instance, map[string][]Prediction) {
	zsGT := make(map[string][]Instance)
	zsPred := make(map[string][]Prediction)

	for vid, insts := range groundtruth {
		var kept []Instance
		for _, inst := range insts {
			if zeroshot.Contains(inst.Triplet) {
				kept = append(kept, inst)
			}
		}
		if len(kept) == 0 {
			continue
		}
		zsGT[vid] = kept

		zsPred[vid] = []Prediction{}
		for _, pred := range prediction[vid] {
			if zeroshot.Contains(pred.Triplet) {
				zsPred[vid] = append(zsPred[vid], pred)
			}
		}
	}
	return zsGT, zsPred
}
