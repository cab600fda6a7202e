package evaluation

import "testing"

func TestTripletSet_Difference(t *testing.T) {
	t1 := Triplet{"dog", "chase", "cat"}
	t2 := Triplet{"person", "ride", "bike"}
	t3 := Triplet{"cat", "sit", "sofa"}

	train := NewTripletSet(t1, t2)
	test := NewTripletSet(t1, t2, t3)

	diff := test.Difference(train)
	if len(diff) != 1 || !diff.Contains(t3) {
		t.Errorf("Difference = %v, want only %v", diff, t3)
	}
}

func TestZeroShotSubsets_ExcludesSeenTriplets(t *testing.T) {
	seen := Triplet{"dog", "chase", "cat"}
	unseen := Triplet{"cat", "sit", "sofa"}

	train := NewTripletSet(seen)
	test := NewTripletSet(seen, unseen)
	zeroshot := test.Difference(train)

	seenGT := relation("dog", "chase", "cat", boxFull, boxFull, 0, 5)
	unseenGT := relation("cat", "sit", "sofa", boxFull, boxFull, 0, 5)

	groundtruth := map[string][]Instance{"vid": {seenGT, unseenGT}}
	prediction := map[string][]Prediction{
		"vid": {scored(seenGT, 0.9), scored(unseenGT, 0.8)},
	}

	zsGT, zsPred := ZeroShotSubsets(groundtruth, prediction, zeroshot)

	// A triplet present in both train and test must be excluded from
	// zero-shot ground truth and zero-shot predictions alike.
	for _, inst := range zsGT["vid"] {
		if train.Contains(inst.Triplet) {
			t.Errorf("zero-shot ground truth contains seen triplet %v", inst.Triplet)
		}
	}
	for _, pred := range zsPred["vid"] {
		if train.Contains(pred.Triplet) {
			t.Errorf("zero-shot prediction contains seen triplet %v", pred.Triplet)
		}
	}
	if len(zsGT["vid"]) != 1 || len(zsPred["vid"]) != 1 {
		t.Errorf("got %d ground truth and %d predictions, want 1 and 1",
			len(zsGT["vid"]), len(zsPred["vid"]))
	}
}

func TestZeroShotSubsets_DropsVideosWithoutUnseenGroundTruth(t *testing.T) {
	unseen := Triplet{"cat", "sit", "sofa"}
	zeroshot := NewTripletSet(unseen)

	seenGT := relation("dog", "chase", "cat", boxFull, boxFull, 0, 5)
	unseenPred := relation("cat", "sit", "sofa", boxFull, boxFull, 0, 5)

	// The video has a zero-shot prediction but no zero-shot ground
	// truth, so it is dropped from both subsets.
	groundtruth := map[string][]Instance{"vid": {seenGT}}
	prediction := map[string][]Prediction{"vid": {scored(unseenPred, 0.7)}}

	zsGT, zsPred := ZeroShotSubsets(groundtruth, prediction, zeroshot)
	if len(zsGT) != 0 {
		t.Errorf("zero-shot ground truth has %d videos, want 0", len(zsGT))
	}
	if len(zsPred) != 0 {
		t.Errorf("zero-shot prediction has %d videos, want 0", len(zsPred))
	}
}
