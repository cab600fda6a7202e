// Package evaluation computes detection and tagging quality scores for
// video visual-relation prediction: mean average precision, recall@N and
// tagging precision@N over a corpus of videos or temporal segments.
package evaluation

// Triplet identifies a relation type (subject, predicate, object),
// independent of spatial location.
type Triplet struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// Box is an axis-aligned bounding box in (left, top, right, bottom)
// pixel coordinates.
type Box [4]float64

// Trajectory is a per-frame sequence of boxes for one entity.
type Trajectory []Box

// Duration is a half-open frame span [Start, End).
type Duration struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Frames returns the number of frames the duration spans.
func (d Duration) Frames() int {
	return d.End - d.Start
}

// Instance is a ground-truth relation instance: a triplet localized by
// subject and object trajectories over a duration.
type Instance struct {
	Triplet  Triplet
	SubTraj  Trajectory
	ObjTraj  Trajectory
	Duration Duration
}

// Prediction is a relation instance with a model confidence score.
type Prediction struct {
	Instance
	Score float64
}

// RankedHit pairs a prediction's confidence with its match outcome at
// its rank. Hit is explicit rather than encoded in the score.
type RankedHit struct {
	Score float64
	Hit   bool
}

// TripletSet is a set of relation triplets, e.g. a split vocabulary.
type TripletSet map[Triplet]struct{}

// NewTripletSet builds a set from the given triplets.
func NewTripletSet(triplets ...Triplet) TripletSet {
	s := make(TripletSet, len(triplets))
	for _, t := range triplets {
		s[t] = struct{}{}
	}
	return s
}

// Contains reports whether t is in the set.
func (s TripletSet) Contains(t Triplet) bool {
	_, ok := s[t]
	return ok
}

// Add inserts t into the set.
func (s TripletSet) Add(t Triplet) {
	s[t] = struct{}{}
}

// Difference returns the triplets in s that are not in other.
func (s TripletSet) Difference(other TripletSet) TripletSet {
	diff := make(TripletSet)
	for t := range s {
		if !other.Contains(t) {
			diff.Add(t)
		}
	}
	return diff
}

// Result holds corpus-level scores for one evaluation run.
type Result struct {
	// MeanAP is the arithmetic mean of per-video (or per-segment)
	// detection average precision. Videos that contribute no relevant
	// instances are excluded from the mean, not counted as zero.
	MeanAP float64 `json:"mean_ap"`

	// RecallAtN is detection recall with at most N predictions kept per
	// video, pooled across the corpus and re-ranked globally.
	RecallAtN map[int]float64 `json:"recall_at_n"`

	// TagPrecisionAtN is the mean over videos of tagging precision at
	// rank N (0 when a video retains fewer than N unique triplets).
	TagPrecisionAtN map[int]float64 `json:"tagging_precision_at_n"`

	// VideoAP maps video ID to its detection AP. Nil for segment-level
	// runs, where AP is computed per segment instead.
	VideoAP map[string]float64 `json:"video_ap,omitempty"`

	// Count is the number of videos (or segments) that contributed.
	Count int `json:"count"`

	// EmptyCorpus is set when no video contributed any relevant
	// instance; MeanAP and RecallAtN are 0 in that case.
	EmptyCorpus bool `json:"empty_corpus,omitempty"`
}
