// Package dataset loads spatio-temporal relation annotations and
// prediction files, and converts them into the in-memory form the
// evaluation engine consumes.
package dataset

// VideoAnnotation is one video's annotation file. Annotations follow the
// VidVRD layout: tracked objects keyed by tid, per-frame trajectories,
// and relation instances referencing subject/object tids over a frame
// span.
type VideoAnnotation struct {
	VideoID           string              `json:"video_id"`
	FrameCount        int                 `json:"frame_count"`
	FPS               int                 `json:"fps"`
	Width             int                 `json:"width"`
	Height            int                 `json:"height"`
	SubjectObjects    []TrackedObject     `json:"subject/objects"`
	Trajectories      [][]FrameBox        `json:"trajectories"`
	RelationInstances []AnnotatedRelation `json:"relation_instances"`
}

// TrackedObject is an annotated entity with a stable track ID.
type TrackedObject struct {
	TID      int    `json:"tid"`
	Category string `json:"category"`
}

// FrameBox is one entity's bounding box in one frame.
type FrameBox struct {
	TID       int          `json:"tid"`
	BBox      AnnotatedBox `json:"bbox"`
	Generated int          `json:"generated"`
}

// AnnotatedBox is a bounding box in annotation coordinates.
type AnnotatedBox struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// AnnotatedRelation is a relation instance referencing tracked objects
// by tid over the half-open frame span [BeginFID, EndFID).
type AnnotatedRelation struct {
	SubjectTID int    `json:"subject_tid"`
	ObjectTID  int    `json:"object_tid"`
	Predicate  string `json:"predicate"`
	BeginFID   int    `json:"begin_fid"`
	EndFID     int    `json:"end_fid"`
}
