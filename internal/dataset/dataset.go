package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vrdeval/vrd-eval/internal/evaluation"
	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"
	"github.com/vrdeval/vrd-eval/internal/pkg/logger"
)

// Dataset is a file-backed index of annotated videos, organized by
// split. The annotation root holds one directory per split with one
// JSON file per video.
type Dataset struct {
	annoRoot string
	index    map[string][]string // split -> sorted video IDs
	annos    map[string]*VideoAnnotation
}

// Load reads the annotation files for the given splits under annoRoot.
func Load(annoRoot string, splits []string, log *logger.Logger) (*Dataset, error) {
	if log == nil {
		log = logger.Default()
	}
	ds := &Dataset{
		annoRoot: annoRoot,
		index:    make(map[string][]string, len(splits)),
		annos:    make(map[string]*VideoAnnotation),
	}

	for _, split := range splits {
		dir := filepath.Join(annoRoot, split)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, apperrors.DatasetError(fmt.Sprintf("reading split %s", split), err)
		}

		var vids []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			anno, err := readAnnotation(path)
			if err != nil {
				return nil, err
			}
			if anno.VideoID == "" {
				anno.VideoID = strings.TrimSuffix(entry.Name(), ".json")
			}
			vids = append(vids, anno.VideoID)
			ds.annos[anno.VideoID] = anno
		}
		sort.Strings(vids)
		ds.index[split] = vids
		log.WithSplit(split).Info("loaded annotations", "videos", len(vids))
	}

	return ds, nil
}

func readAnnotation(path string) (*VideoAnnotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.DatasetError("reading annotation file", err)
	}
	var anno VideoAnnotation
	if err := json.Unmarshal(data, &anno); err != nil {
		return nil, apperrors.DatasetError(fmt.Sprintf("parsing %s", filepath.Base(path)), err)
	}
	return &anno, nil
}

// Index returns the video IDs of a split in sorted order.
func (ds *Dataset) Index(split string) []string {
	return ds.index[split]
}

// Annotation returns the raw annotation of a video.
func (ds *Dataset) Annotation(vid string) (*VideoAnnotation, error) {
	anno, ok := ds.annos[vid]
	if !ok {
		return nil, apperrors.NotFoundError(fmt.Sprintf("video %s", vid))
	}
	return anno, nil
}

// RelationInstances converts a video's annotated relations into
// evaluation instances with dense per-frame trajectories for subject
// and object.
func (ds *Dataset) RelationInstances(vid string) ([]evaluation.Instance, error) {
	anno, err := ds.Annotation(vid)
	if err != nil {
		return nil, err
	}

	categories := make(map[int]string, len(anno.SubjectObjects))
	for _, obj := range anno.SubjectObjects {
		categories[obj.TID] = obj.Category
	}

	// per-frame boxes keyed by tid
	frames := make([]map[int]evaluation.Box, len(anno.Trajectories))
	for i, frame := range anno.Trajectories {
		boxes := make(map[int]evaluation.Box, len(frame))
		for _, fb := range frame {
			boxes[fb.TID] = evaluation.Box{fb.BBox.XMin, fb.BBox.YMin, fb.BBox.XMax, fb.BBox.YMax}
		}
		frames[i] = boxes
	}

	insts := make([]evaluation.Instance, 0, len(anno.RelationInstances))
	for _, rel := range anno.RelationInstances {
		subCat, ok := categories[rel.SubjectTID]
		if !ok {
			return nil, apperrors.MalformedInstanceError(
				fmt.Sprintf("unknown subject tid %d", rel.SubjectTID)).WithDetail("video", vid)
		}
		objCat, ok := categories[rel.ObjectTID]
		if !ok {
			return nil, apperrors.MalformedInstanceError(
				fmt.Sprintf("unknown object tid %d", rel.ObjectTID)).WithDetail("video", vid)
		}
		if rel.BeginFID < 0 || rel.EndFID > len(frames) || rel.BeginFID >= rel.EndFID {
			return nil, apperrors.MalformedInstanceError(
				fmt.Sprintf("relation span [%d, %d) outside %d annotated frames",
					rel.BeginFID, rel.EndFID, len(frames))).WithDetail("video", vid)
		}

		subTraj, err := trajectory(frames, rel.SubjectTID, rel.BeginFID, rel.EndFID)
		if err != nil {
			return nil, apperrors.MalformedInstanceError(err.Error()).WithDetail("video", vid)
		}
		objTraj, err := trajectory(frames, rel.ObjectTID, rel.BeginFID, rel.EndFID)
		if err != nil {
			return nil, apperrors.MalformedInstanceError(err.Error()).WithDetail("video", vid)
		}

		insts = append(insts, evaluation.Instance{
			Triplet:  evaluation.Triplet{Subject: subCat, Predicate: rel.Predicate, Object: objCat},
			SubTraj:  subTraj,
			ObjTraj:  objTraj,
			Duration: evaluation.Duration{Start: rel.BeginFID, End: rel.EndFID},
		})
	}
	return insts, nil
}

func trajectory(frames []map[int]evaluation.Box, tid, begin, end int) (evaluation.Trajectory, error) {
	traj := make(evaluation.Trajectory, 0, end-begin)
	for f := begin; f < end; f++ {
		box, ok := frames[f][tid]
		if !ok {
			return nil, fmt.Errorf("tid %d not annotated in frame %d", tid, f)
		}
		traj = append(traj, box)
	}
	return traj, nil
}

// GroundTruth builds the video -> relation instances mapping for a
// split.
func (ds *Dataset) GroundTruth(split string) (map[string][]evaluation.Instance, error) {
	gt := make(map[string][]evaluation.Instance, len(ds.index[split]))
	for _, vid := range ds.index[split] {
		insts, err := ds.RelationInstances(vid)
		if err != nil {
			return nil, err
		}
		gt[vid] = insts
	}
	return gt, nil
}

// Triplets returns the vocabulary of relation triplets annotated in a
// split.
func (ds *Dataset) Triplets(split string) (evaluation.TripletSet, error) {
	set := make(evaluation.TripletSet)
	for _, vid := range ds.index[split] {
		anno := ds.annos[vid]
		categories := make(map[int]string, len(anno.SubjectObjects))
		for _, obj := range anno.SubjectObjects {
			categories[obj.TID] = obj.Category
		}
		for _, rel := range anno.RelationInstances {
			set.Add(evaluation.Triplet{
				Subject:   categories[rel.SubjectTID],
				Predicate: rel.Predicate,
				Object:    categories[rel.ObjectTID],
			})
		}
	}
	return set, nil
}
