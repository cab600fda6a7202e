package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vrdeval/vrd-eval/internal/evaluation"
	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"
)

// predictedRelation is one relation instance in a prediction file.
type predictedRelation struct {
	Triplet  []string     `json:"triplet"`
	Score    *float64     `json:"score"`
	Duration [2]int       `json:"duration"`
	SubTraj  [][4]float64 `json:"sub_traj"`
	ObjTraj  [][4]float64 `json:"obj_traj"`
}

// predictionFile is the submission envelope. Files are accepted either
// wrapped in a "results" object or as a bare video -> relations map.
type predictionFile struct {
	Results map[string][]predictedRelation `json:"results"`
}

// LoadPrediction reads a prediction JSON file.
func LoadPrediction(path string) (map[string][]evaluation.Prediction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.DatasetError("reading prediction file", err)
	}
	return ParsePrediction(data)
}

// ParsePrediction decodes prediction JSON into the evaluation engine's
// prediction mapping. Every predicted relation must carry a triplet of
// exactly three labels and a score.
func ParsePrediction(data []byte) (map[string][]evaluation.Prediction, error) {
	var file predictionFile
	if err := json.Unmarshal(data, &file); err != nil || file.Results == nil {
		// bare video -> relations map
		if err := json.Unmarshal(data, &file.Results); err != nil {
			return nil, apperrors.InvalidRequestError(fmt.Sprintf("decoding prediction JSON: %v", err))
		}
	}

	prediction := make(map[string][]evaluation.Prediction, len(file.Results))
	for vid, rels := range file.Results {
		preds := make([]evaluation.Prediction, 0, len(rels))
		for i, rel := range rels {
			pred, err := convertPrediction(vid, i, rel)
			if err != nil {
				return nil, err
			}
			preds = append(preds, pred)
		}
		prediction[vid] = preds
	}
	return prediction, nil
}

func convertPrediction(vid string, idx int, rel predictedRelation) (evaluation.Prediction, error) {
	var zero evaluation.Prediction
	if len(rel.Triplet) != 3 {
		return zero, malformedPrediction(vid, idx, fmt.Sprintf("triplet has %d labels, want 3", len(rel.Triplet)))
	}
	if rel.Score == nil {
		return zero, malformedPrediction(vid, idx, "missing score")
	}
	if rel.Duration[1] <= rel.Duration[0] {
		return zero, malformedPrediction(vid, idx, fmt.Sprintf("empty duration [%d, %d)", rel.Duration[0], rel.Duration[1]))
	}

	return evaluation.Prediction{
		Instance: evaluation.Instance{
			Triplet: evaluation.Triplet{
				Subject:   rel.Triplet[0],
				Predicate: rel.Triplet[1],
				Object:    rel.Triplet[2],
			},
			SubTraj: toTrajectory(rel.SubTraj),
			ObjTraj: toTrajectory(rel.ObjTraj),
			Duration: evaluation.Duration{
				Start: rel.Duration[0],
				End:   rel.Duration[1],
			},
		},
		Score: *rel.Score,
	}, nil
}

func toTrajectory(boxes [][4]float64) evaluation.Trajectory {
	traj := make(evaluation.Trajectory, len(boxes))
	for i, b := range boxes {
		traj[i] = evaluation.Box(b)
	}
	return traj
}

func malformedPrediction(vid string, idx int, reason string) error {
	return apperrors.MalformedInstanceError(reason).
		WithDetail("video", vid).
		WithDetail("instance", fmt.Sprintf("%d", idx))
}
