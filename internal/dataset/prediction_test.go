package dataset

import (
	"testing"

	"github.com/vrdeval/vrd-eval/internal/evaluation"
	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"
)

const predictionJSON = `{
  "results": {
    "vid001": [
      {
        "triplet": ["dog", "chase", "cat"],
        "score": 0.87,
        "duration": [0, 2],
        "sub_traj": [[0, 0, 100, 100], [10, 0, 110, 100]],
        "obj_traj": [[200, 200, 300, 300], [200, 200, 300, 300]]
      }
    ]
  }
}`

func TestParsePrediction(t *testing.T) {
	prediction, err := ParsePrediction([]byte(predictionJSON))
	if err != nil {
		t.Fatalf("ParsePrediction() error = %v", err)
	}

	preds := prediction["vid001"]
	if len(preds) != 1 {
		t.Fatalf("got %d predictions, want 1", len(preds))
	}

	pred := preds[0]
	want := evaluation.Triplet{Subject: "dog", Predicate: "chase", Object: "cat"}
	if pred.Triplet != want {
		t.Errorf("Triplet = %v, want %v", pred.Triplet, want)
	}
	if pred.Score != 0.87 {
		t.Errorf("Score = %f, want 0.87", pred.Score)
	}
	if len(pred.SubTraj) != 2 || pred.SubTraj[1] != (evaluation.Box{10, 0, 110, 100}) {
		t.Errorf("SubTraj = %v, want 2 boxes with [10 0 110 100] second", pred.SubTraj)
	}
	if pred.Duration != (evaluation.Duration{Start: 0, End: 2}) {
		t.Errorf("Duration = %v, want [0, 2)", pred.Duration)
	}
}

func TestParsePrediction_BareMap(t *testing.T) {
	bare := `{
	  "vid001": [
	    {"triplet": ["a", "b", "c"], "score": 0.5, "duration": [0, 1],
	     "sub_traj": [[0, 0, 1, 1]], "obj_traj": [[0, 0, 1, 1]]}
	  ]
	}`
	prediction, err := ParsePrediction([]byte(bare))
	if err != nil {
		t.Fatalf("ParsePrediction() error = %v", err)
	}
	if len(prediction["vid001"]) != 1 {
		t.Errorf("got %d predictions, want 1", len(prediction["vid001"]))
	}
}

func TestParsePrediction_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			"missing score",
			`{"vid": [{"triplet": ["a", "b", "c"], "duration": [0, 1],
			  "sub_traj": [[0,0,1,1]], "obj_traj": [[0,0,1,1]]}]}`,
		},
		{
			"short triplet",
			`{"vid": [{"triplet": ["a", "b"], "score": 0.5, "duration": [0, 1],
			  "sub_traj": [[0,0,1,1]], "obj_traj": [[0,0,1,1]]}]}`,
		},
		{
			"empty duration",
			`{"vid": [{"triplet": ["a", "b", "c"], "score": 0.5, "duration": [3, 3],
			  "sub_traj": [], "obj_traj": []}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrediction([]byte(tt.body))
			if err == nil {
				t.Fatal("ParsePrediction() error = nil, want malformed instance")
			}
			if !apperrors.IsMalformedInstance(err) {
				t.Errorf("error = %v, want MALFORMED_INSTANCE", err)
			}
		})
	}
}

func TestParsePrediction_InvalidJSON(t *testing.T) {
	_, err := ParsePrediction([]byte("not json"))
	if err == nil {
		t.Fatal("ParsePrediction() error = nil, want invalid request")
	}
}
