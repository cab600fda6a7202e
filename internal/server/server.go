// Package server exposes the evaluation engine over HTTP.
package server

import (
	"net/http"

	"github.com/vrdeval/vrd-eval/internal/dataset"
	"github.com/vrdeval/vrd-eval/internal/evaluation"
	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"
	"github.com/vrdeval/vrd-eval/internal/pkg/logger"
	"github.com/vrdeval/vrd-eval/internal/results"
)

// Server scores prediction submissions against the ground truth loaded
// at startup.
type Server struct {
	evaluator *evaluation.Evaluator
	segEval   *evaluation.Evaluator // prediction-anchored, for segment scoring
	store     results.Store
	log       *logger.Logger

	split    string
	gt       map[string][]evaluation.Instance
	zeroshot evaluation.TripletSet // nil disables zero-shot scoring
}

// New creates a server around a loaded dataset. trainSplit may be empty
// to disable zero-shot scoring.
func New(ds *dataset.Dataset, store results.Store, ev *evaluation.Evaluator, log *logger.Logger, trainSplit, testSplit string) (*Server, error) {
	if log == nil {
		log = logger.Default()
	}

	gt, err := ds.GroundTruth(testSplit)
	if err != nil {
		return nil, err
	}

	var zeroshot evaluation.TripletSet
	if trainSplit != "" {
		trainTriplets, err := ds.Triplets(trainSplit)
		if err != nil {
			return nil, err
		}
		testTriplets, err := ds.Triplets(testSplit)
		if err != nil {
			return nil, err
		}
		zeroshot = testTriplets.Difference(trainTriplets)
		log.WithSplit(testSplit).Info("zero-shot scoring enabled",
			"zeroshot_triplets", len(zeroshot))
	}

	segOpts := ev.Options()
	segOpts.BaseOnGT = false

	return &Server{
		evaluator: ev,
		segEval:   evaluation.NewEvaluator(segOpts, log),
		store:     store,
		log:       log,
		split:     testSplit,
		gt:        gt,
		zeroshot:  zeroshot,
	}, nil
}

// RegisterRoutes registers the submission and health routes.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/submissions", s.handleSubmit)
	mux.HandleFunc("GET /v1/submissions", s.handleList)
	mux.HandleFunc("GET /v1/submissions/{id}", s.handleGet)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := encodeJSON(w, v); err != nil {
		s.log.WithError(err).Warn("encoding response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.log.WithError(err).Debug("request failed")
	apperrors.WriteError(w, err)
}
