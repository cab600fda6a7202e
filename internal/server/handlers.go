package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vrdeval/vrd-eval/internal/dataset"
	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"
	"github.com/vrdeval/vrd-eval/internal/pkg/hash"
	"github.com/vrdeval/vrd-eval/internal/results"
)

// maxSubmissionBytes bounds the prediction payload size. Full VidVRD
// test-set submissions with trajectories run to a few hundred MB.
const maxSubmissionBytes = 512 << 20

func encodeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// handleSubmit scores an uploaded prediction file and stores the result.
// The task query parameter selects relation (default) or segment scoring.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	task := results.Task(r.URL.Query().Get("task"))
	if task == "" {
		task = results.TaskRelation
	}
	if task != results.TaskRelation && task != results.TaskSegment {
		s.writeError(w, apperrors.InvalidRequestError("task must be relation or segment"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSubmissionBytes))
	if err != nil {
		s.writeError(w, apperrors.InvalidRequestError("reading request body"))
		return
	}

	prediction, err := dataset.ParsePrediction(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	sub := &results.Submission{
		ID:        uuid.NewString(),
		Hash:      hash.SubmissionHash(body),
		Split:     s.split,
		Task:      task,
		CreatedAt: time.Now().UTC(),
	}

	log := s.log.With("submission", sub.ID, "task", string(task), "videos", len(prediction))
	log.Info("scoring submission")

	ev := s.evaluator
	if task == results.TaskSegment {
		ev = s.segEval
		sub.Result, err = ev.Segments(ctx, s.gt, prediction)
	} else {
		sub.Result, err = ev.Relations(ctx, s.gt, prediction)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.zeroshot != nil {
		sub.ZeroShot, err = ev.ZeroShot(ctx, s.gt, prediction, s.zeroshot, task == results.TaskSegment)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	if err := s.store.Save(ctx, sub); err != nil {
		s.writeError(w, err)
		return
	}

	log.Info("submission scored", "mean_ap", sub.Result.MeanAP)
	s.writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sub, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"count":       len(subs),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"split":  s.split,
		"videos": len(s.gt),
	})
}
