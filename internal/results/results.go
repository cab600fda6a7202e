// Package results persists evaluation submissions and their scores.
package results

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"

	"github.com/vrdeval/vrd-eval/internal/evaluation"
)

// Task identifies which evaluation protocol produced a result.
type Task string

const (
	TaskRelation Task = "relation"
	TaskSegment  Task = "segment"
)

// Submission records one scored prediction upload.
type Submission struct {
	ID        string             `json:"id"`
	Hash      string             `json:"hash"`
	Split     string             `json:"split"`
	Task      Task               `json:"task"`
	CreatedAt time.Time          `json:"created_at"`
	Result    *evaluation.Result `json:"result"`
	ZeroShot  *evaluation.Result `json:"zero_shot,omitempty"`
}

// Store persists submissions.
type Store interface {
	// Save stores a submission, overwriting any previous entry with
	// the same ID.
	Save(ctx context.Context, sub *Submission) error
	// Get retrieves a submission by ID. Returns a not-found error if
	// the ID is unknown or expired.
	Get(ctx context.Context, id string) (*Submission, error)
	// List returns stored submissions, newest first.
	List(ctx context.Context) ([]*Submission, error)
	// Close releases store resources.
	Close() error
}

// MemoryStore keeps submissions in process memory. Suitable for
// development and tests; results vanish on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[string]*Submission
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]*Submission)}
}

func (s *MemoryStore) Save(_ context.Context, sub *Submission) error {
	if sub == nil || sub.ID == "" {
		return apperrors.ValidationError("submission requires an ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = sub
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, apperrors.NotFoundError("submission " + id)
	}
	return sub, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]*Submission, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
	return subs, nil
}

func (s *MemoryStore) Close() error { return nil }
