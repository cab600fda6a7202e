package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/vrdeval/vrd-eval/internal/pkg/errors"
)

// RedisStore provides Redis-backed persistence for submissions.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis store backend.
// Returns error if connection fails.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: "vrdeval:submissions:",
		ttl:    ttl,
	}, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Save(ctx context.Context, sub *Submission) error {
	if sub == nil || sub.ID == "" {
		return apperrors.ValidationError("submission requires an ID")
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return apperrors.ResultsError("encoding submission", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(sub.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.prefix+"index", redis.Z{
		Score:  float64(sub.CreatedAt.Unix()),
		Member: sub.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.ResultsError("saving submission", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Submission, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NotFoundError("submission " + id)
	}
	if err != nil {
		return nil, apperrors.ResultsError("loading submission", err)
	}

	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, apperrors.ResultsError("decoding submission", err)
	}
	return &sub, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Submission, error) {
	ids, err := s.client.ZRevRange(ctx, s.prefix+"index", 0, -1).Result()
	if err != nil {
		return nil, apperrors.ResultsError("listing submissions", err)
	}

	subs := make([]*Submission, 0, len(ids))
	for _, id := range ids {
		sub, err := s.Get(ctx, id)
		if apperrors.IsNotFound(err) {
			// Expired entry still present in the index.
			continue
		}
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
