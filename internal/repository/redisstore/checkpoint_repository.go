package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"elecciones-rag-be/pkg/rag/state"
)

// CheckpointRepository persists conversation checkpoints in Redis so
// multiple replicas can share session state.
type CheckpointRepository struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*CheckpointRepository)

// WithTTL sets the checkpoint expiration.
func WithTTL(ttl time.Duration) Option {
	return func(r *CheckpointRepository) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(r *CheckpointRepository) {
		r.prefix = prefix
	}
}

// New creates a repository with its own Redis client.
func New(address, password string, db int, opts ...Option) *CheckpointRepository {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a repository over an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *CheckpointRepository {
	r := &CheckpointRepository{
		client: client,
		prefix: "elecciones:checkpoint:",
		ttl:    1 * time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *CheckpointRepository) key(sessionKey string) string {
	return r.prefix + sessionKey
}

func (r *CheckpointRepository) Save(ctx context.Context, sessionKey string, st *state.AgentState) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sessionKey), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (r *CheckpointRepository) Load(ctx context.Context, sessionKey string) (*state.AgentState, bool, error) {
	payload, err := r.client.Get(ctx, r.key(sessionKey)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var st state.AgentState
	if err := json.Unmarshal(payload, &st); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	return &st, true, nil
}

func (r *CheckpointRepository) Delete(ctx context.Context, sessionKey string) error {
	return r.client.Del(ctx, r.key(sessionKey)).Err()
}

// Ping verifies connectivity at startup.
func (r *CheckpointRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
