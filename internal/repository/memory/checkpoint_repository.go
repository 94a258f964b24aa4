package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"elecciones-rag-be/pkg/rag/state"
)

// CheckpointRepository keeps per-session conversation checkpoints in process
// memory with TTL eviction, so abandoned sessions cannot grow the heap.
type CheckpointRepository struct {
	cache *cache.Cache
}

func NewCheckpointRepository(ttl, cleanup time.Duration) *CheckpointRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &CheckpointRepository{
		cache: cache.New(ttl, cleanup),
	}
}

func (r *CheckpointRepository) Save(ctx context.Context, sessionKey string, st *state.AgentState) error {
	// Store a copy so later pipeline turns cannot mutate the snapshot
	r.cache.Set(sessionKey, st.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *CheckpointRepository) Load(ctx context.Context, sessionKey string) (*state.AgentState, bool, error) {
	if x, found := r.cache.Get(sessionKey); found {
		return x.(*state.AgentState).Clone(), true, nil
	}
	return nil, false, nil
}

func (r *CheckpointRepository) Delete(sessionKey string) {
	r.cache.Delete(sessionKey)
}
