package contract

import (
	"context"

	"elecciones-rag-be/internal/model"
	"elecciones-rag-be/pkg/store"
)

type PlanChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*model.PlanChunk) error
	DeleteByParty(ctx context.Context, party string) error
	Count(ctx context.Context) (int64, error)
	// Search runs a cosine-similarity query. A non-empty partyFilter
	// restricts to that exact sigla; results come back sorted by
	// descending similarity.
	Search(ctx context.Context, embedding []float32, partyFilter string, limit int) ([]store.ScoredChunk, error)
}
