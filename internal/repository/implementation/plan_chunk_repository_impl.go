package implementation

import (
	"context"

	"elecciones-rag-be/internal/model"
	"elecciones-rag-be/internal/repository/contract"
	"elecciones-rag-be/pkg/store"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PlanChunkRepositoryImpl struct {
	db *gorm.DB
}

func NewPlanChunkRepository(db *gorm.DB) contract.PlanChunkRepository {
	return &PlanChunkRepositoryImpl{
		db: db,
	}
}

func (r *PlanChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*model.PlanChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(chunks, 100).Error
}

func (r *PlanChunkRepositoryImpl) DeleteByParty(ctx context.Context, party string) error {
	return r.db.WithContext(ctx).Where("party = ?", party).Delete(&model.PlanChunk{}).Error
}

func (r *PlanChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlanChunk{}).Count(&count).Error
	return count, err
}

// Search computes cosine similarity with pgvector. Cosine distance is
// 1 - cosine_similarity, so 1 - (embedding <=> query) recovers the
// similarity used for ordering and scoring.
func (r *PlanChunkRepositoryImpl) Search(ctx context.Context, embedding []float32, partyFilter string, limit int) ([]store.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.PlanChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("plan_chunks").
		Select("plan_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector)

	if partyFilter != "" {
		query = query.Where("party = ?", partyFilter)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	chunks := make([]store.ScoredChunk, len(results))
	for i, res := range results {
		chunks[i] = store.ScoredChunk{
			Text:       res.Text,
			Party:      res.Party,
			DocID:      res.DocId,
			ChunkIndex: res.ChunkIndex,
			Filename:   res.Filename,
			Score:      res.Similarity,
		}
	}
	return chunks, nil
}
