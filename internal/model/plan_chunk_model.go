package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type PlanChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Text       string          `gorm:"type:text"`
	Party      string          `gorm:"type:varchar(10);not null;index"`
	DocId      string          `gorm:"type:varchar(100);index"`
	ChunkIndex int             `gorm:"default:0"` // 0-based index within the source document
	Filename   string          `gorm:"type:varchar(255)"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 uses 768 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (PlanChunk) TableName() string {
	return "plan_chunks"
}
