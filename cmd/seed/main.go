package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/pgvector/pgvector-go"

	"elecciones-rag-be/internal/config"
	"elecciones-rag-be/internal/model"
	"elecciones-rag-be/internal/repository/implementation"
	"elecciones-rag-be/pkg/database"
	"elecciones-rag-be/pkg/embedding"
	embeddingfactory "elecciones-rag-be/pkg/embedding/factory"
)

// seedDocument is one pre-chunked government plan in the input file.
type seedDocument struct {
	Party    string   `json:"party"`
	DocID    string   `json:"doc_id"`
	Filename string   `json:"filename"`
	Chunks   []string `json:"chunks"`
}

func main() {
	file := flag.String("file", "plan_chunks.json", "JSON file with pre-chunked plan documents")
	flag.Parse()

	// 1. Load configuration (reads .env when present)
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Embedding provider, same configuration the server uses
	provider, err := embeddingfactory.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel, cfg.Ai.OllamaBaseURL, cfg.Ai.GeminiApiKey,
	)
	if err != nil {
		log.Fatalf("Error: Failed to create embedding provider: %v", err)
	}

	// 4. Read the chunk file
	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Error: Failed to read %s: %v", *file, err)
	}
	var docs []seedDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Fatalf("Error: Failed to parse %s: %v", *file, err)
	}

	repo := implementation.NewPlanChunkRepository(db)
	ctx := context.Background()

	// 5. Embed and insert, replacing each party's previous rows once
	cleared := map[string]bool{}
	for _, doc := range docs {
		log.Printf("Seeding %s (%s): %d chunks", doc.Party, doc.Filename, len(doc.Chunks))

		if !cleared[doc.Party] {
			if err := repo.DeleteByParty(ctx, doc.Party); err != nil {
				log.Fatalf("Error: Failed to clear previous chunks for %s: %v", doc.Party, err)
			}
			cleared[doc.Party] = true
		}

		rows := make([]*model.PlanChunk, 0, len(doc.Chunks))
		for i, text := range doc.Chunks {
			res, err := provider.Generate(text, embedding.TaskRetrievalDocument)
			if err != nil {
				log.Fatalf("Error: Embedding failed for %s chunk %d: %v", doc.Party, i, err)
			}
			rows = append(rows, &model.PlanChunk{
				Text:       text,
				Party:      doc.Party,
				DocId:      doc.DocID,
				ChunkIndex: i,
				Filename:   doc.Filename,
				Embedding:  pgvector.NewVector(res.Embedding.Values),
			})
		}

		if err := repo.CreateBulk(ctx, rows); err != nil {
			log.Fatalf("Error: Insert failed for %s: %v", doc.Party, err)
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Error: Count failed: %v", err)
	}
	log.Printf("Success: Seeding completed. %d chunks stored.", total)
}
