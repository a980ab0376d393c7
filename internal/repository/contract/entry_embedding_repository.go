package contract

import (
	"context"

	"github.com/ranajunaid001/second-braind-junaid/internal/entity"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredEntryEmbedding pairs an embedding chunk with its cosine similarity
// to the query vector.
type ScoredEntryEmbedding struct {
	Embedding  *entity.EntryEmbedding
	Similarity float64
}

type EntryEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.EntryEmbedding) error
	DeleteByEntryId(ctx context.Context, entryId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EntryEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredEntryEmbedding, error)
}
