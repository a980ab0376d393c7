package implementation

import (
	"context"

	"github.com/ranajunaid001/second-braind-junaid/internal/entity"
	"github.com/ranajunaid001/second-braind-junaid/internal/mapper"
	"github.com/ranajunaid001/second-braind-junaid/internal/model"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/contract"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type EntryEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EntryEmbeddingMapper
}

func NewEntryEmbeddingRepository(db *gorm.DB) contract.EntryEmbeddingRepository {
	return &EntryEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewEntryEmbeddingMapper(),
	}
}

func (r *EntryEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EntryEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.EntryEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	models := make([]*model.EntryEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *EntryEmbeddingRepositoryImpl) DeleteByEntryId(ctx context.Context, entryId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("entry_id = ?", entryId).Delete(&model.EntryEmbedding{}).Error
}

func (r *EntryEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EntryEmbedding, error) {
	var models []*model.EntryEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EntryEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.EntryEmbedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore runs a cosine similarity search over live entry
// chunks, dropping anything below the threshold. pgvector cosine distance
// is 1 - similarity, hence the inversion in the select.
func (r *EntryEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredEntryEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.EntryEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("entry_embeddings").
		Select("entry_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN entries ON entries.id = entry_embeddings.entry_id").
		Where("entries.archived = ?", false).
		Where("entries.deleted_at IS NULL").
		Where("entry_embeddings.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredEntryEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredEntryEmbedding{
			Embedding:  r.mapper.ToEntity(&res.EntryEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
