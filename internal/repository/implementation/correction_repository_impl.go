package implementation

import (
	"context"

	"github.com/ranajunaid001/second-braind-junaid/internal/entity"
	"github.com/ranajunaid001/second-braind-junaid/internal/mapper"
	"github.com/ranajunaid001/second-braind-junaid/internal/model"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/contract"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/specification"

	"gorm.io/gorm"
)

type CorrectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CorrectionMapper
}

func NewCorrectionRepository(db *gorm.DB) contract.CorrectionRepository {
	return &CorrectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewCorrectionMapper(),
	}
}

func (r *CorrectionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CorrectionRepositoryImpl) Create(ctx context.Context, correction *entity.Correction) error {
	m := r.mapper.ToModel(correction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*correction = *r.mapper.ToEntity(m)
	return nil
}

func (r *CorrectionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Correction, error) {
	var models []*model.Correction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CorrectionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Correction{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
