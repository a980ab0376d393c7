package mapper

import (
	"github.com/ranajunaid001/second-braind-junaid/internal/entity"
	"github.com/ranajunaid001/second-braind-junaid/internal/model"
)

type CorrectionMapper struct{}

func NewCorrectionMapper() *CorrectionMapper {
	return &CorrectionMapper{}
}

func (m *CorrectionMapper) ToEntity(c *model.Correction) *entity.Correction {
	if c == nil {
		return nil
	}

	return &entity.Correction{
		Id:         c.Id,
		EntryId:    c.EntryId,
		FromBucket: c.FromBucket,
		ToBucket:   c.ToBucket,
		MessageRef: c.MessageRef,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *CorrectionMapper) ToModel(c *entity.Correction) *model.Correction {
	if c == nil {
		return nil
	}

	return &model.Correction{
		Id:         c.Id,
		EntryId:    c.EntryId,
		FromBucket: c.FromBucket,
		ToBucket:   c.ToBucket,
		MessageRef: c.MessageRef,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *CorrectionMapper) ToEntities(corrections []*model.Correction) []*entity.Correction {
	entities := make([]*entity.Correction, len(corrections))
	for i, c := range corrections {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
