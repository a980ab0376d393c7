package contract

import (
	"context"

	"github.com/ranajunaid001/second-braind-junaid/internal/entity"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/specification"
)

type CorrectionRepository interface {
	Create(ctx context.Context, correction *entity.Correction) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Correction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
