package unitofwork

import (
	"context"

	"github.com/ranajunaid001/second-braind-junaid/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	EntryRepository() contract.EntryRepository
	CorrectionRepository() contract.CorrectionRepository
	EntryEmbeddingRepository() contract.EntryEmbeddingRepository
}
