package relational

import (
	"context"
	"fmt"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/internal/entity"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/specification"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/unitofwork"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/match"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"

	"github.com/google/uuid"
)

// Store implements ledger.Store on postgres through the repository layer.
// Record refs are entry ids.
type Store struct {
	uowFactory     unitofwork.RepositoryFactory
	matchThreshold float64
}

var _ ledger.Store = &Store{}

func NewStore(uowFactory unitofwork.RepositoryFactory, matchThreshold float64) *Store {
	if matchThreshold <= 0 {
		matchThreshold = match.DefaultThreshold
	}
	return &Store{
		uowFactory:     uowFactory,
		matchThreshold: matchThreshold,
	}
}

func (s *Store) CreateRecord(ctx context.Context, bucket ledger.Bucket, fields ledger.Fields, messageRef string) (ledger.RecordRef, error) {
	raw, err := ledger.EncodeFields(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode fields: %w", err)
	}

	e := &entity.Entry{
		Bucket:     string(bucket),
		Fields:     raw,
		MessageRef: messageRef,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.EntryRepository().Create(ctx, e); err != nil {
		return "", err
	}

	return ledger.RecordRef(e.Id.String()), nil
}

func (s *Store) AppendNote(ctx context.Context, ref ledger.RecordRef, text string, fields ledger.Fields, messageRef string) error {
	id, err := uuid.Parse(string(ref))
	if err != nil {
		return fmt.Errorf("invalid record ref %q: %w", ref, err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.EntryRepository()

	e, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("entry %s not found", ref)
	}

	existing, err := ledger.DecodeFields(ledger.Bucket(e.Bucket), e.Fields)
	if err != nil {
		return err
	}

	merged := ledger.MergeFields(existing, fields)
	raw, err := ledger.EncodeFields(merged)
	if err != nil {
		return err
	}

	e.Fields = raw
	e.Notes = ledger.AppendNoteText(e.Notes, text, time.Now())

	return repo.Update(ctx, e)
}

func (s *Store) ListActive(ctx context.Context, bucket ledger.Bucket) ([]ledger.Record, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.EntryRepository().FindAll(ctx,
		specification.ByBucket{Bucket: string(bucket)},
		specification.NotArchived{},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	records := make([]ledger.Record, 0, len(entries))
	for _, e := range entries {
		rec, err := toRecord(e)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) FindSimilar(ctx context.Context, name string) ([]ledger.Record, error) {
	people, err := s.ListActive(ctx, ledger.BucketPeople)
	if err != nil {
		return nil, err
	}
	return match.FindCandidates(name, people, s.matchThreshold), nil
}

func (s *Store) Get(ctx context.Context, ref ledger.RecordRef) (*ledger.Record, error) {
	id, err := uuid.Parse(string(ref))
	if err != nil {
		return nil, fmt.Errorf("invalid record ref %q: %w", ref, err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	e, err := uow.EntryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}

	rec, err := toRecord(e)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) Remove(ctx context.Context, bucket ledger.Bucket, messageRef string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	e, err := uow.EntryRepository().FindOne(ctx,
		specification.ByBucket{Bucket: string(bucket)},
		specification.ByMessageRef{MessageRef: messageRef},
	)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("no %s entry for message %s", bucket, messageRef)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.EntryRepository().Delete(ctx, e.Id); err != nil {
		return err
	}
	if err := uow.EntryEmbeddingRepository().DeleteByEntryId(ctx, e.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func toRecord(e *entity.Entry) (ledger.Record, error) {
	bucket := ledger.Bucket(e.Bucket)
	fields, err := ledger.DecodeFields(bucket, e.Fields)
	if err != nil {
		return ledger.Record{}, fmt.Errorf("entry %s: %w", e.Id, err)
	}

	updatedAt := e.CreatedAt
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return ledger.Record{
		Ref:        ledger.RecordRef(e.Id.String()),
		Bucket:     bucket,
		Fields:     fields,
		Notes:      e.Notes,
		MessageRef: e.MessageRef,
		Archived:   e.Archived,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}, nil
}
