package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/internal/constant"
	"github.com/ranajunaid001/second-braind-junaid/internal/dto"
	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/logger"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/specification"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/unitofwork"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/llm"
)

type IAdminService interface {
	// Logs
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)

	// Stats
	GetStats(ctx context.Context) (*dto.StatsResponse, error)

	// Classifier quality
	GetCorrectionReport(ctx context.Context) (*dto.CorrectionReportResponse, error)
	GenerateWeeklyReview(ctx context.Context, days int) (*dto.WeeklyReviewResponse, error)
}

type adminService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		logger:      log,
	}
}

// ============================================================================
// Logs
// ============================================================================

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	entries, err := s.logger.GetLogs(level, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(entries))
	for _, entry := range entries {
		res = append(res, &dto.LogListResponse{
			Id:        entry.Id,
			Level:     entry.Level,
			Module:    entry.Module,
			Message:   entry.Message,
			CreatedAt: parseLogTime(entry.Timestamp),
		})
	}
	return res, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        entry.Id,
			Level:     entry.Level,
			Module:    entry.Module,
			Message:   entry.Message,
			CreatedAt: parseLogTime(entry.Timestamp),
		},
		Details: entry.Details,
	}, nil
}

// parseLogTime handles the ISO8601 timestamps zap writes; a line that fails
// to parse keeps the zero time rather than dropping the entry.
func parseLogTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05.000Z0700", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ============================================================================
// Stats
// ============================================================================

func (s *adminService) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	if s.uowFactory == nil {
		return nil, fmt.Errorf("stats require the postgres ledger driver")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	entries := make(map[string]int64, len(ledger.Buckets()))
	for _, bucket := range ledger.Buckets() {
		count, err := uow.EntryRepository().Count(ctx, specification.ByBucket{Bucket: string(bucket)})
		if err != nil {
			return nil, err
		}
		entries[string(bucket)] = count
	}

	corrections, err := uow.CorrectionRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	embeddings, err := uow.EntryEmbeddingRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		Entries:     entries,
		Corrections: corrections,
		Embeddings:  embeddings,
	}, nil
}

// ============================================================================
// Classifier quality
// ============================================================================

func (s *adminService) GetCorrectionReport(ctx context.Context) (*dto.CorrectionReportResponse, error) {
	if s.uowFactory == nil {
		return nil, fmt.Errorf("correction report requires the postgres ledger driver")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	corrections, err := uow.CorrectionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 50, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CorrectionItem, 0, len(corrections))
	for _, c := range corrections {
		items = append(items, dto.CorrectionItem{
			FromBucket: c.FromBucket,
			ToBucket:   c.ToBucket,
			Text:       c.Text,
			CreatedAt:  c.CreatedAt,
		})
	}

	if len(items) == 0 {
		return &dto.CorrectionReportResponse{
			Report:      "No corrections recorded yet.",
			Corrections: items,
		}, nil
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, err
	}

	report, err := s.llmProvider.Generate(ctx, constant.MisclassificationPrompt+string(data), llm.WithTemperature(0.3))
	if err != nil {
		return nil, err
	}

	return &dto.CorrectionReportResponse{
		Report:      report,
		Corrections: items,
	}, nil
}

// weeklyEntryData is one entry in the review prompt payload.
type weeklyEntryData struct {
	Bucket    string          `json:"bucket"`
	Title     string          `json:"title"`
	Fields    json.RawMessage `json:"fields"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt string          `json:"created_at"`
}

func (s *adminService) GenerateWeeklyReview(ctx context.Context, days int) (*dto.WeeklyReviewResponse, error) {
	if s.uowFactory == nil {
		return nil, fmt.Errorf("weekly review requires the postgres ledger driver")
	}
	if days <= 0 {
		days = 7
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	since := time.Now().AddDate(0, 0, -days)

	entries, err := uow.EntryRepository().FindAll(ctx,
		specification.CreatedAfter{Time: since},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	week := make([]weeklyEntryData, 0, len(entries))
	for _, e := range entries {
		item := weeklyEntryData{
			Bucket:    e.Bucket,
			Fields:    e.Fields,
			Notes:     e.Notes,
			CreatedAt: e.CreatedAt.Format("2006-01-02"),
		}
		if bucket, ok := ledger.ParseBucket(e.Bucket); ok {
			if fields, err := ledger.DecodeFields(bucket, e.Fields); err == nil {
				item.Title = fields.Title()
			}
		}
		week = append(week, item)
	}

	if len(week) == 0 {
		return &dto.WeeklyReviewResponse{Review: fmt.Sprintf("Nothing was captured in the last %d days.", days)}, nil
	}

	corrections, err := uow.CorrectionRepository().Count(ctx, specification.CreatedAfter{Time: since})
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(map[string]interface{}{
		"entries":           week,
		"corrections_count": corrections,
	}, "", "  ")
	if err != nil {
		return nil, err
	}

	review, err := s.llmProvider.Generate(ctx, constant.WeeklyReviewPrompt+string(payload), llm.WithTemperature(0.4))
	if err != nil {
		return nil, err
	}

	return &dto.WeeklyReviewResponse{Review: review}, nil
}
