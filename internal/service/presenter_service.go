package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ranajunaid001/second-braind-junaid/internal/constant"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/engine"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/person"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/llm"
)

// presenterService turns stored records into chat replies through the
// language model. The engine falls back to plain formatting on error, so
// failures here are never user-visible.
type presenterService struct {
	llmProvider llm.LLMProvider
}

var _ engine.Presenter = &presenterService{}

func NewPresenterService(llmProvider llm.LLMProvider) engine.Presenter {
	return &presenterService{llmProvider: llmProvider}
}

type topItemData struct {
	Title     string          `json:"title"`
	Fields    json.RawMessage `json:"fields"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt string          `json:"created_at"`
}

func (s *presenterService) TopItems(ctx context.Context, bucket ledger.Bucket, records []ledger.Record) (string, error) {
	// The prompt caps the list at five bullets; feeding more than ten rows
	// only burns tokens.
	if len(records) > 10 {
		records = records[:10]
	}

	items := make([]topItemData, 0, len(records))
	for _, rec := range records {
		raw, err := ledger.EncodeFields(rec.Fields)
		if err != nil {
			return "", err
		}
		items = append(items, topItemData{
			Title:     rec.Fields.Title(),
			Fields:    raw,
			Notes:     rec.Notes,
			CreatedAt: rec.CreatedAt.Format("2006-01-02"),
		})
	}

	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(constant.TopItemsPromptTemplate, bucket.Table(), string(data))
	return s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
}

func (s *presenterService) PersonAnswer(ctx context.Context, question string, record ledger.Record) (string, error) {
	prompt := fmt.Sprintf(constant.PersonAnswerPromptTemplate, question, person.FormatCard(record))
	return s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
}
