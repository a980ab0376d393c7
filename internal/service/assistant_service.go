// FILE: internal/service/assistant_service.go
package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ranajunaid001/second-braind-junaid/internal/dto"
	"github.com/ranajunaid001/second-braind-junaid/internal/entity"
	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/logger"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/unitofwork"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/engine"
	"github.com/ranajunaid001/second-braind-junaid/pkg/events"
	pktNats "github.com/ranajunaid001/second-braind-junaid/pkg/nats"
	"github.com/ranajunaid001/second-braind-junaid/pkg/telegram"
)

// IAssistantService bridges Telegram updates to the conversation engine and
// fans the engine's side effects out to the indexing queue and event broker.
type IAssistantService interface {
	HandleUpdate(ctx context.Context, update *telegram.Update) error
}

type assistantService struct {
	engine           *engine.Engine
	sender           MessageSender
	publisherService IPublisherService
	uowFactory       unitofwork.RepositoryFactory
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewAssistantService(
	eng *engine.Engine,
	sender MessageSender,
	publisherService IPublisherService,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		engine:           eng,
		sender:           sender,
		publisherService: publisherService,
		uowFactory:       uowFactory,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *assistantService) HandleUpdate(ctx context.Context, update *telegram.Update) error {
	message := update.Message
	if message == nil {
		message = update.EditedMessage
	}
	// Joins, stickers, photos: nothing to file.
	if message == nil || strings.TrimSpace(message.Text) == "" {
		return nil
	}
	if message.From != nil && message.From.IsBot {
		return nil
	}

	chatID := message.Chat.ID
	messageRef := strconv.FormatInt(message.MessageID, 10)

	result := s.engine.HandleMessage(ctx, strconv.FormatInt(chatID, 10), messageRef, message.Text)

	var sendErr error
	if strings.TrimSpace(result.Reply) != "" {
		sendErr = s.sender.SendMessage(ctx, chatID, result.Reply)
	}

	if result.Saved != nil {
		s.afterSave(ctx, result.Saved)
	}
	if result.Correction != nil {
		s.afterCorrection(ctx, result.Saved, result.Correction)
	}

	return sendErr
}

func (s *assistantService) afterSave(ctx context.Context, saved *engine.SavedEntry) {
	s.queueEmbedding(ctx, saved)

	if s.eventPublisher != nil {
		evt := events.NewEntrySaved(string(saved.Ref), string(saved.Bucket), saved.Title, saved.Merged, saved.Confidence)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("assistant", "Failed to publish ENTRY_SAVED event", map[string]interface{}{"error": err.Error()})
		}
	}
}

// queueEmbedding hands the entry to the indexing consumer. Only relational
// refs are entry ids; spreadsheet rows are not indexed.
func (s *assistantService) queueEmbedding(ctx context.Context, saved *engine.SavedEntry) {
	if s.publisherService == nil {
		return
	}
	entryId, err := uuid.Parse(string(saved.Ref))
	if err != nil {
		return
	}

	msgJson, err := json.Marshal(dto.PublishEmbedEntryMessage{EntryId: entryId})
	if err != nil {
		s.logger.Error("assistant", "Failed to marshal embed message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.logger.Warn("assistant", "Failed to queue entry for indexing", map[string]interface{}{
			"entry_id": entryId.String(),
			"error":    err.Error(),
		})
	}
}

// afterCorrection writes the audit row behind the misclassification report
// and broadcasts the fix.
func (s *assistantService) afterCorrection(ctx context.Context, saved *engine.SavedEntry, corr *engine.Correction) {
	ref := corr.MessageRef
	entryId := uuid.Nil
	if saved != nil {
		ref = string(saved.Ref)
		if id, err := uuid.Parse(string(saved.Ref)); err == nil {
			entryId = id
		}
	}

	// Spreadsheet deployments keep no correction history.
	if s.uowFactory != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		correction := &entity.Correction{
			EntryId:    entryId,
			FromBucket: string(corr.From),
			ToBucket:   string(corr.To),
			MessageRef: corr.MessageRef,
			Text:       corr.Text,
		}
		if err := uow.CorrectionRepository().Create(ctx, correction); err != nil {
			s.logger.Warn("assistant", "Failed to record correction", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewEntryFixed(ref, string(corr.From), string(corr.To))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("assistant", "Failed to publish ENTRY_FIXED event", map[string]interface{}{"error": err.Error()})
		}
	}
}
