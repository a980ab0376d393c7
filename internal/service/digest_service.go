// FILE: internal/service/digest_service.go
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/internal/constant"
	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/logger"
	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/mailer"
	"github.com/ranajunaid001/second-braind-junaid/pkg/events"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/llm"
	pktNats "github.com/ranajunaid001/second-braind-junaid/pkg/nats"
)

// MessageSender delivers chat messages. Satisfied by the Telegram client.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type IDigestService interface {
	// Digest builds the digest text without sending it. Also serves the
	// conversation engine's "top all".
	Digest(ctx context.Context) (string, error)
	// DeliverDaily builds the digest and pushes it to Telegram, plus email
	// when a recipient is configured.
	DeliverDaily(ctx context.Context) error
}

type digestService struct {
	ledgerStore    ledger.Store
	llmProvider    llm.LLMProvider
	sender         MessageSender
	chatID         int64
	emailService   mailer.IEmailService
	emailRecipient string
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewDigestService(
	ledgerStore ledger.Store,
	llmProvider llm.LLMProvider,
	sender MessageSender,
	chatID int64,
	emailService mailer.IEmailService,
	emailRecipient string,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDigestService {
	return &digestService{
		ledgerStore:    ledgerStore,
		llmProvider:    llmProvider,
		sender:         sender,
		chatID:         chatID,
		emailService:   emailService,
		emailRecipient: emailRecipient,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// digestData groups the pending work fed to the digest prompt. Slices start
// empty so absent groups serialize as [] rather than null.
type digestData struct {
	Interviews []ledger.Fields `json:"interviews"`
	Things     []ledger.Fields `json:"things"`
	People     []ledger.Fields `json:"people"`
}

func (d *digestData) empty() bool {
	return len(d.Interviews) == 0 && len(d.Things) == 0 && len(d.People) == 0
}

func (d *digestData) itemCount() int {
	return len(d.Interviews) + len(d.Things) + len(d.People)
}

func (s *digestService) Digest(ctx context.Context) (string, error) {
	data, err := s.gather(ctx)
	if err != nil {
		return "", err
	}
	if data.empty() {
		return constant.ReplyDigestEmpty, nil
	}
	return s.generate(ctx, data)
}

func (s *digestService) DeliverDaily(ctx context.Context) error {
	data, err := s.gather(ctx)
	if err != nil {
		return err
	}

	message := constant.ReplyDigestEmpty
	if !data.empty() {
		message, err = s.generate(ctx, data)
		if err != nil {
			return err
		}
	}

	if err := s.sender.SendMessage(ctx, s.chatID, message); err != nil {
		return err
	}
	s.publishSent(ctx, "telegram", data.itemCount())

	if s.emailService != nil && s.emailRecipient != "" {
		subject := "Daily Digest - " + time.Now().Format("Jan 2")
		if err := s.emailService.SendDigest(s.emailRecipient, subject, message); err != nil {
			// Email is a secondary channel; the Telegram send already landed.
			s.logger.Warn("digest", "Digest email failed", map[string]interface{}{"error": err.Error()})
		} else {
			s.publishSent(ctx, "email", data.itemCount())
		}
	}

	return nil
}

// gather collects interviews not yet completed, things still open, and
// people with follow-ups recorded.
func (s *digestService) gather(ctx context.Context) (*digestData, error) {
	data := &digestData{
		Interviews: make([]ledger.Fields, 0),
		Things:     make([]ledger.Fields, 0),
		People:     make([]ledger.Fields, 0),
	}

	interviews, err := s.ledgerStore.ListActive(ctx, ledger.BucketInterviews)
	if err != nil {
		return nil, err
	}
	for _, rec := range interviews {
		if f, ok := rec.Fields.(ledger.InterviewFields); ok && !strings.EqualFold(f.Status, "Completed") {
			data.Interviews = append(data.Interviews, f)
		}
	}

	things, err := s.ledgerStore.ListActive(ctx, ledger.BucketThings)
	if err != nil {
		return nil, err
	}
	for _, rec := range things {
		f, ok := rec.Fields.(ledger.ThingFields)
		if ok && !strings.EqualFold(f.Status, "Done") && !strings.EqualFold(f.Status, "Completed") {
			data.Things = append(data.Things, f)
		}
	}

	people, err := s.ledgerStore.ListActive(ctx, ledger.BucketPeople)
	if err != nil {
		return nil, err
	}
	for _, rec := range people {
		if f, ok := rec.Fields.(ledger.PersonFields); ok && strings.TrimSpace(f.FollowUps) != "" {
			data.People = append(data.People, f)
		}
	}

	return data, nil
}

func (s *digestService) generate(ctx context.Context, data *digestData) (string, error) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	out, err := s.llmProvider.Generate(ctx, constant.DigestPrompt+string(payload), llm.WithTemperature(0.3))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *digestService) publishSent(ctx context.Context, channel string, count int) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewDigestSent(channel, count)); err != nil {
		s.logger.Warn("digest", "Failed to publish DIGEST_SENT event", map[string]interface{}{"error": err.Error()})
	}
}
