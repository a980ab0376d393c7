// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/internal/dto"
	"github.com/ranajunaid001/second-braind-junaid/internal/entity"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/specification"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/unitofwork"
	"github.com/ranajunaid001/second-braind-junaid/pkg/embedding"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed queue: for every saved entry it renders a
// readable document, chunks it, embeds each chunk and replaces the entry's
// stored vectors.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedEntryMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.EntryRepository().FindOne(ctx, specification.ByID{ID: payload.EntryId})
	if err != nil {
		log.Printf("[ERROR] Failed to get entry %s: %v", payload.EntryId, err)
		msg.Nack()
		return
	}
	if entry == nil {
		// Entry removed before we got to it (fix command). Nothing to index.
		msg.Ack()
		return
	}

	content, err := entryDocument(entry)
	if err != nil {
		log.Printf("[ERROR] Failed to render entry %s: %v", payload.EntryId, err)
		msg.Ack()
		return
	}

	// 1500 chars per chunk with 200 overlap keeps every chunk well inside
	// the embedding context window.
	chunks := utils.SplitText(content, 1500, 200)

	var newEmbeddings []*entity.EntryEmbedding
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of entry %s: %v", i, payload.EntryId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.EntryEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			EntryId:        entry.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.EntryEmbeddingRepository().DeleteByEntryId(ctx, entry.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if err := uow.EntryEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		log.Printf("[ERROR] Failed to create embeddings: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit embeddings: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Indexed entry %s (%d chunks)", entry.Id, len(newEmbeddings))
	msg.Ack()
}

// entryDocument renders an entry as the text the embedder sees. Field labels
// keep searches like "PM at Google" anchored to the right columns.
func entryDocument(entry *entity.Entry) (string, error) {
	bucket := ledger.Bucket(entry.Bucket)
	fields, err := ledger.DecodeFields(bucket, entry.Fields)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Bucket: %s\n", bucket.Table())
	b.WriteString(describeFields(fields))

	if entry.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", entry.Notes)
	}

	fmt.Fprintf(&b, "\nCreated At: %s\n", entry.CreatedAt.Format(time.RFC3339))
	if entry.UpdatedAt != nil {
		fmt.Fprintf(&b, "Updated At: %s\n", entry.UpdatedAt.Format(time.RFC3339))
	}

	return b.String(), nil
}

func describeFields(fields ledger.Fields) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}

	switch f := fields.(type) {
	case ledger.PersonFields:
		line("Name", f.Name)
		line("Context", f.Context)
		line("Follow ups", f.FollowUps)
	case ledger.IdeaFields:
		line("Idea", f.Idea)
		line("One liner", f.OneLiner)
		line("Notes", f.Notes)
	case ledger.InterviewFields:
		line("Company", f.Company)
		line("Role", f.Role)
		line("Status", f.Status)
		line("Next step", f.NextStep)
		line("Date", f.Date)
	case ledger.ThingFields:
		line("Task", f.Task)
		line("Status", f.Status)
		line("Due", f.Due)
		line("Next action", f.NextAction)
	case ledger.LinkedInFields:
		line("Idea", f.Idea)
		line("Notes", f.Notes)
		line("Status", f.Status)
	}
	return b.String()
}
