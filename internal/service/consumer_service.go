package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/repository/unitofwork"
	"catalog-chat-be/pkg/embedding"
	"catalog-chat-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
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
	var payload dto.PublishEmbedVariantMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing variant %s", payload.VariantId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	variant, err := uow.CatalogRepository().FindVariant(ctx, payload.VariantId)
	if err != nil {
		log.Printf("[ERROR] Failed to get variant %s: %v", payload.VariantId, err)
		msg.Nack() // retriable
		return
	}
	if variant == nil {
		log.Printf("[WARN] Variant not found: %s", payload.VariantId)
		msg.Ack() // variant deleted meanwhile, nothing to index
		return
	}

	content := utils.ProductText(variant)
	log.Printf("[INFO] Generating embeddings for variant %s (content length: %d)", payload.VariantId, len(content))

	brandName := ""
	if variant.Brand != nil {
		brandName = variant.Brand.Name
	}
	categoryName := ""
	if variant.Category != nil {
		categoryName = variant.Category.Name
	}
	tagNames := make([]string, len(variant.Tags))
	for i, t := range variant.Tags {
		tagNames[i] = t.Name
	}

	// ChunkSize 1500 chars with 200 overlap, same sizing as the note
	// pipeline this grew out of. Product documents rarely exceed one
	// chunk.
	chunks := utils.SplitText(content, 1500, 200)

	var newEmbeddings []*entity.ProductEmbedding
	for i, chunk := range chunks {
		vector, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of variant %s: %v", i, payload.VariantId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.ProductEmbedding{
			Id:             uuid.New(),
			VariantId:      variant.Id,
			Title:          variant.Name,
			Document:       chunk,
			Brand:          brandName,
			Category:       categoryName,
			Tags:           tagNames,
			Price:          variant.Price,
			EmbeddingValue: vector,
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

	if err := uow.ProductEmbeddingRepository().DeleteByVariantId(ctx, variant.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.ProductEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Variant indexed: %d chunks for %s", len(newEmbeddings), payload.VariantId)
	msg.Ack()
}
