package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shorturl-preview/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumers returns a consumer per analytics topic, each writing to store.
func NewConsumers(subscriber message.Subscriber, store Store, logger *zap.Logger) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer(subscriber, TopicURLCreated, store.SaveURLCreated, logger),
		messaging.NewConsumer(subscriber, TopicURLAccessed, store.SaveURLAccessed, logger),
	}
}
