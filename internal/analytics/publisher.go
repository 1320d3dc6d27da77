package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shorturl-preview/internal/messaging"
)

// Publishers holds one typed publish function per analytics topic.
type Publishers struct {
	URLCreated  messaging.Publish[URLCreatedEvent]
	URLAccessed messaging.Publish[URLAccessedEvent]
}

// NewPublishers binds every analytics topic to publisher.
func NewPublishers(publisher message.Publisher) *Publishers {
	return &Publishers{
		URLCreated:  messaging.NewPublishFunc[URLCreatedEvent](publisher, TopicURLCreated),
		URLAccessed: messaging.NewPublishFunc[URLAccessedEvent](publisher, TopicURLAccessed),
	}
}
