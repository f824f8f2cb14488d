package websocket

import (
	"codoc-backend/domain/events"

	"go.uber.org/zap"
)

// Broadcaster publishes domain events to every client of a document. It is
// the services.EventPublisher implementation used in production.
type Broadcaster struct {
	hub    *Hub
	logger *zap.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(hub *Hub, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger,
	}
}

// Publish fans one domain event out to the document's connections. Events
// already carry their wire type and JSON shape.
func (b *Broadcaster) Publish(shareID string, event events.DomainEvent) {
	if shareID == "" {
		b.logger.Warn("cannot broadcast to empty share id",
			zap.String("event_type", event.GetEventType()),
		)
		return
	}

	if err := b.hub.SendToDocument(shareID, event.GetEventType(), event); err != nil {
		b.logger.Error("failed to broadcast event",
			zap.String("share_id", shareID),
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
}
