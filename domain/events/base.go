// Package events defines the domain events raised by the document aggregate.
// Events are designed to be directly serializable for WebSocket broadcasting.
package events

import "time"

// DomainEvent is implemented by every event the aggregate records
type DomainEvent interface {
	// GetEventType returns the wire-level event type
	GetEventType() string
	// GetAggregateID returns the share id of the originating document
	GetAggregateID() string
	// GetTimestamp returns when the event occurred
	GetTimestamp() time.Time
}

// BaseEvent provides the common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregateId"`
	EventType   string    `json:"eventType"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

// GetEventType returns the wire-level event type
func (e BaseEvent) GetEventType() string {
	return e.EventType
}

// GetAggregateID returns the share id of the originating document
func (e BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

// GetTimestamp returns when the event occurred
func (e BaseEvent) GetTimestamp() time.Time {
	return e.Timestamp
}
