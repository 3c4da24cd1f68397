package model

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventQuoteCreated       EventType = "quote.created"
	EventQuoteUpdated       EventType = "quote.updated"
	EventQuoteStatusChanged EventType = "quote.status_changed"
	EventQuoteConverted     EventType = "quote.converted"
	EventQuoteDeleted       EventType = "quote.deleted"
)

// QuoteEvent is published after a quote write commits.
type QuoteEvent struct {
	EventID     uuid.UUID
	Type        EventType
	QuoteID     string
	Reference   string
	Status      QuoteStatus
	QuoteType   QuoteType
	TotalAmount float64
	OccurredAt  time.Time
}

// ExpiryTrigger asks the service to expire a sent quote. The engine does
// not schedule these itself.
type ExpiryTrigger struct {
	QuoteID string
	At      time.Time
}
