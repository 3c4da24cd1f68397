package converter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/you-humble/btp-quote/internal/model"
)

type quoteEventRecord struct {
	EventUUID   string  `json:"event_uuid"`
	Type        string  `json:"type"`
	QuoteID     string  `json:"quote_id"`
	Reference   string  `json:"reference,omitempty"`
	Status      string  `json:"status"`
	QuoteType   string  `json:"quote_type"`
	TotalAmount float64 `json:"total_amount"`
	OccurredAt  string  `json:"occurred_at"`
}

type expiryTriggerRecord struct {
	QuoteID string `json:"quote_id"`
	At      string `json:"at,omitempty"`
}

type kafkaConverter struct {
	now func() time.Time
}

func NewKafkaConverter(now func() time.Time) *kafkaConverter {
	if now == nil {
		now = time.Now
	}
	return &kafkaConverter{now: now}
}

func (c *kafkaConverter) QuoteEventToRecord(e model.QuoteEvent) ([]byte, error) {
	rec := quoteEventRecord{
		EventUUID:   e.EventID.String(),
		Type:        string(e.Type),
		QuoteID:     e.QuoteID,
		Reference:   e.Reference,
		Status:      string(e.Status),
		QuoteType:   string(e.QuoteType),
		TotalAmount: e.TotalAmount,
		OccurredAt:  e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quote event: %w", err)
	}
	return payload, nil
}

func (c *kafkaConverter) QuoteEventToModel(data []byte) (model.QuoteEvent, error) {
	var rec quoteEventRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.QuoteEvent{}, fmt.Errorf("failed to unmarshal quote event: %w", err)
	}

	eventID, err := uuid.Parse(rec.EventUUID)
	if err != nil {
		return model.QuoteEvent{}, fmt.Errorf("event uuid: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, rec.OccurredAt)
	if err != nil {
		return model.QuoteEvent{}, fmt.Errorf("occurred at: %w", err)
	}

	return model.QuoteEvent{
		EventID:     eventID,
		Type:        model.EventType(rec.Type),
		QuoteID:     rec.QuoteID,
		Reference:   rec.Reference,
		Status:      model.QuoteStatus(rec.Status),
		QuoteType:   model.QuoteType(rec.QuoteType),
		TotalAmount: rec.TotalAmount,
		OccurredAt:  at,
	}, nil
}

// ExpiryTriggerToModel decodes a trigger. A missing timestamp means now.
func (c *kafkaConverter) ExpiryTriggerToModel(data []byte) (model.ExpiryTrigger, error) {
	var rec expiryTriggerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.ExpiryTrigger{}, fmt.Errorf("failed to unmarshal expiry trigger: %w", err)
	}
	if rec.QuoteID == "" {
		return model.ExpiryTrigger{}, fmt.Errorf("expiry trigger: %w", model.NewValidationError("quote_id is required"))
	}

	at := c.now()
	if rec.At != "" {
		t, err := time.Parse(time.RFC3339, rec.At)
		if err != nil {
			return model.ExpiryTrigger{}, fmt.Errorf("expiry trigger at: %w", err)
		}
		at = t
	}

	return model.ExpiryTrigger{QuoteID: rec.QuoteID, At: at}, nil
}
