package quoteproducer

import (
	"context"
	"fmt"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/kafka"
)

type Converter interface {
	QuoteEventToRecord(e model.QuoteEvent) ([]byte, error)
}

type service struct {
	producer kafka.Producer
	conv     Converter
}

func NewQuoteProducer(producer kafka.Producer, conv Converter) *service {
	return &service{producer: producer, conv: conv}
}

// SendQuoteEvent keys records by quote id so one quote's events stay
// ordered within a partition.
func (s *service) SendQuoteEvent(ctx context.Context, event model.QuoteEvent) error {
	payload, err := s.conv.QuoteEventToRecord(event)
	if err != nil {
		return fmt.Errorf("converter quote_event_to_record error: %w", err)
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}}
	if err := s.producer.Send(ctx, []byte(event.QuoteID), payload, headers...); err != nil {
		return fmt.Errorf("producer to quote.events topic error: %w", err)
	}

	return nil
}
