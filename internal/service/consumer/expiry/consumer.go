package expiryconsumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/kafka"
	"github.com/you-humble/btp-quote/platform/logger"
)

type Converter interface {
	ExpiryTriggerToModel(data []byte) (model.ExpiryTrigger, error)
}

type Service interface {
	Expire(ctx context.Context, id string, now time.Time) error
}

type service struct {
	consumer kafka.Consumer
	conv     Converter
	svc      Service
}

func NewExpiryConsumer(
	consumer kafka.Consumer,
	conv Converter,
	svc Service,
) *service {
	return &service{consumer: consumer, conv: conv, svc: svc}
}

func (s *service) RunExpiryConsume(ctx context.Context) error {
	logger.Info(ctx, "Starting quote expiry consumer")

	if err := s.consumer.Consume(ctx, s.expiryHandler); err != nil {
		logger.Error(ctx, "Consume from quote.expiry topic error", logger.ErrorF(err))
		return err
	}

	return nil
}

// expiryHandler acknowledges triggers that can never succeed: bad payloads,
// unknown quotes and quotes that are not expirable. Anything else is
// returned so the message is redelivered.
func (s *service) expiryHandler(ctx context.Context, msg kafka.Message) error {
	trigger, err := s.conv.ExpiryTriggerToModel(msg.Value)
	if err != nil {
		logger.Error(ctx, "Failed to decode ExpiryTrigger", logger.ErrorF(err))
		return nil
	}

	err = s.svc.Expire(ctx, trigger.QuoteID, trigger.At)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrQuoteNotFound), errors.Is(err, model.ErrConflict):
		logger.Warn(ctx, "expiry trigger skipped",
			logger.String("quote_id", trigger.QuoteID),
			logger.ErrorF(err),
		)
		return nil
	default:
		logger.Error(ctx, "consumer.Expire", logger.ErrorF(err))
		return fmt.Errorf("expire quote %s: %w", trigger.QuoteID, err)
	}
}
