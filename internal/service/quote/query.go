package service

import (
	"context"
	"fmt"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

func (svc *service) QuoteByID(ctx context.Context, id string) (*model.Quote, error) {
	const op string = "quote.service.QuoteByID"

	q, err := svc.load(ctx, id)
	if err != nil {
		logger.Error(ctx, "repository quote by id", logger.String("quote_id", id), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return q, nil
}

func (svc *service) List(ctx context.Context, params model.ListParams) ([]model.Quote, error) {
	const op string = "quote.service.List"

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	quotes, err := svc.repo.List(ctx, params.WithDefaults())
	if err != nil {
		logger.Error(ctx, "repository list quotes",
			logger.String("status", string(params.Status)),
			logger.String("order_by", params.OrderBy),
			logger.ErrorF(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return quotes, nil
}

// SearchByClient matches client names case-insensitively by substring.
func (svc *service) SearchByClient(ctx context.Context, name string) ([]model.Quote, error) {
	return svc.List(ctx, model.ListParams{ClientName: name})
}

// Subscribe calls fn with the current matching list right away and again
// after every write. The returned func stops the subscription.
func (svc *service) Subscribe(
	ctx context.Context,
	params model.ListParams,
	fn func([]model.Quote),
) (func(), error) {
	const op string = "quote.service.Subscribe"

	unsubscribe, err := svc.repo.Subscribe(ctx, params.WithDefaults(), fn)
	if err != nil {
		logger.Error(ctx, "repository subscribe", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return unsubscribe, nil
}

func (svc *service) Delete(ctx context.Context, id string) error {
	const op string = "quote.service.Delete"
	log := logger.With(logger.String("quote_id", id))

	q, err := svc.load(ctx, id)
	if err != nil {
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	wctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	if err := svc.repo.Delete(wctx, id); err != nil {
		log.Error(ctx, "repository delete quote", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if svc.storage != nil {
		for docID, doc := range q.StructuralStudy.Documents {
			if err := svc.storage.Remove(ctx, documentKey(id, docID, doc.Name)); err != nil {
				log.Warn(ctx, "storage remove", logger.String("document_id", docID), logger.ErrorF(err))
			}
		}
	}

	svc.publish(ctx, model.EventQuoteDeleted, *q)
	return nil
}
