package service

import (
	"context"
	"fmt"

	"github.com/you-humble/btp-quote/internal/lifecycle"
	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/internal/pricing"
	"github.com/you-humble/btp-quote/platform/logger"
)

// UpdateProvisions replaces the structural provisions of a preliminary
// quote. Nil clears them.
func (svc *service) UpdateProvisions(ctx context.Context, id string, provisions *model.StructuralProvisions) error {
	const op string = "quote.service.UpdateProvisions"
	log := logger.With(logger.String("quote_id", id))

	if provisions != nil {
		if err := pricing.Validate(model.Quote{StructuralProvisions: provisions}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	q, err := svc.load(ctx, id)
	if err != nil {
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if q.QuoteType == model.QuoteTypeDefinitive && !provisions.Empty() {
		log.Warn(ctx, "provisions on definitive quote")
		return fmt.Errorf("%s: %w", op, model.NewConflictError(lifecycle.ReasonProvisionsPresent))
	}

	if err := svc.update(ctx, id, model.Patch{model.FieldProvisions: provisions}); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	q.StructuralProvisions = provisions
	svc.publish(ctx, model.EventQuoteUpdated, *q)
	return nil
}

// ApplyProvisionTemplate sets the provisions of a predefined building type
// together with their generated disclaimer.
func (svc *service) ApplyProvisionTemplate(ctx context.Context, id, templateID string) (*model.StructuralProvisions, error) {
	const op string = "quote.service.ApplyProvisionTemplate"

	tpl, ok := model.ProvisionTemplateByID(templateID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op,
			model.NewValidationError(fmt.Sprintf("unknown provision template %q", templateID)))
	}

	p := tpl.Provisions
	p.Disclaimer = lifecycle.ProvisionsDisclaimer(tpl)

	if err := svc.UpdateProvisions(ctx, id, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// Terms returns the disclaimer, recommended margin and legal clauses for
// the stored quote.
func (svc *service) Terms(ctx context.Context, id string, revision model.PriceRevision) (model.QuoteTerms, error) {
	const op string = "quote.service.Terms"

	q, err := svc.load(ctx, id)
	if err != nil {
		logger.Error(ctx, "repository quote by id", logger.String("quote_id", id), logger.ErrorF(err))
		return model.QuoteTerms{}, fmt.Errorf("%s: %w", op, err)
	}

	if revision == "" {
		revision = svc.revision
	}
	return lifecycle.Terms(*q, revision, svc.now()), nil
}
