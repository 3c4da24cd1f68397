package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/you-humble/btp-quote/internal/lifecycle"
	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/internal/pricing"
	"github.com/you-humble/btp-quote/platform/logger"
)

// Recalculate validates q and derives every total. Nothing is persisted.
func (svc *service) Recalculate(q model.Quote) (model.Quote, error) {
	const op string = "quote.service.Recalculate"

	if err := pricing.Validate(q); err != nil {
		return q, fmt.Errorf("%s: %w", op, err)
	}
	return pricing.Recalculate(q), nil
}

func (svc *service) GenerateNextReference(ctx context.Context, forDate time.Time) (string, error) {
	const op string = "quote.service.GenerateNextReference"

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	ref, err := svc.refs.Next(ctx, forDate)
	if err != nil {
		logger.Error(ctx, "generate reference", logger.Time("for_date", forDate), logger.ErrorF(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return ref, nil
}

// Save creates q when it has no id or its id is unknown, and updates the
// stored quote otherwise. A reference is minted only on create; one
// carried by q is discarded.
func (svc *service) Save(ctx context.Context, q model.Quote) (model.SaveResult, error) {
	const op string = "quote.service.Save"
	log := logger.With(
		logger.String("quote_id", q.ID),
		logger.String("reference", q.Reference),
	)

	if err := pricing.Validate(q); err != nil {
		log.Warn(ctx, "invalid quote", logger.ErrorF(err))
		return model.SaveResult{}, fmt.Errorf("%s: %w", op, err)
	}
	q = pricing.Recalculate(q)

	if q.ID != "" {
		current, err := svc.load(ctx, q.ID)
		switch {
		case err == nil:
			return svc.saveExisting(ctx, *current, q)
		case errors.Is(err, model.ErrQuoteNotFound):
			log.Debug(ctx, "unknown id, creating")
		default:
			log.Error(ctx, "repository quote by id", logger.ErrorF(err))
			return model.SaveResult{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return svc.create(ctx, q)
}

func (svc *service) create(ctx context.Context, q model.Quote) (model.SaveResult, error) {
	const op string = "quote.service.create"

	applyDefaults(&q)
	if err := validateNew(q); err != nil {
		logger.Warn(ctx, "invalid new quote", logger.ErrorF(err))
		return model.SaveResult{}, fmt.Errorf("%s: %w", op, err)
	}

	now := svc.now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	q.ValidUntil = validUntil(q.CreatedAt, q.ValidityDays)

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	if q.Reference != "" {
		logger.Warn(ctx, "caller reference discarded", logger.String("reference", q.Reference))
	}
	ref, err := svc.refs.Next(ctx, q.CreatedAt)
	if err != nil {
		logger.Error(ctx, "generate reference", logger.ErrorF(err))
		return model.SaveResult{}, fmt.Errorf("%s: %w", op, err)
	}
	q.Reference = ref

	id, err := svc.repo.Create(ctx, &q)
	if err != nil {
		logger.Error(ctx, "repository create quote",
			logger.String("reference", q.Reference),
			logger.ErrorF(err),
		)
		return model.SaveResult{}, fmt.Errorf("%s: %w", op, err)
	}
	q.ID = id

	logger.Info(ctx, "quote created",
		logger.String("quote_id", id),
		logger.String("reference", q.Reference),
		logger.Float64("total_amount", q.TotalAmount),
	)
	svc.publish(ctx, model.EventQuoteCreated, q)

	return model.SaveResult{ID: id, Reference: q.Reference}, nil
}

// saveExisting writes q over current. Identity, reference, creation time
// and attached documents always come from current.
func (svc *service) saveExisting(ctx context.Context, current, q model.Quote) (model.SaveResult, error) {
	const op string = "quote.service.saveExisting"
	log := logger.With(
		logger.String("quote_id", current.ID),
		logger.String("reference", current.Reference),
	)

	if q.Status == "" {
		q.Status = current.Status
	}
	if q.QuoteType == "" {
		q.QuoteType = current.QuoteType
	}
	if q.StructuralStudy.Status == "" {
		q.StructuralStudy.Status = current.StructuralStudy.Status
	}

	if err := validateChange(current, q); err != nil {
		log.Warn(ctx, "rejected update", logger.ErrorF(err))
		return model.SaveResult{}, fmt.Errorf("%s: %w", op, err)
	}

	q.ID = current.ID
	q.Reference = current.Reference
	q.CreatedAt = current.CreatedAt
	q.StructuralStudy.Documents = current.StructuralStudy.Documents
	q.ValidUntil = validUntil(current.CreatedAt, q.ValidityDays)

	patch := model.QuotePatch(q)
	delete(patch, model.FieldReference)

	if err := svc.update(ctx, current.ID, patch); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		return model.SaveResult{}, fmt.Errorf("%s: %w", op, err)
	}

	typ := model.EventQuoteUpdated
	if q.Status != current.Status {
		typ = model.EventQuoteStatusChanged
	}
	svc.publish(ctx, typ, q)

	return model.SaveResult{ID: current.ID, Reference: current.Reference}, nil
}

// Duplicate stores a draft copy of the quote with fresh ids throughout.
// The copy gets its own reference.
func (svc *service) Duplicate(ctx context.Context, id string) (model.SaveResult, error) {
	const op string = "quote.service.Duplicate"

	src, err := svc.load(ctx, id)
	if err != nil {
		logger.Error(ctx, "repository quote by id", logger.String("quote_id", id), logger.ErrorF(err))
		return model.SaveResult{}, fmt.Errorf("%s: %w", op, err)
	}

	cp := svc.editor.RenewIDs(*src)
	cp.ID = ""
	cp.Reference = ""
	cp.Title += " (Copie)"
	cp.Status = model.StatusDraft
	cp.CreatedAt = time.Time{}
	cp.StructuralStudy.Documents = nil

	res, err := svc.create(ctx, pricing.Recalculate(cp))
	if err != nil {
		return model.SaveResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ApplyTemplate appends the phases of a predefined quote template to the
// stored quote.
func (svc *service) ApplyTemplate(ctx context.Context, id, templateID string) (*model.Quote, error) {
	const op string = "quote.service.ApplyTemplate"
	log := logger.With(
		logger.String("quote_id", id),
		logger.String("template_id", templateID),
	)

	tpl, ok := model.QuoteTemplateByID(templateID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op,
			model.NewValidationError(fmt.Sprintf("unknown quote template %q", templateID)))
	}

	q, err := svc.load(ctx, id)
	if err != nil {
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := svc.editor.ApplyTemplate(*q, tpl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	patch := model.Patch{
		model.FieldPhases:         out.Phases,
		model.FieldProjectType:    out.ProjectType,
		model.FieldSubtotal:       out.Subtotal,
		model.FieldDiscountAmount: out.DiscountAmount,
		model.FieldTaxAmount:      out.TaxAmount,
		model.FieldTotalAmount:    out.TotalAmount,
	}
	if err := svc.update(ctx, id, patch); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	svc.publish(ctx, model.EventQuoteUpdated, out)
	return &out, nil
}

func applyDefaults(q *model.Quote) {
	if q.Status == "" {
		q.Status = model.StatusDraft
	}
	if q.QuoteType == "" {
		q.QuoteType = model.QuoteTypePreliminary
	}
	if q.ProjectType == "" {
		q.ProjectType = model.ProjectConstruction
	}
	if q.StructuralStudy.Status == "" {
		q.StructuralStudy.Status = model.StudyNone
	}
	if q.Phases == nil {
		q.Phases = []model.Phase{}
	}
	if q.QuoteType == model.QuoteTypePreliminary && q.UncertaintyMargin == 0 {
		q.UncertaintyMargin = lifecycle.RecommendedMargin(q.ProjectType, q.StructuralStudy.Status)
	}
}

func validateNew(q model.Quote) error {
	if err := lifecycle.ValidateInitial(q.Status); err != nil {
		return err
	}
	if !lifecycle.KnownStudyStatus(q.StructuralStudy.Status) {
		return model.NewValidationError(fmt.Sprintf("unknown study status %q", q.StructuralStudy.Status))
	}

	switch q.QuoteType {
	case model.QuoteTypePreliminary:
	case model.QuoteTypeDefinitive:
		if v := lifecycle.CheckDefinitive(q); !v.CanConvert {
			return model.NewConflictError(v.Reasons...)
		}
	default:
		return model.NewValidationError(fmt.Sprintf("unknown quote type %q", q.QuoteType))
	}
	return nil
}

func validateChange(current, q model.Quote) error {
	if err := lifecycle.ValidateTransition(current.Status, q.Status); err != nil {
		return err
	}
	if q.QuoteType != current.QuoteType {
		return model.NewValidationError(
			fmt.Sprintf("quote type cannot change from %s to %s on save, use the conversion operations", current.QuoteType, q.QuoteType))
	}
	if err := lifecycle.ValidateStudyTransition(current.StructuralStudy.Status, q.StructuralStudy.Status); err != nil {
		return err
	}
	if q.QuoteType == model.QuoteTypeDefinitive && !q.StructuralProvisions.Empty() {
		return model.NewConflictError(lifecycle.ReasonProvisionsPresent)
	}
	return nil
}

func validUntil(createdAt time.Time, days int) time.Time {
	return createdAt.AddDate(0, 0, days)
}
