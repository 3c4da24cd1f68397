package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/you-humble/btp-quote/internal/lifecycle"
	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

// CheckDefinitive reports whether the stored quote could become definitive.
// An unknown id is a failed verdict, not an error.
func (svc *service) CheckDefinitive(ctx context.Context, id string) (model.Verdict, error) {
	const op string = "quote.service.CheckDefinitive"

	q, err := svc.load(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrQuoteNotFound) {
			return model.Verdict{Reasons: []string{lifecycle.ReasonQuoteNotFound}}, nil
		}
		logger.Error(ctx, "repository quote by id", logger.String("quote_id", id), logger.ErrorF(err))
		return model.Verdict{}, fmt.Errorf("%s: %w", op, err)
	}

	return lifecycle.CheckDefinitive(*q), nil
}

// ConvertToDefinitive turns a preliminary quote into a definitive one. A
// failed verdict comes back together with a conflict RuleError carrying the
// same reasons.
func (svc *service) ConvertToDefinitive(ctx context.Context, id string) (model.Verdict, error) {
	const op string = "quote.service.ConvertToDefinitive"
	log := logger.With(logger.String("quote_id", id))

	q, err := svc.load(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrQuoteNotFound) {
			v := model.Verdict{Reasons: []string{lifecycle.ReasonQuoteNotFound}}
			return v, fmt.Errorf("%s: %w", op, err)
		}
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return model.Verdict{}, fmt.Errorf("%s: %w", op, err)
	}

	out, v := lifecycle.ToDefinitive(*q)
	if !v.CanConvert {
		log.Info(ctx, "conversion refused", logger.Strings("reasons", v.Reasons))
		return v, fmt.Errorf("%s: %w", op, model.NewConflictError(v.Reasons...))
	}

	patch := model.Patch{
		model.FieldQuoteType:         out.QuoteType,
		model.FieldUncertaintyMargin: out.UncertaintyMargin,
		model.FieldStudyStatus:       out.StructuralStudy.Status,
		model.FieldProvisions:        nil,
	}
	if err := svc.update(ctx, id, patch); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		return model.Verdict{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info(ctx, "quote converted to definitive")
	svc.publish(ctx, model.EventQuoteConverted, out)
	return v, nil
}

// ConvertToPreliminary always succeeds on an existing quote.
func (svc *service) ConvertToPreliminary(ctx context.Context, id string) error {
	const op string = "quote.service.ConvertToPreliminary"
	log := logger.With(logger.String("quote_id", id))

	q, err := svc.load(ctx, id)
	if err != nil {
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	out := lifecycle.ToPreliminary(*q)
	patch := model.Patch{
		model.FieldQuoteType:         out.QuoteType,
		model.FieldUncertaintyMargin: out.UncertaintyMargin,
		model.FieldStudyStatus:       out.StructuralStudy.Status,
	}
	if err := svc.update(ctx, id, patch); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	svc.publish(ctx, model.EventQuoteConverted, out)
	return nil
}

// UpdateStudyStatus moves the structural study forward. Preliminary quotes
// get the margin recommended for the new study status.
func (svc *service) UpdateStudyStatus(
	ctx context.Context,
	id string,
	status model.StudyStatus,
	details *model.StudyDetails,
) error {
	const op string = "quote.service.UpdateStudyStatus"
	log := logger.With(
		logger.String("quote_id", id),
		logger.String("study_status", string(status)),
	)

	q, err := svc.load(ctx, id)
	if err != nil {
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	study, err := lifecycle.ApplyStudyStatus(q.StructuralStudy, status, details, svc.now())
	if err != nil {
		log.Warn(ctx, "rejected study status", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	patch := model.Patch{
		model.FieldStudyStatus:     study.Status,
		model.FieldStudyEngineer:   study.EngineerName,
		model.FieldStudyContact:    study.EngineerContact,
		model.FieldStudyNotes:      study.Notes,
		model.FieldStudyStartDate:  study.StartDate,
		model.FieldStudyCompletion: study.CompletionDate,
	}
	if q.QuoteType == model.QuoteTypePreliminary {
		patch[model.FieldUncertaintyMargin] = lifecycle.RecommendedMargin(q.ProjectType, study.Status)
	}

	if err := svc.update(ctx, id, patch); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	q.StructuralStudy = study
	svc.publish(ctx, model.EventQuoteUpdated, *q)
	return nil
}

func (svc *service) ChangeStatus(ctx context.Context, id string, status model.QuoteStatus) error {
	const op string = "quote.service.ChangeStatus"
	log := logger.With(
		logger.String("quote_id", id),
		logger.String("status", string(status)),
	)

	q, err := svc.load(ctx, id)
	if err != nil {
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := lifecycle.ValidateTransition(q.Status, status); err != nil {
		log.Warn(ctx, "rejected status transition",
			logger.String("from", string(q.Status)),
			logger.ErrorF(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}
	if q.Status == status {
		return nil
	}

	if err := svc.updateFrom(ctx, id, q.Status, model.Patch{model.FieldStatus: status}); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	q.Status = status
	svc.publish(ctx, model.EventQuoteStatusChanged, *q)
	return nil
}

// Expire moves a sent quote to expired once its validity window has closed
// at now. Quotes that are already expired are left alone.
func (svc *service) Expire(ctx context.Context, id string, now time.Time) error {
	const op string = "quote.service.Expire"
	log := logger.With(logger.String("quote_id", id))

	q, err := svc.load(ctx, id)
	if err != nil {
		log.Error(ctx, "repository quote by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	switch q.Status {
	case model.StatusExpired:
		return nil
	case model.StatusSent:
	default:
		log.Warn(ctx, "expire on non sent quote", logger.String("status", string(q.Status)))
		return fmt.Errorf("%s: %w", op,
			model.NewConflictError(fmt.Sprintf("only sent quotes expire, quote is %s", q.Status)))
	}

	if !q.Expired(now) {
		return fmt.Errorf("%s: %w", op, model.NewConflictError(
			fmt.Sprintf("quote is valid until %s", q.ValidUntil.Format(time.RFC3339))))
	}

	if err := svc.updateFrom(ctx, id, model.StatusSent, model.Patch{model.FieldStatus: model.StatusExpired}); err != nil {
		log.Error(ctx, "repository update quote", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info(ctx, "quote expired", logger.Time("valid_until", q.ValidUntil))
	q.Status = model.StatusExpired
	svc.publish(ctx, model.EventQuoteStatusChanged, *q)
	return nil
}
