package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/internal/service/quote/mocks"
	"github.com/you-humble/btp-quote/platform/logger"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func init() {
	logger.SetNopLogger()
}

type deps struct {
	repository *mocks.MockQuoteRepository
	refs       *mocks.MockReferenceGenerator
	events     *mocks.MockEventProducer
	storage    *mocks.MockDocumentStorage
}

func newDeps(t *testing.T) deps {
	return deps{
		repository: mocks.NewMockQuoteRepository(t),
		refs:       mocks.NewMockReferenceGenerator(t),
		events:     mocks.NewMockEventProducer(t),
		storage:    mocks.NewMockDocumentStorage(t),
	}
}

func seqIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("gen-%d", n.Add(1)) }
}

func newSvc(d deps) *service {
	return NewQuoteService(d.repository, d.refs, time.Second, time.Second,
		WithClock(func() time.Time { return fixedNow }),
		WithEvents(d.events),
		WithStorage(d.storage),
		WithIDs(seqIDs()),
	)
}

// scenarioQuote is one phase, one task, two articles: 2×100 and 3×50 with
// 10% discount and 20% tax.
func scenarioQuote() model.Quote {
	q := model.NewQuote()
	q.Title = gofakeit.Sentence(3)
	q.ClientName = gofakeit.Name()
	q.DiscountRate = 10
	q.TaxRate = 20
	q.Phases = []model.Phase{{
		ID:   "p1",
		Name: "Gros œuvre",
		Tasks: []model.Task{{
			ID:   "t1",
			Name: "Fondations",
			Articles: []model.Article{
				{ID: "a1", Quantity: 2, UnitPrice: 100, TotalPrice: 200},
				{ID: "a2", Quantity: 3, UnitPrice: 50, TotalPrice: 150},
			},
		}},
	}}
	return q
}

func storedQuote(id string) *model.Quote {
	q := scenarioQuote()
	q.ID = id
	q.Reference = "QU-202401-0007"
	q.CreatedAt = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	q.UpdatedAt = q.CreatedAt
	q.ValidUntil = q.CreatedAt.AddDate(0, 0, q.ValidityDays)
	q.StructuralStudy.Documents = map[string]model.StudyDocument{
		"d1": {ID: "d1", Name: "plan.pdf"},
	}
	return &q
}

func eventOfType(typ model.EventType) any {
	return mock.MatchedBy(func(e model.QuoteEvent) bool { return e.Type == typ })
}

func TestServiceSave(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("mongo is down")

	type testCase struct {
		name   string
		quote  func() model.Quote
		setup  func(d deps)
		assert func(t *testing.T, res model.SaveResult, err error, d deps)
	}

	tests := []testCase{
		{
			name: "validation error: negative quantity",
			quote: func() model.Quote {
				q := scenarioQuote()
				q.Phases[0].Tasks[0].Articles[0].Quantity = -1
				return q
			},
			setup: func(d deps) {
				// No calls expected.
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.ErrorIs(t, err, model.ErrValidation)
				assert.Zero(t, res)
				d.refs.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
				d.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:  "create: mints a reference and stores recalculated totals",
			quote: scenarioQuote,
			setup: func(d deps) {
				d.refs.
					On("Next", mock.Anything, fixedNow).
					Return("QU-202403-0001", nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(q *model.Quote) bool {
						return q.Reference == "QU-202403-0001" &&
							q.Status == model.StatusDraft &&
							q.TotalAmount == 378 &&
							q.DiscountAmount == 35 &&
							q.TaxAmount == 63 &&
							q.ValidUntil.Equal(fixedNow.AddDate(0, 0, model.DefaultValidityDays))
					})).
					Return("q1", nil).
					Once()
				d.events.
					On("SendQuoteEvent", mock.Anything, eventOfType(model.EventQuoteCreated)).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.SaveResult{ID: "q1", Reference: "QU-202403-0001"}, res)
			},
		},
		{
			name: "create: a caller supplied reference is replaced by a minted one",
			quote: func() model.Quote {
				q := scenarioQuote()
				q.Reference = "QU-202403-0001"
				return q
			},
			setup: func(d deps) {
				d.refs.
					On("Next", mock.Anything, fixedNow).
					Return("QU-202403-0004", nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(q *model.Quote) bool {
						return q.Reference == "QU-202403-0004"
					})).
					Return("q2", nil).
					Once()
				d.events.On("SendQuoteEvent", mock.Anything, mock.Anything).Return(nil).Once()
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.SaveResult{ID: "q2", Reference: "QU-202403-0004"}, res)
			},
		},
		{
			name: "create: non draft initial status is rejected",
			quote: func() model.Quote {
				q := scenarioQuote()
				q.Status = model.StatusSent
				return q
			},
			setup: func(d deps) {},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.ErrorIs(t, err, model.ErrValidation)
				d.refs.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
			},
		},
		{
			name: "create: definitive quote must satisfy the conversion rule",
			quote: func() model.Quote {
				q := scenarioQuote()
				q.QuoteType = model.QuoteTypeDefinitive
				return q
			},
			setup: func(d deps) {},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.ErrorIs(t, err, model.ErrConflict)
				assert.Contains(t, model.Reasons(err), "L'étude structurale doit être complétée")
			},
		},
		{
			name:  "create: exhausted counter stores nothing",
			quote: scenarioQuote,
			setup: func(d deps) {
				d.refs.
					On("Next", mock.Anything, mock.Anything).
					Return("", model.ErrReferenceExhausted).
					Once()
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.ErrorIs(t, err, model.ErrReferenceExhausted)
				assert.Zero(t, res)
				d.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:  "create: persistence error is propagated unmasked",
			quote: scenarioQuote,
			setup: func(d deps) {
				d.refs.On("Next", mock.Anything, mock.Anything).Return("QU-202403-0002", nil).Once()
				d.repository.On("Create", mock.Anything, mock.Anything).Return("", dbErr).Once()
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.ErrorIs(t, err, dbErr)
				assert.Zero(t, res)
				d.events.AssertNotCalled(t, "SendQuoteEvent", mock.Anything, mock.Anything)
			},
		},
		{
			name: "create: unknown id is created under that id",
			quote: func() model.Quote {
				q := scenarioQuote()
				q.ID = "legacy-id"
				return q
			},
			setup: func(d deps) {
				d.repository.
					On("QuoteByID", mock.Anything, "legacy-id").
					Return(nil, model.ErrQuoteNotFound).
					Once()
				d.refs.On("Next", mock.Anything, mock.Anything).Return("QU-202403-0003", nil).Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(q *model.Quote) bool { return q.ID == "legacy-id" })).
					Return("legacy-id", nil).
					Once()
				d.events.On("SendQuoteEvent", mock.Anything, mock.Anything).Return(nil).Once()
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, "legacy-id", res.ID)
			},
		},
		{
			name: "update: never regenerates or overwrites the reference",
			quote: func() model.Quote {
				q := *storedQuote("q1")
				q.Reference = ""
				q.Title = "new"
				q.Status = model.StatusSent
				q.StructuralStudy.Documents = nil
				return q
			},
			setup: func(d deps) {
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(storedQuote("q1"), nil).Once()
				d.repository.
					On("Update", mock.Anything, "q1", mock.MatchedBy(func(p model.Patch) bool {
						_, hasRef := p[model.FieldReference]
						study := p[model.FieldStudy].(model.StructuralStudy)
						return !hasRef &&
							p[model.FieldTitle] == "new" &&
							p[model.FieldStatus] == model.StatusSent &&
							len(study.Documents) == 1 &&
							p[model.FieldValidUntil].(time.Time).Equal(time.Date(2024, 2, 9, 8, 0, 0, 0, time.UTC))
					})).
					Return(nil).
					Once()
				d.events.
					On("SendQuoteEvent", mock.Anything, eventOfType(model.EventQuoteStatusChanged)).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.SaveResult{ID: "q1", Reference: "QU-202401-0007"}, res)
				d.refs.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
			},
		},
		{
			name: "update: terminal status cannot go back to draft",
			quote: func() model.Quote {
				q := *storedQuote("q1")
				q.Status = model.StatusDraft
				return q
			},
			setup: func(d deps) {
				current := storedQuote("q1")
				current.Status = model.StatusAccepted
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(current, nil).Once()
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.ErrorIs(t, err, model.ErrValidation)
				d.repository.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "update: quote type changes go through conversion",
			quote: func() model.Quote {
				q := *storedQuote("q1")
				q.QuoteType = model.QuoteTypeDefinitive
				return q
			},
			setup: func(d deps) {
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(storedQuote("q1"), nil).Once()
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.ErrorIs(t, err, model.ErrValidation)
				d.repository.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "update: read failure is propagated",
			quote: func() model.Quote {
				return *storedQuote("q1")
			},
			setup: func(d deps) {
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(nil, dbErr).Once()
			},
			assert: func(t *testing.T, res model.SaveResult, err error, d deps) {
				require.ErrorIs(t, err, dbErr)
				d.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			if tt.setup != nil {
				tt.setup(d)
			}

			svc := newSvc(d)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			res, err := svc.Save(ctx, tt.quote())
			tt.assert(t, res, err, d)
		})
	}
}

func TestServiceRecalculate(t *testing.T) {
	t.Parallel()

	svc := newSvc(newDeps(t))

	got, err := svc.Recalculate(scenarioQuote())
	require.NoError(t, err)
	assert.Equal(t, 350.0, got.Subtotal)
	assert.Equal(t, 378.0, got.TotalAmount)

	bad := scenarioQuote()
	bad.TaxRate = 120
	_, err = svc.Recalculate(bad)
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestServiceConvertToDefinitive(t *testing.T) {
	t.Parallel()

	convertible := func() *model.Quote {
		q := storedQuote("q1")
		q.StructuralStudy.Status = model.StudyCompleted
		return q
	}

	type testCase struct {
		name   string
		setup  func(d deps)
		assert func(t *testing.T, v model.Verdict, err error, d deps)
	}

	tests := []testCase{
		{
			name: "not found",
			setup: func(d deps) {
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(nil, model.ErrQuoteNotFound).Once()
			},
			assert: func(t *testing.T, v model.Verdict, err error, d deps) {
				require.ErrorIs(t, err, model.ErrQuoteNotFound)
				assert.False(t, v.CanConvert)
				assert.Equal(t, []string{"Devis introuvable"}, v.Reasons)
			},
		},
		{
			name: "conflict: every unmet precondition is listed",
			setup: func(d deps) {
				q := storedQuote("q1")
				q.Phases = nil
				q.StructuralStudy.Status = model.StudyPending
				q.StructuralProvisions = &model.StructuralProvisions{Foundations: 1}
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(q, nil).Once()
			},
			assert: func(t *testing.T, v model.Verdict, err error, d deps) {
				require.ErrorIs(t, err, model.ErrConflict)
				assert.False(t, v.CanConvert)
				assert.Len(t, v.Reasons, 3)
				assert.Equal(t, v.Reasons, model.Reasons(err))
				d.repository.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "success: margin forced and provisions cleared",
			setup: func(d deps) {
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(convertible(), nil).Once()
				d.repository.
					On("Update", mock.Anything, "q1", mock.MatchedBy(func(p model.Patch) bool {
						prov, hasProv := p[model.FieldProvisions]
						_, hasPhases := p[model.FieldPhases]
						return p[model.FieldQuoteType] == model.QuoteTypeDefinitive &&
							p[model.FieldUncertaintyMargin] == model.DefinitiveMargin &&
							p[model.FieldStudyStatus] == model.StudyCompleted &&
							hasProv && prov == nil && !hasPhases
					})).
					Return(nil).
					Once()
				d.events.
					On("SendQuoteEvent", mock.Anything, eventOfType(model.EventQuoteConverted)).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, v model.Verdict, err error, d deps) {
				require.NoError(t, err)
				assert.True(t, v.CanConvert)
				assert.Empty(t, v.Reasons)
			},
		},
		{
			name: "event failure does not fail the conversion",
			setup: func(d deps) {
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(convertible(), nil).Once()
				d.repository.On("Update", mock.Anything, "q1", mock.Anything).Return(nil).Once()
				d.events.On("SendQuoteEvent", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
			},
			assert: func(t *testing.T, v model.Verdict, err error, d deps) {
				require.NoError(t, err)
				assert.True(t, v.CanConvert)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			tt.setup(d)

			v, err := newSvc(d).ConvertToDefinitive(context.Background(), "q1")
			tt.assert(t, v, err, d)
		})
	}
}

func TestServiceCheckDefinitiveUnknownQuote(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.repository.On("QuoteByID", mock.Anything, "nope").Return(nil, model.ErrQuoteNotFound).Once()

	v, err := newSvc(d).CheckDefinitive(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, v.CanConvert)
	assert.Equal(t, []string{"Devis introuvable"}, v.Reasons)
}

func TestServiceConvertToPreliminary(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	q := storedQuote("q1")
	q.QuoteType = model.QuoteTypeDefinitive
	q.UncertaintyMargin = model.DefinitiveMargin
	q.StructuralStudy.Status = model.StudyCompleted

	d.repository.On("QuoteByID", mock.Anything, "q1").Return(q, nil).Once()
	d.repository.
		On("Update", mock.Anything, "q1", model.Patch{
			model.FieldQuoteType:         model.QuoteTypePreliminary,
			model.FieldUncertaintyMargin: model.DefaultPreliminaryMargin,
			model.FieldStudyStatus:       model.StudyNone,
		}).
		Return(nil).
		Once()
	d.events.On("SendQuoteEvent", mock.Anything, eventOfType(model.EventQuoteConverted)).Return(nil).Once()

	require.NoError(t, newSvc(d).ConvertToPreliminary(context.Background(), "q1"))
}

func TestServiceUpdateStudyStatus(t *testing.T) {
	t.Parallel()

	engineer := gofakeit.Name()

	type testCase struct {
		name    string
		status  model.StudyStatus
		details *model.StudyDetails
		setup   func(d deps)
		assert  func(t *testing.T, err error, d deps)
	}

	tests := []testCase{
		{
			name:    "in progress stamps the start date and scales the margin",
			status:  model.StudyInProgress,
			details: &model.StudyDetails{EngineerName: &engineer},
			setup: func(d deps) {
				q := storedQuote("q1")
				q.ProjectType = model.ProjectRenovation
				q.StructuralStudy.Status = model.StudyPending
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(q, nil).Once()
				d.repository.
					On("Update", mock.Anything, "q1", mock.MatchedBy(func(p model.Patch) bool {
						start, _ := p[model.FieldStudyStartDate].(*time.Time)
						return p[model.FieldStudyStatus] == model.StudyInProgress &&
							p[model.FieldStudyEngineer] == engineer &&
							p[model.FieldUncertaintyMargin] == 21.0 &&
							start != nil && start.Equal(fixedNow)
					})).
					Return(nil).
					Once()
				d.events.On("SendQuoteEvent", mock.Anything, mock.Anything).Return(nil).Once()
			},
			assert: func(t *testing.T, err error, d deps) {
				require.NoError(t, err)
			},
		},
		{
			name:   "definitive quote keeps its margin",
			status: model.StudyCompleted,
			setup: func(d deps) {
				q := storedQuote("q1")
				q.QuoteType = model.QuoteTypeDefinitive
				q.StructuralStudy.Status = model.StudyCompleted
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(q, nil).Once()
				d.repository.
					On("Update", mock.Anything, "q1", mock.MatchedBy(func(p model.Patch) bool {
						_, hasMargin := p[model.FieldUncertaintyMargin]
						return !hasMargin
					})).
					Return(nil).
					Once()
				d.events.On("SendQuoteEvent", mock.Anything, mock.Anything).Return(nil).Once()
			},
			assert: func(t *testing.T, err error, d deps) {
				require.NoError(t, err)
			},
		},
		{
			name:   "regression is rejected",
			status: model.StudyPending,
			setup: func(d deps) {
				q := storedQuote("q1")
				q.StructuralStudy.Status = model.StudyCompleted
				d.repository.On("QuoteByID", mock.Anything, "q1").Return(q, nil).Once()
			},
			assert: func(t *testing.T, err error, d deps) {
				require.ErrorIs(t, err, model.ErrValidation)
				d.repository.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			tt.setup(d)

			err := newSvc(d).UpdateStudyStatus(context.Background(), "q1", tt.status, tt.details)
			tt.assert(t, err, d)
		})
	}
}

func TestServiceChangeStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    model.QuoteStatus
		to      model.QuoteStatus
		updated bool
		wantErr error
	}{
		{name: "draft to sent", from: model.StatusDraft, to: model.StatusSent, updated: true},
		{name: "sent to accepted", from: model.StatusSent, to: model.StatusAccepted, updated: true},
		{name: "draft to accepted", from: model.StatusDraft, to: model.StatusAccepted, wantErr: model.ErrValidation},
		{name: "out of terminal", from: model.StatusRejected, to: model.StatusSent, wantErr: model.ErrValidation},
		{name: "unknown status", from: model.StatusDraft, to: "archived", wantErr: model.ErrValidation},
		{name: "same status is a no-op", from: model.StatusSent, to: model.StatusSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			q := storedQuote("q1")
			q.Status = tt.from
			d.repository.On("QuoteByID", mock.Anything, "q1").Return(q, nil).Once()
			if tt.updated {
				d.repository.
					On("UpdateIfStatus", mock.Anything, "q1", tt.from, model.Patch{model.FieldStatus: tt.to}).
					Return(nil).
					Once()
				d.events.On("SendQuoteEvent", mock.Anything, eventOfType(model.EventQuoteStatusChanged)).Return(nil).Once()
			}

			err := newSvc(d).ChangeStatus(context.Background(), "q1", tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if !tt.updated {
				d.repository.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}

	t.Run("status changed concurrently", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		q := storedQuote("q1")
		q.Status = model.StatusSent
		d.repository.On("QuoteByID", mock.Anything, "q1").Return(q, nil).Once()
		d.repository.
			On("UpdateIfStatus", mock.Anything, "q1", model.StatusSent, model.Patch{model.FieldStatus: model.StatusRejected}).
			Return(model.ErrConflict).
			Once()

		err := newSvc(d).ChangeStatus(context.Background(), "q1", model.StatusRejected)
		require.ErrorIs(t, err, model.ErrConflict)
		d.events.AssertNotCalled(t, "SendQuoteEvent", mock.Anything, mock.Anything)
	})
}

func TestServiceExpire(t *testing.T) {
	t.Parallel()

	validUntil := time.Date(2024, 2, 9, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  model.QuoteStatus
		now     time.Time
		updated bool
		wantErr error
	}{
		{name: "sent and past validity", status: model.StatusSent, now: validUntil, updated: true},
		{name: "sent but still valid", status: model.StatusSent, now: validUntil.Add(-time.Minute), wantErr: model.ErrConflict},
		{name: "draft never expires", status: model.StatusDraft, now: validUntil.AddDate(1, 0, 0), wantErr: model.ErrConflict},
		{name: "already expired", status: model.StatusExpired, now: validUntil.AddDate(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			q := storedQuote("q1")
			q.Status = tt.status
			d.repository.On("QuoteByID", mock.Anything, "q1").Return(q, nil).Once()
			if tt.updated {
				d.repository.
					On("UpdateIfStatus", mock.Anything, "q1", model.StatusSent, model.Patch{model.FieldStatus: model.StatusExpired}).
					Return(nil).
					Once()
				d.events.On("SendQuoteEvent", mock.Anything, mock.Anything).Return(nil).Once()
			}

			err := newSvc(d).Expire(context.Background(), "q1", tt.now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				d.repository.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestServiceProvisions(t *testing.T) {
	t.Parallel()

	t.Run("negative bucket is rejected before loading", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		err := newSvc(d).UpdateProvisions(context.Background(), "q1", &model.StructuralProvisions{Structure: -5})
		require.ErrorIs(t, err, model.ErrValidation)
		d.repository.AssertNotCalled(t, "QuoteByID", mock.Anything, mock.Anything)
	})

	t.Run("definitive quote refuses provisions", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		q := storedQuote("q1")
		q.QuoteType = model.QuoteTypeDefinitive
		d.repository.On("QuoteByID", mock.Anything, "q1").Return(q, nil).Once()

		err := newSvc(d).UpdateProvisions(context.Background(), "q1", &model.StructuralProvisions{Structure: 5})
		require.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("template sets buckets and disclaimer", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		d.repository.On("QuoteByID", mock.Anything, "q1").Return(storedQuote("q1"), nil).Once()
		d.repository.
			On("Update", mock.Anything, "q1", mock.MatchedBy(func(p model.Patch) bool {
				prov, ok := p[model.FieldProvisions].(*model.StructuralProvisions)
				return ok && prov.Foundations == 5_000_000 && prov.Disclaimer != ""
			})).
			Return(nil).
			Once()
		d.events.On("SendQuoteEvent", mock.Anything, mock.Anything).Return(nil).Once()

		p, err := newSvc(d).ApplyProvisionTemplate(context.Background(), "q1", "villa-r1")
		require.NoError(t, err)
		assert.Equal(t, 16_000_000.0, p.Total())
		assert.Contains(t, p.Disclaimer, "Villa R+1 Standard")
	})

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()

		_, err := newSvc(newDeps(t)).ApplyProvisionTemplate(context.Background(), "q1", "chateau")
		require.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestServiceTerms(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.repository.On("QuoteByID", mock.Anything, "q1").Return(storedQuote("q1"), nil).Once()

	terms, err := newSvc(d).Terms(context.Background(), "q1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, terms.Disclaimer)
	assert.Equal(t, 40.0, terms.RecommendedMargin)
	require.Len(t, terms.Clauses, 4)
	assert.Equal(t, model.ClauseEstimative, terms.Clauses[0].Category)
}

func TestServiceDuplicate(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	src := storedQuote("q1")
	src.Status = model.StatusAccepted
	d.repository.On("QuoteByID", mock.Anything, "q1").Return(src, nil).Once()
	d.refs.On("Next", mock.Anything, fixedNow).Return("QU-202403-0009", nil).Once()
	d.repository.
		On("Create", mock.Anything, mock.MatchedBy(func(q *model.Quote) bool {
			return q.ID == "" &&
				q.Reference == "QU-202403-0009" &&
				q.Status == model.StatusDraft &&
				q.Title == src.Title+" (Copie)" &&
				q.CreatedAt.Equal(fixedNow) &&
				q.Phases[0].ID != "p1" &&
				q.Phases[0].Tasks[0].Articles[0].ID != "a1" &&
				q.TotalAmount == 378 &&
				len(q.StructuralStudy.Documents) == 0
		})).
		Return("q2", nil).
		Once()
	d.events.On("SendQuoteEvent", mock.Anything, eventOfType(model.EventQuoteCreated)).Return(nil).Once()

	res, err := newSvc(d).Duplicate(context.Background(), "q1")
	require.NoError(t, err)
	assert.Equal(t, model.SaveResult{ID: "q2", Reference: "QU-202403-0009"}, res)
}

func TestServiceApplyTemplate(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.repository.On("QuoteByID", mock.Anything, "q1").Return(storedQuote("q1"), nil).Once()
	d.repository.
		On("Update", mock.Anything, "q1", mock.MatchedBy(func(p model.Patch) bool {
			phases, ok := p[model.FieldPhases].([]model.Phase)
			return ok && len(phases) == 4
		})).
		Return(nil).
		Once()
	d.events.On("SendQuoteEvent", mock.Anything, mock.Anything).Return(nil).Once()

	got, err := newSvc(d).ApplyTemplate(context.Background(), "q1", "gros-oeuvre")
	require.NoError(t, err)
	assert.Equal(t, "gen-1", got.Phases[1].ID)

	_, err = newSvc(newDeps(t)).ApplyTemplate(context.Background(), "q1", "nope")
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	d.repository.On("QuoteByID", mock.Anything, "q1").Return(storedQuote("q1"), nil).Once()
	d.repository.On("Delete", mock.Anything, "q1").Return(nil).Once()
	d.storage.On("Remove", mock.Anything, "quotes/q1/study/d1-plan.pdf").Return(nil).Once()
	d.events.On("SendQuoteEvent", mock.Anything, eventOfType(model.EventQuoteDeleted)).Return(nil).Once()

	require.NoError(t, newSvc(d).Delete(context.Background(), "q1"))
}

func TestServiceList(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	want := []model.Quote{*storedQuote("q1")}
	d.repository.
		On("List", mock.Anything, model.ListParams{
			ClientName: "dupont",
			OrderBy:    model.FieldCreatedAt,
			Direction:  model.SortDesc,
		}).
		Return(want, nil).
		Once()

	got, err := newSvc(d).SearchByClient(context.Background(), "dupont")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
