package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/internal/pricing"
	"github.com/you-humble/btp-quote/platform/logger"
)

type QuoteRepository interface {
	Create(ctx context.Context, q *model.Quote) (string, error)
	Update(ctx context.Context, id string, patch model.Patch) error
	UpdateIfStatus(ctx context.Context, id string, expected model.QuoteStatus, patch model.Patch) error
	Delete(ctx context.Context, id string) error
	QuoteByID(ctx context.Context, id string) (*model.Quote, error)
	List(ctx context.Context, params model.ListParams) ([]model.Quote, error)
	Subscribe(ctx context.Context, params model.ListParams, fn func([]model.Quote)) (func(), error)
}

type ReferenceGenerator interface {
	Next(ctx context.Context, forDate time.Time) (string, error)
}

type EventProducer interface {
	SendQuoteEvent(ctx context.Context, event model.QuoteEvent) error
}

type DocumentStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (model.StoredObject, error)
	Remove(ctx context.Context, key string) error
}

type service struct {
	repo     QuoteRepository
	refs     ReferenceGenerator
	events   EventProducer
	storage  DocumentStorage
	editor   *pricing.Editor
	now      func() time.Time
	revision model.PriceRevision

	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

type Option func(*service)

// WithEvents publishes a QuoteEvent after every committed write.
func WithEvents(p EventProducer) Option {
	return func(s *service) { s.events = p }
}

// WithStorage enables study document uploads.
func WithStorage(st DocumentStorage) Option {
	return func(s *service) { s.storage = st }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *service) { s.editor = pricing.NewEditor(newID) }
}

func WithPriceRevision(rev model.PriceRevision) Option {
	return func(s *service) { s.revision = rev }
}

func NewQuoteService(
	repository QuoteRepository,
	refs ReferenceGenerator,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
	opts ...Option,
) *service {
	svc := &service{
		repo:           repository,
		refs:           refs,
		editor:         pricing.NewEditor(nil),
		now:            time.Now,
		revision:       model.RevisionFixed,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (svc *service) load(ctx context.Context, id string) (*model.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	return svc.repo.QuoteByID(ctx, id)
}

func (svc *service) update(ctx context.Context, id string, patch model.Patch) error {
	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	return svc.repo.Update(ctx, id, patch)
}

// updateFrom writes patch only if nobody changed the status since it was
// read as from.
func (svc *service) updateFrom(ctx context.Context, id string, from model.QuoteStatus, patch model.Patch) error {
	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	return svc.repo.UpdateIfStatus(ctx, id, from, patch)
}

// publish is best effort: the write has already committed.
func (svc *service) publish(ctx context.Context, typ model.EventType, q model.Quote) {
	if svc.events == nil {
		return
	}

	event := model.QuoteEvent{
		EventID:     uuid.New(),
		Type:        typ,
		QuoteID:     q.ID,
		Reference:   q.Reference,
		Status:      q.Status,
		QuoteType:   q.QuoteType,
		TotalAmount: q.TotalAmount,
		OccurredAt:  svc.now(),
	}
	if err := svc.events.SendQuoteEvent(ctx, event); err != nil {
		logger.Warn(ctx, "publish quote event",
			logger.String("quote_id", q.ID),
			logger.String("event_type", string(typ)),
			logger.ErrorF(err),
		)
	}
}
