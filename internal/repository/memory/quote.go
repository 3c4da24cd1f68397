package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/internal/repository/hub"
	"github.com/you-humble/btp-quote/platform/logger"
)

// QuoteStore is an in-process quote repository with the same semantics as
// the mongo one.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]model.Quote
	now    func() time.Time
	hub    *hub.Hub
}

func NewQuoteStore(now func() time.Time) *QuoteStore {
	if now == nil {
		now = time.Now
	}
	s := &QuoteStore{
		quotes: make(map[string]model.Quote),
		now:    now,
	}
	s.hub = hub.New(s.List, 0)
	return s
}

func (s *QuoteStore) Create(ctx context.Context, q *model.Quote) (string, error) {
	const op string = "memory.QuoteStore.Create"

	stored := q.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	s.mu.Lock()
	if _, ok := s.quotes[stored.ID]; ok {
		s.mu.Unlock()
		return "", fmt.Errorf("%s: %w: quote %s already exists", op, model.ErrConflict, stored.ID)
	}
	if stored.Reference != "" {
		for _, other := range s.quotes {
			if other.Reference == stored.Reference {
				s.mu.Unlock()
				return "", fmt.Errorf("%s: %w: reference %s already taken", op, model.ErrConflict, stored.Reference)
			}
		}
	}
	s.quotes[stored.ID] = stored
	s.mu.Unlock()

	s.hub.Notify()
	return stored.ID, nil
}

func (s *QuoteStore) Update(ctx context.Context, id string, patch model.Patch) error {
	const op string = "memory.QuoteStore.Update"

	if err := s.update(ctx, id, nil, patch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *QuoteStore) UpdateIfStatus(ctx context.Context, id string, expected model.QuoteStatus, patch model.Patch) error {
	const op string = "memory.QuoteStore.UpdateIfStatus"

	if err := s.update(ctx, id, &expected, patch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *QuoteStore) update(ctx context.Context, id string, expected *model.QuoteStatus, patch model.Patch) error {
	clean, dropped := patch.Sanitized()
	if len(dropped) > 0 {
		logger.Warn(ctx, "immutable fields dropped from update",
			logger.String("quote_id", id),
			logger.Strings("fields", dropped),
		)
	}

	s.mu.Lock()
	cur, ok := s.quotes[id]
	if !ok {
		s.mu.Unlock()
		return model.ErrQuoteNotFound
	}
	if expected != nil && cur.Status != *expected {
		s.mu.Unlock()
		return fmt.Errorf("%w: status is no longer %s", model.ErrConflict, *expected)
	}
	if err := clean.ApplyTo(&cur); err != nil {
		s.mu.Unlock()
		return err
	}
	cur.UpdatedAt = s.now().UTC()
	s.quotes[id] = cur
	s.mu.Unlock()

	s.hub.Notify()
	return nil
}

func (s *QuoteStore) Delete(ctx context.Context, id string) error {
	const op string = "memory.QuoteStore.Delete"

	s.mu.Lock()
	if _, ok := s.quotes[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, model.ErrQuoteNotFound)
	}
	delete(s.quotes, id)
	s.mu.Unlock()

	s.hub.Notify()
	return nil
}

func (s *QuoteStore) QuoteByID(ctx context.Context, id string) (*model.Quote, error) {
	const op string = "memory.QuoteStore.QuoteByID"

	s.mu.RLock()
	q, ok := s.quotes[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, model.ErrQuoteNotFound)
	}

	out := q.Clone()
	return &out, nil
}

func (s *QuoteStore) List(ctx context.Context, params model.ListParams) ([]model.Quote, error) {
	const op string = "memory.QuoteStore.List"
	params = params.WithDefaults()

	less, err := lessFunc(params.OrderBy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	needle := strings.ToLower(params.ClientName)

	s.mu.RLock()
	out := make([]model.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		if params.Status != "" && q.Status != params.Status {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(q.ClientName), needle) {
			continue
		}
		out = append(out, q.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if params.Direction != model.SortAsc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (s *QuoteStore) Subscribe(
	ctx context.Context,
	params model.ListParams,
	fn func([]model.Quote),
) (func(), error) {
	return s.hub.Subscribe(ctx, params, fn)
}

// Close stops live subscriptions.
func (s *QuoteStore) Close(context.Context) error {
	s.hub.Close()
	return nil
}

func lessFunc(field string) (func(a, b model.Quote) bool, error) {
	switch field {
	case model.FieldCreatedAt:
		return func(a, b model.Quote) bool { return a.CreatedAt.Before(b.CreatedAt) }, nil
	case model.FieldUpdatedAt:
		return func(a, b model.Quote) bool { return a.UpdatedAt.Before(b.UpdatedAt) }, nil
	case model.FieldReference:
		return func(a, b model.Quote) bool { return a.Reference < b.Reference }, nil
	case model.FieldTitle:
		return func(a, b model.Quote) bool { return a.Title < b.Title }, nil
	case model.FieldClientName:
		return func(a, b model.Quote) bool { return a.ClientName < b.ClientName }, nil
	case model.FieldTotalAmount:
		return func(a, b model.Quote) bool { return a.TotalAmount < b.TotalAmount }, nil
	}
	return nil, model.NewValidationError(fmt.Sprintf("cannot order by %q", field))
}
