package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

// ListFunc runs the query a subscriber is interested in.
type ListFunc func(ctx context.Context, params model.ListParams) ([]model.Quote, error)

type subscriber struct {
	id     uint64
	params model.ListParams
	fn     func([]model.Quote)
	wake   chan struct{}
	cancel context.CancelFunc
}

// Hub fans quote writes out to live subscribers. Each subscriber re-runs
// its own query on wake-up, so a burst of writes collapses into one
// delivery.
type Hub struct {
	mu          sync.RWMutex
	subs        map[uint64]*subscriber
	next        uint64
	list        ListFunc
	readTimeout time.Duration
	wg          sync.WaitGroup
}

func New(list ListFunc, readTimeout time.Duration) *Hub {
	return &Hub{
		subs:        make(map[uint64]*subscriber),
		list:        list,
		readTimeout: readTimeout,
	}
}

// Subscribe delivers the current result set synchronously, then again
// after every write until ctx ends or the returned func is called. The
// subscriber is registered before the first query, so a write racing
// with it still triggers a refresh.
func (h *Hub) Subscribe(
	ctx context.Context,
	params model.ListParams,
	fn func([]model.Quote),
) (func(), error) {
	const op string = "hub.Subscribe"

	subCtx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.next++
	s := &subscriber{
		id:     h.next,
		params: params,
		fn:     fn,
		wake:   make(chan struct{}, 1),
		cancel: cancel,
	}
	h.subs[s.id] = s
	h.mu.Unlock()

	quotes, err := h.query(ctx, params)
	if err != nil {
		cancel()
		h.unregister(ctx, s.id)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fn(quotes)

	logger.Debug(ctx, "subscriber registered",
		logger.Int64("subscriber_id", int64(s.id)),
		logger.Int("total", h.Len()),
	)

	h.wg.Add(1)
	go h.loop(subCtx, s)

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

// Notify wakes every subscriber without blocking the writer.
func (h *Hub) Notify() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// Close cancels all subscriptions and waits for their loops to stop.
func (h *Hub) Close() {
	h.mu.RLock()
	for _, s := range h.subs {
		s.cancel()
	}
	h.mu.RUnlock()
	h.wg.Wait()
}

// Len is the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) loop(ctx context.Context, s *subscriber) {
	defer h.wg.Done()
	defer h.unregister(ctx, s.id)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			quotes, err := h.query(ctx, s.params)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn(ctx, "subscriber refresh", logger.ErrorF(err))
				continue
			}
			s.fn(quotes)
		}
	}
}

func (h *Hub) unregister(ctx context.Context, id uint64) {
	h.mu.Lock()
	delete(h.subs, id)
	total := len(h.subs)
	h.mu.Unlock()

	logger.Debug(ctx, "subscriber unregistered",
		logger.Int64("subscriber_id", int64(id)),
		logger.Int("total", total),
	)
}

func (h *Hub) query(ctx context.Context, params model.ListParams) ([]model.Quote, error) {
	if h.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.readTimeout)
		defer cancel()
	}
	return h.list(ctx, params)
}
