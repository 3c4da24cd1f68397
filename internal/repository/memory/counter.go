package memory

import (
	"context"
	"sync"
)

// CounterStore keeps counters in process memory. One mutex serializes all
// read-modify-write calls, which is what the reference generator relies on.
type CounterStore struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewCounterStore() *CounterStore {
	return &CounterStore{values: make(map[string]int64)}
}

func (s *CounterStore) ReadModifyWrite(
	ctx context.Context,
	key string,
	fn func(current int64, exists bool) (int64, error),
) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, exists := s.values[key]
	next, err := fn(cur, exists)
	if err != nil {
		return 0, err
	}
	s.values[key] = next
	return next, nil
}

// Value reads a counter without changing it.
func (s *CounterStore) Value(key string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}
