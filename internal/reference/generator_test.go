package reference

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/internal/repository/memory"
	"github.com/you-humble/btp-quote/platform/logger"
)

type failingStore struct{ err error }

func (f failingStore) ReadModifyWrite(context.Context, string, func(int64, bool) (int64, error)) (int64, error) {
	return 0, f.err
}

func TestFormat(t *testing.T) {
	t.Parallel()

	d := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "QU-202403-0001", Format(d, 1))
	assert.Equal(t, "QU-202403-0420", Format(d, 420))
	assert.Equal(t, "QU-202403-9999", Format(d, 9999))
	assert.Equal(t, "quotes_202403", CounterKey(d))
}

func TestNextConcurrentCallersGetContiguousSequence(t *testing.T) {
	logger.SetNopLogger()

	const n = 200
	gen := NewGenerator(memory.NewCounterStore())
	day := time.Date(2024, 7, 14, 10, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	refs := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			refs[i], errs[i] = gen.Next(context.Background(), day)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	sort.Strings(refs)
	for i, ref := range refs {
		assert.Equal(t, fmt.Sprintf("QU-202407-%04d", i+1), ref)
	}
}

func TestNextRestartsEachMonth(t *testing.T) {
	logger.SetNopLogger()

	gen := NewGenerator(memory.NewCounterStore())
	ctx := context.Background()
	june := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		ref, err := gen.Next(ctx, june)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("QU-202406-%04d", i), ref)
	}

	ref, err := gen.Next(ctx, july)
	require.NoError(t, err)
	assert.Equal(t, "QU-202407-0001", ref)

	ref, err = gen.Next(ctx, june)
	require.NoError(t, err)
	assert.Equal(t, "QU-202406-0004", ref)
}

func TestNextFailsLoudlyWhenExhausted(t *testing.T) {
	logger.SetNopLogger()

	store := memory.NewCounterStore()
	ctx := context.Background()
	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	_, err := store.ReadModifyWrite(ctx, CounterKey(day), func(int64, bool) (int64, error) {
		return maxPerMonth, nil
	})
	require.NoError(t, err)

	_, err = NewGenerator(store).Next(ctx, day)
	require.ErrorIs(t, err, model.ErrReferenceExhausted)

	v, _ := store.Value(CounterKey(day))
	assert.Equal(t, int64(maxPerMonth), v, "counter must not wrap")
}

func TestNextPropagatesStoreError(t *testing.T) {
	logger.SetNopLogger()

	boom := errors.New("transaction aborted")
	ref, err := NewGenerator(failingStore{err: boom}).Next(context.Background(), time.Now())

	require.ErrorIs(t, err, boom)
	assert.Empty(t, ref)
}
