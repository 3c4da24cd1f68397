package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterStoreReadModifyWrite(t *testing.T) {
	t.Parallel()

	s := NewCounterStore()
	ctx := context.Background()

	v, err := s.ReadModifyWrite(ctx, "k", func(cur int64, exists bool) (int64, error) {
		assert.False(t, exists)
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	boom := errors.New("abort")
	_, err = s.ReadModifyWrite(ctx, "k", func(cur int64, exists bool) (int64, error) {
		assert.True(t, exists)
		return 100, boom
	})
	require.ErrorIs(t, err, boom)

	got, ok := s.Value("k")
	assert.True(t, ok)
	assert.Equal(t, int64(1), got, "aborted write must not persist")
}

func TestCounterStoreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCounterStore().ReadModifyWrite(ctx, "k", func(int64, bool) (int64, error) {
		t.Fatal("fn must not run")
		return 0, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
