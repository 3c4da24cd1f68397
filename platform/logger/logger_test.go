package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextAccumulatesFields(t *testing.T) {
	ctx := WithContext(context.Background(), String("request_id", "r-1"))
	ctx = WithContext(ctx, String("quote_id", "q-1"))

	got := withCtx(ctx, []Field{Int("n", 1)})
	require.Len(t, got, 3)
	assert.Equal(t, "request_id", got[0].Key)
	assert.Equal(t, "quote_id", got[1].Key)
	assert.Equal(t, "n", got[2].Key)
}

func TestWithCtxDoesNotAliasStoredFields(t *testing.T) {
	ctx := WithContext(context.Background(), String("a", "1"))

	first := withCtx(ctx, []Field{String("b", "2")})
	second := withCtx(ctx, []Field{String("c", "3")})

	assert.Equal(t, "b", first[1].Key)
	assert.Equal(t, "c", second[1].Key)
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init("verbose", true))
	assert.Equal(t, LevelInfo, level.Level())

	require.NoError(t, Init("debug", false))
	assert.Equal(t, LevelDebug, level.Level())

	SetNopLogger()
}
