package expiryconsumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/btp-quote/internal/converter"
	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/kafka"
	"github.com/you-humble/btp-quote/platform/logger"
)

type expireFunc func(ctx context.Context, id string, now time.Time) error

func (f expireFunc) Expire(ctx context.Context, id string, now time.Time) error { return f(ctx, id, now) }

type oneShotConsumer struct {
	msg kafka.Message
	err error
}

func (c *oneShotConsumer) Consume(ctx context.Context, handler kafka.MessageHandler) error {
	c.err = handler(ctx, c.msg)
	return nil
}

func TestExpiryHandler(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	dbErr := errors.New("mongo is down")

	tests := []struct {
		name      string
		payload   string
		expireErr error
		wantID    string
		wantErr   error
	}{
		{name: "expires the quote", payload: `{"quote_id":"q1","at":"2024-05-31T12:00:00Z"}`, wantID: "q1"},
		{name: "bad payload is dropped", payload: `nope`},
		{name: "not yet expirable is dropped", payload: `{"quote_id":"q2"}`, expireErr: model.ErrConflict, wantID: "q2"},
		{name: "unknown quote is dropped", payload: `{"quote_id":"q3"}`, expireErr: model.ErrQuoteNotFound, wantID: "q3"},
		{name: "storage failure is redelivered", payload: `{"quote_id":"q4"}`, expireErr: dbErr, wantID: "q4", wantErr: dbErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotID string
			svc := expireFunc(func(_ context.Context, id string, _ time.Time) error {
				gotID = id
				return tt.expireErr
			})
			c := &oneShotConsumer{msg: kafka.Message{Value: []byte(tt.payload)}}

			require.NoError(t, NewExpiryConsumer(c, converter.NewKafkaConverter(nil), svc).RunExpiryConsume(context.Background()))

			assert.Equal(t, tt.wantID, gotID)
			if tt.wantErr != nil {
				require.ErrorIs(t, c.err, tt.wantErr)
				return
			}
			require.NoError(t, c.err)
		})
	}
}
