package quoteproducer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/btp-quote/internal/converter"
	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/kafka"
)

type recordingProducer struct {
	key, value []byte
	headers    []kafka.Header
	err        error
}

func (p *recordingProducer) Send(_ context.Context, key, value []byte, headers ...kafka.Header) error {
	p.key, p.value, p.headers = key, value, headers
	return p.err
}

func TestSendQuoteEvent(t *testing.T) {
	t.Parallel()

	p := &recordingProducer{}
	svc := NewQuoteProducer(p, converter.NewKafkaConverter(nil))

	event := model.QuoteEvent{EventID: uuid.New(), Type: model.EventQuoteCreated, QuoteID: "q1"}
	require.NoError(t, svc.SendQuoteEvent(context.Background(), event))

	assert.Equal(t, []byte("q1"), p.key)
	assert.Contains(t, string(p.value), `"quote_id":"q1"`)
	assert.Equal(t, []kafka.Header{{Key: "event_type", Value: []byte("quote.created")}}, p.headers)
}

func TestSendQuoteEventProducerError(t *testing.T) {
	t.Parallel()

	brokerErr := errors.New("leader not available")
	svc := NewQuoteProducer(&recordingProducer{err: brokerErr}, converter.NewKafkaConverter(nil))

	err := svc.SendQuoteEvent(context.Background(), model.QuoteEvent{EventID: uuid.New(), QuoteID: "q1"})
	require.ErrorIs(t, err, brokerErr)
}
