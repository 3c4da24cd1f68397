package reference

import (
	"context"
	"fmt"
	"time"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

const (
	prefix      = "QU"
	keyPrefix   = "quotes_"
	periodFmt   = "200601"
	maxPerMonth = 9999
)

// CounterStore runs fn against the record stored under key inside one
// atomic transaction and persists what fn returns. exists is false when no
// record is stored yet; an error from fn aborts without writing.
type CounterStore interface {
	ReadModifyWrite(
		ctx context.Context,
		key string,
		fn func(current int64, exists bool) (int64, error),
	) (int64, error)
}

type Generator struct {
	store CounterStore
}

func NewGenerator(store CounterStore) *Generator {
	return &Generator{store: store}
}

// Next allocates the next reference of forDate's calendar month.
func (g *Generator) Next(ctx context.Context, forDate time.Time) (string, error) {
	const op string = "reference.Generator.Next"
	period := Period(forDate)
	log := logger.With(logger.String("period", period))

	seq, err := g.store.ReadModifyWrite(ctx, CounterKey(forDate), func(current int64, exists bool) (int64, error) {
		if !exists {
			return 1, nil
		}
		if current >= maxPerMonth {
			return 0, fmt.Errorf("%w: %s reached %d", model.ErrReferenceExhausted, period, maxPerMonth)
		}
		return current + 1, nil
	})
	if err != nil {
		log.Error(ctx, "allocate reference", logger.ErrorF(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ref := Format(forDate, seq)
	log.Debug(ctx, "reference allocated", logger.String("reference", ref))
	return ref, nil
}

// Period is the YYYYMM month key of t in UTC.
func Period(t time.Time) string {
	return t.UTC().Format(periodFmt)
}

// CounterKey names the per-month counter record.
func CounterKey(t time.Time) string {
	return keyPrefix + Period(t)
}

// Format renders QU-YYYYMM-#### for the given sequence number.
func Format(t time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, Period(t), seq)
}
