package counter

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	envconfig "github.com/you-humble/btp-quote/internal/config/env"
	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

const maxBackoff = 20 * time.Millisecond

type counterEntity struct {
	ID        string    `bson:"_id"`
	Value     int64     `bson:"value"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per key and commits each read-modify-write
// with a compare-and-swap on the document version. It works on standalone
// servers, where multi-document transactions are unavailable.
type MongoStore struct {
	coll        *mongo.Collection
	maxAttempts int
}

func NewMongoStore(coll *mongo.Collection, maxAttempts int) *MongoStore {
	if maxAttempts <= 0 {
		maxAttempts = envconfig.DefaultCounterMaxAttempts
	}
	return &MongoStore{coll: coll, maxAttempts: maxAttempts}
}

func (s *MongoStore) ReadModifyWrite(
	ctx context.Context,
	key string,
	fn func(current int64, exists bool) (int64, error),
) (int64, error) {
	const op = "counter.MongoStore.ReadModifyWrite"

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		next, committed, err := s.try(ctx, key, fn)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if committed {
			if attempt > 1 {
				logger.Debug(ctx, "counter committed after retries",
					logger.String("key", key),
					logger.Int("attempts", attempt),
				)
			}
			return next, nil
		}

		if err := backoff(ctx, attempt); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	return 0, fmt.Errorf("%s: %w: counter %s still contended after %d attempts",
		op, model.ErrConflict, key, s.maxAttempts)
}

// try runs one optimistic round. committed is false when another writer
// got there first.
func (s *MongoStore) try(
	ctx context.Context,
	key string,
	fn func(current int64, exists bool) (int64, error),
) (int64, bool, error) {
	var ent counterEntity
	exists := true
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&ent); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, err
		}
		exists = false
	}

	next, err := fn(ent.Value, exists)
	if err != nil {
		return 0, false, err
	}
	now := time.Now().UTC()

	if !exists {
		_, err := s.coll.InsertOne(ctx, counterEntity{ID: key, Value: next, Version: 1, UpdatedAt: now})
		if mongo.IsDuplicateKeyError(err) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		return next, true, nil
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": key, "version": ent.Version},
		bson.M{
			"$set": bson.M{"value": next, "updated_at": now},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return 0, false, err
	}
	return next, res.MatchedCount == 1, nil
}

func backoff(ctx context.Context, attempt int) error {
	d := time.Duration(attempt) * time.Millisecond
	if d > maxBackoff {
		d = maxBackoff
	}
	d = time.Duration(rand.Int64N(int64(d)) + 1)

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
