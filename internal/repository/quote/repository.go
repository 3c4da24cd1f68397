package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/internal/repository/hub"
	"github.com/you-humble/btp-quote/platform/logger"
)

type repository struct {
	coll *mongo.Collection
	hub  *hub.Hub
	now  func() time.Time
}

// NewQuoteRepository serves quotes from coll. Live subscriptions observe
// writes made through this instance.
func NewQuoteRepository(collection *mongo.Collection, readTimeout time.Duration) *repository {
	r := &repository{coll: collection, now: time.Now}
	r.hub = hub.New(r.List, readTimeout)
	return r
}

func (r *repository) Create(ctx context.Context, q *model.Quote) (string, error) {
	const op = "repository.Create"

	ent := EntityFromModel(q)
	if ent.ID == "" {
		ent.ID = uuid.NewString()
	}
	now := r.now().UTC()
	if ent.CreatedAt.IsZero() {
		ent.CreatedAt = now
	}
	ent.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, ent); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%s: %w: %v", op, model.ErrConflict, err)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	r.hub.Notify()
	return ent.ID, nil
}

func (r *repository) Update(ctx context.Context, id string, patch model.Patch) error {
	const op = "repository.Update"

	matched, err := r.update(ctx, bson.M{"_id": id}, id, patch)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !matched {
		return fmt.Errorf("%s: %w", op, model.ErrQuoteNotFound)
	}
	return nil
}

// UpdateIfStatus applies patch only while the stored status is still
// expected.
func (r *repository) UpdateIfStatus(ctx context.Context, id string, expected model.QuoteStatus, patch model.Patch) error {
	const op = "repository.UpdateIfStatus"

	matched, err := r.update(ctx, bson.M{"_id": id, "status": string(expected)}, id, patch)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if matched {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, model.ErrQuoteNotFound)
	}
	return fmt.Errorf("%s: %w: status is no longer %s", op, model.ErrConflict, expected)
}

func (r *repository) update(ctx context.Context, filter bson.M, id string, patch model.Patch) (bool, error) {
	clean, dropped := patch.Sanitized()
	if len(dropped) > 0 {
		logger.Warn(ctx, "immutable fields dropped from update",
			logger.String("quote_id", id),
			logger.Strings("fields", dropped),
		)
	}

	set, err := BuildMongoSet(clean, r.now().UTC())
	if err != nil {
		return false, err
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, nil
	}

	r.hub.Notify()
	return true, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	const op = "repository.Delete"

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, model.ErrQuoteNotFound)
	}

	r.hub.Notify()
	return nil
}

func (r *repository) QuoteByID(ctx context.Context, id string) (*model.Quote, error) {
	const op = "repository.QuoteByID"

	var ent QuoteEntity
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, model.ErrQuoteNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return EntityToModel(&ent), nil
}

func (r *repository) List(ctx context.Context, params model.ListParams) ([]model.Quote, error) {
	const op = "repository.List"

	sort, err := BuildMongoSort(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cur, err := r.coll.Find(ctx, BuildMongoFilter(params), options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			logger.Warn(ctx, "close cursor", logger.String("op", op), logger.ErrorF(cerr))
		}
	}()

	out := make([]model.Quote, 0)
	for cur.Next(ctx) {
		var ent QuoteEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, fmt.Errorf("%s decode: %w", op, err)
		}
		out = append(out, *EntityToModel(&ent))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s cursor: %w", op, err)
	}

	return out, nil
}

func (r *repository) Subscribe(
	ctx context.Context,
	params model.ListParams,
	fn func([]model.Quote),
) (func(), error) {
	return r.hub.Subscribe(ctx, params, fn)
}

// Close stops live subscriptions. The client itself is closed by its owner.
func (r *repository) Close(context.Context) error {
	r.hub.Close()
	return nil
}
