package media

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dronedeck/media-api/internal/infrastructure/database"

	domain "github.com/dronedeck/media-api/internal/domain/media"
)

// Repository is the MongoDB implementation of the domain media repository.
// Records key on _id, which is also the shard key; there are no
// transactions and no concurrency tokens, so concurrent replaces of the
// same id are last-write-wins.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *database.Mongo) *Repository {
	return &Repository{collection: db.Collection()}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.MediaRecord, error) {
	var record domain.MediaRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("get media record", err)
	}
	return &record, nil
}

func (r *Repository) Create(ctx context.Context, record *domain.MediaRecord) error {
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return storeErr("create media record", err)
	}
	return nil
}

func (r *Repository) Replace(ctx context.Context, record *domain.MediaRecord) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
	if err != nil {
		return storeErr("replace media record", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr("delete media record", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAll returns the full collection ordered by upload time, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.MediaRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeErr("list media records", err)
	}
	defer cursor.Close(ctx)

	records := []*domain.MediaRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, storeErr("decode media records", err)
	}
	return records, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}
