package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/privytune/backend/internal/core/domain"
)

const (
	downloadsCollection = "shard_downloads"
	maxDownloadsListed  = 500
)

// DownloadRepository persists shard-download bookkeeping.
type DownloadRepository struct {
	col *mongo.Collection
}

func NewDownloadRepository(db *mongo.Database) *DownloadRepository {
	return &DownloadRepository{col: db.Collection(downloadsCollection)}
}

// Insert stores a single download record.
func (r *DownloadRepository) Insert(ctx context.Context, d *domain.ShardDownload) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert download: %w", err)
	}
	return nil
}

// ListByUserAndModel returns a user's records for one model, newest first.
func (r *DownloadRepository) ListByUserAndModel(ctx context.Context, email, modelID string) ([]*domain.ShardDownload, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(maxDownloadsListed)

	cur, err := r.col.Find(ctx, bson.M{"user_email": email, "model_id": modelID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find downloads: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.ShardDownload, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode downloads: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the lookup index used by ListByUserAndModel.
func (r *DownloadRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_email", Value: 1},
			{Key: "model_id", Value: 1},
			{Key: "recorded_at", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("downloads indexes: %w", err)
	}
	return nil
}
