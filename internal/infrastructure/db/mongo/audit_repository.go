package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

const mutationsCollection = "board_mutations"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(mutationsCollection)}
}

// InsertMutation appends one resolved intent, denials included.
func (r *AuditRepository) InsertMutation(ctx context.Context, record *domain.MutationRecord) error {
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert mutation: %w", err)
	}
	return nil
}

// ListByBoard returns the latest records of a board, newest first.
func (r *AuditRepository) ListByBoard(ctx context.Context, boardID string, limit int64) ([]domain.MutationRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"board_id": boardID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list mutations: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]domain.MutationRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode mutations: %w", err)
	}
	return records, nil
}

// EnsureIndexes creates the indexes used by ListByBoard and by per-user
// lookups.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "board_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create mutation indexes: %w", err)
	}
	return nil
}
