package repositories

import (
	"context"
	"time"

	"github.com/harisapp/haris_backend/config"
	"github.com/harisapp/haris_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Client) *ActivityRepository {
	return &ActivityRepository{
		collection: config.GetCollection(db, "activityLogs"),
	}
}

func (r *ActivityRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// List returns activity entries for the admin viewer, newest first
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityLogFilter) ([]models.ActivityLog, error) {
	query := bson.M{}
	if filter.EntityType != "" {
		query["entityType"] = filter.EntityType
	}
	if filter.EntityID != "" {
		query["entityId"] = filter.EntityID
	}
	if filter.Action != "" {
		query["action"] = filter.Action
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	var entries []models.ActivityLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
