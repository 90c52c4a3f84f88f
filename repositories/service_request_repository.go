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

type ServiceRequestRepository struct {
	collection *mongo.Collection
}

func NewServiceRequestRepository(db *mongo.Client) *ServiceRequestRepository {
	return &ServiceRequestRepository{
		collection: config.GetCollection(db, "serviceRequests"),
	}
}

func (r *ServiceRequestRepository) Insert(ctx context.Context, request *models.ServiceRequest) error {
	if request.ID.IsZero() {
		request.ID = primitive.NewObjectID()
	}
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

func (r *ServiceRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Update persists the full request document. Attachments live embedded in the
// document, so an attachment replace rides in the same atomic write.
func (r *ServiceRequestRepository) Update(ctx context.Context, request *models.ServiceRequest) error {
	request.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": request.ID}, request)
	return err
}

func (r *ServiceRequestRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// List returns requests matching the filter, newest first
func (r *ServiceRequestRepository) List(ctx context.Context, filter models.ServiceRequestFilter) ([]models.ServiceRequest, error) {
	query := bson.M{}

	if filter.UserID != nil {
		query["userId"] = *filter.UserID
	}
	if len(filter.ServiceIDs) > 0 {
		query["serviceId"] = bson.M{"$in": filter.ServiceIDs}
	}
	if filter.ArmamentLevel != "" {
		query["armamentLevel"] = filter.ArmamentLevel
	}
	if filter.Draft != nil {
		query["isDraft"] = *filter.Draft
	}
	if filter.From != nil {
		query["startAt"] = bson.M{"$gte": *filter.From}
	}
	if filter.To != nil {
		query["endAt"] = bson.M{"$lte": *filter.To}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	var requests []models.ServiceRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// FindReminderCandidates fetches the bounded candidate set for the reminder
// sweep: non-terminal statuses only. Draft and startAt eligibility is applied
// in memory by the sweep because the horizon is per-row.
func (r *ServiceRequestRepository) FindReminderCandidates(ctx context.Context, limit int64) ([]models.ServiceRequest, error) {
	query := bson.M{
		"status": bson.M{"$in": []string{models.RequestStatusPending, models.RequestStatusInProgress}},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startAt", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	var requests []models.ServiceRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// MarkReminded stamps lastReminderAt for one swept request
func (r *ServiceRequestRepository) MarkReminded(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"lastReminderAt": at,
		"updatedAt":      at,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
