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

type ServiceRepository struct {
	collection *mongo.Collection
}

func NewServiceRepository(db *mongo.Client) *ServiceRepository {
	return &ServiceRepository{
		collection: config.GetCollection(db, "services"),
	}
}

func (r *ServiceRepository) Insert(ctx context.Context, service *models.Service) error {
	if service.ID.IsZero() {
		service.ID = primitive.NewObjectID()
	}
	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, service)
	return err
}

func (r *ServiceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	var service models.Service
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&service)
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// List returns catalog entries; activeOnly hides disabled services from clients
func (r *ServiceRepository) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// FindIDsByName resolves a name fragment (Arabic or English) to service ids,
// used by the serviceType list filter
func (r *ServiceRepository) FindIDsByName(ctx context.Context, name string) ([]primitive.ObjectID, error) {
	pattern := primitive.Regex{Pattern: name, Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"name": pattern},
		{"nameEn": pattern},
	}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	service.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": service.ID}, service)
	return err
}

func (r *ServiceRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
