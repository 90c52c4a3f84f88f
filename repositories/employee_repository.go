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

type EmployeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Client) *EmployeeRepository {
	return &EmployeeRepository{
		collection: config.GetCollection(db, "employees"),
	}
}

func (r *EmployeeRepository) Insert(ctx context.Context, employee *models.Employee) error {
	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	now := time.Now()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, employee)
	return err
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&employee)
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// List returns the roster, optionally filtered by role
func (r *EmployeeRepository) List(ctx context.Context, role string) ([]models.Employee, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}

	opts := options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var employees []models.Employee
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": employee.ID}, employee)
	return err
}

func (r *EmployeeRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
