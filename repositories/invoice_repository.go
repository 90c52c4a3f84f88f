package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harisapp/haris_backend/config"
	"github.com/harisapp/haris_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInvoiceExists is returned when an insert hits the unique index on
// serviceRequestId. Callers treat it as "already invoiced", not a failure.
var ErrInvoiceExists = errors.New("invoice already exists for this service request")

type InvoiceRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Client) *InvoiceRepository {
	return &InvoiceRepository{
		collection: config.GetCollection(db, "invoices"),
		counters:   config.GetCollection(db, "counters"),
	}
}

func (r *InvoiceRepository) Insert(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ID.IsZero() {
		invoice.ID = primitive.NewObjectID()
	}
	now := time.Now()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, invoice)
	if mongo.IsDuplicateKeyError(err) {
		return ErrInvoiceExists
	}
	return err
}

// FindByRequestID returns the invoice for a request, or nil when none exists
func (r *InvoiceRepository) FindByRequestID(ctx context.Context, requestID primitive.ObjectID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.collection.FindOne(ctx, bson.M{"serviceRequestId": requestID}).Decode(&invoice)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&invoice)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// List returns invoices, optionally scoped to one client, newest first
func (r *InvoiceRepository) List(ctx context.Context, userID *primitive.ObjectID) ([]models.Invoice, error) {
	filter := bson.M{}
	if userID != nil {
		filter["userId"] = *userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// NextInvoiceNumber allocates a sequential number via an atomic counter
// document, e.g. "INV-2026-000042"
func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	counterID := fmt.Sprintf("invoices-%d", year)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	return fmt.Sprintf("INV-%d-%06d", year, counter.Seq), nil
}
