// services/invoice_service.go
//
// InvoiceService issues at most one invoice per completed service request.
// The guarantee is the unique index on invoices.serviceRequestId; the
// pre-read is only a fast path that avoids burning sequence numbers.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTaxRate applies when VAT_RATE is unset. Lebanese VAT.
const DefaultTaxRate = 0.11

// InvoiceStore is the persistence port for invoices.
type InvoiceStore interface {
	Insert(ctx context.Context, invoice *models.Invoice) error
	FindByRequestID(ctx context.Context, requestID primitive.ObjectID) (*models.Invoice, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error)
	List(ctx context.Context, userID *primitive.ObjectID) ([]models.Invoice, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	NextInvoiceNumber(ctx context.Context) (string, error)
}

type InvoiceService struct {
	invoices InvoiceStore
	catalog  ServiceCatalog
	activity ActivityLogger
	taxRate  float64
}

func NewInvoiceService(invoices InvoiceStore, catalog ServiceCatalog, activity ActivityLogger) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		catalog:  catalog,
		activity: activity,
		taxRate:  taxRateFromEnv(),
	}
}

func taxRateFromEnv() float64 {
	raw := os.Getenv("VAT_RATE")
	if raw == "" {
		return DefaultTaxRate
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate >= 1 {
		log.Printf("ignoring invalid VAT_RATE %q, using %.2f", raw, DefaultTaxRate)
		return DefaultTaxRate
	}
	return rate
}

// CreateFromServiceRequest issues the invoice for a completed request. Called
// again for the same request it returns the existing invoice, never a second
// one.
func (s *InvoiceService) CreateFromServiceRequest(ctx context.Context, request *models.ServiceRequest, actorID string) (*models.Invoice, error) {
	if existing, err := s.invoices.FindByRequestID(ctx, request.ID); err == nil && existing != nil {
		return existing, nil
	}

	service, err := s.catalog.FindByID(ctx, request.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service for invoicing: %w", err)
	}
	if service.Price == nil {
		return nil, NewValidationError("service has no price, nothing to invoice")
	}

	number, err := s.invoices.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	issuedBy, _ := primitive.ObjectIDFromHex(actorID)

	amount := *service.Price
	if request.PersonnelCount != nil && *request.PersonnelCount > 1 {
		amount *= float64(*request.PersonnelCount)
	}
	taxAmount := amount * s.taxRate

	invoice := &models.Invoice{
		InvoiceNumber:    number,
		ServiceRequestID: request.ID,
		UserID:           request.UserID,
		ServiceID:        request.ServiceID,
		ServiceName:      service.Name,
		Amount:           amount,
		TaxRate:          s.taxRate,
		TaxAmount:        taxAmount,
		Total:            amount + taxAmount,
		Status:           models.InvoiceStatusUnpaid,
		IssuedBy:         issuedBy,
		IssuedAt:         time.Now(),
	}

	if err := s.invoices.Insert(ctx, invoice); err != nil {
		// Lost a race with a concurrent completion: the winner's invoice
		// is the invoice
		if errors.Is(err, repositories.ErrInvoiceExists) {
			return s.invoices.FindByRequestID(ctx, request.ID)
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.activity.Log(ctx, models.ActivityLog{
		EntityType: "invoice",
		EntityID:   invoice.ID.Hex(),
		Action:     models.ActionInvoiceCreated,
		ActorID:    actorID,
		Metadata: map[string]interface{}{
			"invoiceNumber":    invoice.InvoiceNumber,
			"serviceRequestId": request.ID.Hex(),
			"total":            invoice.Total,
		},
	})

	return invoice, nil
}

// Get returns one invoice. Non-admins may only read their own.
func (s *InvoiceService) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Resource: "invoice"}
	}
	if !actor.IsAdmin && invoice.UserID != actor.ID {
		return nil, &ForbiddenError{Message: "you do not own this invoice"}
	}
	return invoice, nil
}

// List returns invoices newest first, scoped to the caller unless admin.
func (s *InvoiceService) List(ctx context.Context, actor Actor, userID *primitive.ObjectID) ([]models.Invoice, error) {
	if !actor.IsAdmin {
		ownID := actor.ID
		userID = &ownID
	}
	return s.invoices.List(ctx, userID)
}

// UpdateStatus moves an invoice between unpaid/paid/void. Admin only.
func (s *InvoiceService) UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status string) (*models.Invoice, error) {
	if !actor.IsAdmin {
		return nil, &ForbiddenError{Message: "admin access required"}
	}
	if status != models.InvoiceStatusUnpaid && status != models.InvoiceStatusPaid && status != models.InvoiceStatusVoid {
		return nil, NewValidationError("invalid invoice status", "status")
	}

	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Resource: "invoice"}
	}

	if err := s.invoices.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.activity.Log(ctx, models.ActivityLog{
		EntityType: "invoice",
		EntityID:   id.Hex(),
		Action:     models.ActionAdminAction,
		FromStatus: invoice.Status,
		ToStatus:   status,
		ActorID:    actor.ID.Hex(),
	})

	invoice.Status = status
	return invoice, nil
}
