package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice statuses
const (
	InvoiceStatusUnpaid = "unpaid"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoid   = "void"
)

// Invoice model. At most one invoice exists per service request, enforced by a
// unique index on serviceRequestId.
type Invoice struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	InvoiceNumber    string             `json:"invoiceNumber" bson:"invoiceNumber"`
	ServiceRequestID primitive.ObjectID `json:"serviceRequestId" bson:"serviceRequestId"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	ServiceID        primitive.ObjectID `json:"serviceId" bson:"serviceId"`
	ServiceName      string             `json:"serviceName" bson:"serviceName"`
	Amount           float64            `json:"amount" bson:"amount"`
	TaxRate          float64            `json:"taxRate" bson:"taxRate"`
	TaxAmount        float64            `json:"taxAmount" bson:"taxAmount"`
	Total            float64            `json:"total" bson:"total"`
	Status           string             `json:"status" bson:"status"` // "unpaid", "paid", "void"
	IssuedBy         primitive.ObjectID `json:"issuedBy" bson:"issuedBy"`
	IssuedAt         time.Time          `json:"issuedAt" bson:"issuedAt"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// InvoiceStatusUpdateRequest model
type InvoiceStatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}
