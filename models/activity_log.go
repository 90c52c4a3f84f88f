package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity actions
const (
	ActionDraftCreated     = "request_draft_created"
	ActionRequestSubmitted = "request_submitted"
	ActionRequestUpdated   = "request_updated"
	ActionStatusChanged    = "request_status_changed"
	ActionAttachmentAdded  = "attachment_added"
	ActionReminderSent     = "reminder_sent"
	ActionInvoiceCreated   = "invoice_created"
	ActionUserLogin        = "user_login"
	ActionAdminAction      = "admin_action"
)

// ActivityLog model. Writes are fire-and-forget; readers are the admin
// activity viewer and the audit trail on a single request.
type ActivityLog struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EntityType string             `json:"entityType" bson:"entityType"` // "service_request", "invoice", "user", ...
	EntityID   string             `json:"entityId" bson:"entityId"`
	Action     string             `json:"action" bson:"action"`
	FromStatus string             `json:"fromStatus,omitempty" bson:"fromStatus,omitempty"`
	ToStatus   string             `json:"toStatus,omitempty" bson:"toStatus,omitempty"`
	ActorID    string             `json:"actorId,omitempty" bson:"actorId,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// ActivityLogFilter narrows the admin activity viewer.
type ActivityLogFilter struct {
	EntityType string
	EntityID   string
	Action     string
	Limit      int64
}
