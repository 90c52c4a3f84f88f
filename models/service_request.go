package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request statuses
const (
	RequestStatusPending    = "pending"
	RequestStatusInProgress = "in_progress"
	RequestStatusCompleted  = "completed"
	RequestStatusCancelled  = "cancelled"
)

// Request priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Armament levels for personnel-based requests
const (
	ArmamentStandard   = "standard"
	ArmamentArmed      = "armed"
	ArmamentSupervisor = "supervisor"
	ArmamentMixed      = "mixed"
)

// Duration units
const (
	DurationHours = "hours"
	DurationDays  = "days"
)

// DefaultNotifyBeforeHours is the reminder lookahead applied when a request
// does not configure its own.
const DefaultNotifyBeforeHours = 24

// Attachment is owned by its parent request; updates replace the whole list.
type Attachment struct {
	ID       string `json:"id,omitempty" bson:"id,omitempty"`
	URL      string `json:"url" bson:"url"`
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty" bson:"mimeType,omitempty"`
}

// ServiceRequest model
type ServiceRequest struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID            primitive.ObjectID `json:"userId" bson:"userId"`
	ServiceID         primitive.ObjectID `json:"serviceId" bson:"serviceId"`
	Title             string             `json:"title" bson:"title"`
	Description       string             `json:"description,omitempty" bson:"description,omitempty"`
	Status            string             `json:"status" bson:"status"`     // "pending", "in_progress", "completed", "cancelled"
	Priority          string             `json:"priority" bson:"priority"` // "low", "medium", "high", "urgent"
	IsDraft           bool               `json:"isDraft" bson:"isDraft"`
	StartAt           *time.Time         `json:"startAt,omitempty" bson:"startAt,omitempty"`
	EndAt             *time.Time         `json:"endAt,omitempty" bson:"endAt,omitempty"`
	PersonnelCount    *int               `json:"personnelCount,omitempty" bson:"personnelCount,omitempty"`
	DurationUnit      string             `json:"durationUnit,omitempty" bson:"durationUnit,omitempty"` // "hours" or "days"
	LocationText      string             `json:"locationText,omitempty" bson:"locationText,omitempty"`
	LocationLat       *float64           `json:"locationLat,omitempty" bson:"locationLat,omitempty"`
	LocationLng       *float64           `json:"locationLng,omitempty" bson:"locationLng,omitempty"`
	ArmamentLevel     string             `json:"armamentLevel,omitempty" bson:"armamentLevel,omitempty"` // "standard", "armed", "supervisor", "mixed"
	Notes             string             `json:"notes,omitempty" bson:"notes,omitempty"`
	NotifyBeforeHours int                `json:"notifyBeforeHours" bson:"notifyBeforeHours"`
	LastReminderAt    *time.Time         `json:"lastReminderAt,omitempty" bson:"lastReminderAt,omitempty"`
	Attachments       []Attachment       `json:"attachments,omitempty" bson:"attachments,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Resolved relations, populated on reads, never persisted
	Service *Service `json:"service,omitempty" bson:"-"`
	Owner   *User    `json:"owner,omitempty" bson:"-"`
}

// AttachmentInput model for attachment payloads
type AttachmentInput struct {
	URL      string `json:"url" validate:"required"`
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// CreateServiceRequestRequest model. Numeric fields accept either JSON numbers
// or strings; bad values are dropped rather than rejected. Dates are strings
// and must parse.
type CreateServiceRequestRequest struct {
	ServiceID         string            `json:"serviceId"`
	Title             string            `json:"title"`
	Description       string            `json:"description,omitempty"`
	UserID            string            `json:"userId,omitempty"`   // admin only: create on behalf of a client
	Priority          string            `json:"priority,omitempty"` // admin only
	Status            string            `json:"status,omitempty"`   // admin only
	PersonnelCount    interface{}       `json:"personnelCount,omitempty"`
	DurationUnit      string            `json:"durationUnit,omitempty"`
	StartAt           *string           `json:"startAt,omitempty"`
	EndAt             *string           `json:"endAt,omitempty"`
	LocationText      string            `json:"locationText,omitempty"`
	LocationLat       interface{}       `json:"locationLat,omitempty"`
	LocationLng       interface{}       `json:"locationLng,omitempty"`
	ArmamentLevel     string            `json:"armamentLevel,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	NotifyBeforeHours interface{}       `json:"notifyBeforeHours,omitempty"`
	IsDraft           bool              `json:"isDraft,omitempty"`
	Attachments       []AttachmentInput `json:"attachments,omitempty"`
}

// UpdateServiceRequestRequest model. Pointer fields distinguish "absent" from
// "set to empty"; absent fields keep their stored value.
type UpdateServiceRequestRequest struct {
	Title             *string            `json:"title,omitempty"`
	Description       *string            `json:"description,omitempty"`
	Status            *string            `json:"status,omitempty"`   // admin only (owner may only echo "pending")
	Priority          *string            `json:"priority,omitempty"` // admin only
	PersonnelCount    interface{}        `json:"personnelCount,omitempty"`
	DurationUnit      *string            `json:"durationUnit,omitempty"`
	StartAt           *string            `json:"startAt,omitempty"`
	EndAt             *string            `json:"endAt,omitempty"`
	LocationText      *string            `json:"locationText,omitempty"`
	LocationLat       interface{}        `json:"locationLat,omitempty"`
	LocationLng       interface{}        `json:"locationLng,omitempty"`
	ArmamentLevel     *string            `json:"armamentLevel,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	NotifyBeforeHours interface{}        `json:"notifyBeforeHours,omitempty"`
	IsDraft           *bool              `json:"isDraft,omitempty"`
	Attachments       *[]AttachmentInput `json:"attachments,omitempty"`
}

// ServiceRequestFilter narrows List results. Non-admin callers always get
// UserID forced to their own id before this reaches the repository.
type ServiceRequestFilter struct {
	UserID        *primitive.ObjectID
	ServiceIDs    []primitive.ObjectID
	ArmamentLevel string
	Draft         *bool
	From          *time.Time
	To            *time.Time
	Limit         int64
}

// ReminderSweepResult summarizes one reminder sweep invocation.
type ReminderSweepResult struct {
	Checked       int      `json:"checked"`
	WindowMatched int      `json:"windowMatched"`
	RemindersSent int      `json:"remindersSent"`
	IDs           []string `json:"ids"`
}

// ValidStatus reports whether s is a known request status.
func ValidStatus(s string) bool {
	switch s {
	case RequestStatusPending, RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ValidArmamentLevel reports whether a is a known armament level.
func ValidArmamentLevel(a string) bool {
	switch a {
	case ArmamentStandard, ArmamentArmed, ArmamentSupervisor, ArmamentMixed:
		return true
	}
	return false
}

// ValidDurationUnit reports whether u is a known duration unit.
func ValidDurationUnit(u string) bool {
	return u == DurationHours || u == DurationDays
}
