package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service categories offered by the portal
const (
	ServiceCategoryBodyguard  = "bodyguard"
	ServiceCategoryCCTV       = "cctv"
	ServiceCategoryEvent      = "event_security"
	ServiceCategoryCleaning   = "cleaning"
	ServiceCategoryConsulting = "consulting"
	ServiceCategoryTraining   = "training"
)

// Service model describes a catalog entry clients can request.
// Name/Description carry the Arabic text; the *En fields are optional.
type Service struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	NameEn        string             `json:"nameEn,omitempty" bson:"nameEn,omitempty"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	DescriptionEn string             `json:"descriptionEn,omitempty" bson:"descriptionEn,omitempty"`
	Category      string             `json:"category" bson:"category"`
	Price         *float64           `json:"price,omitempty" bson:"price,omitempty"` // nil means priced per engagement, no auto-invoice
	IsActive      bool               `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ServicePayload model for creating/updating a catalog entry
type ServicePayload struct {
	Name          string   `json:"name" validate:"required"`
	NameEn        string   `json:"nameEn,omitempty"`
	Description   string   `json:"description,omitempty"`
	DescriptionEn string   `json:"descriptionEn,omitempty"`
	Category      string   `json:"category" validate:"required"`
	Price         *float64 `json:"price,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
}
