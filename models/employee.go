package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee roles
const (
	EmployeeRoleGuard      = "guard"
	EmployeeRoleSupervisor = "supervisor"
	EmployeeRoleTechnician = "technician"
	EmployeeRoleCleaner    = "cleaner"
	EmployeeRoleConsultant = "consultant"
	EmployeeRoleTrainer    = "trainer"
)

// Employee model for the staffing roster managed by admins.
type Employee struct {
	ID                   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FullName             string             `json:"fullName" bson:"fullName"`
	Email                string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone                string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role                 string             `json:"role" bson:"role"`
	ArmamentQualification string            `json:"armamentQualification,omitempty" bson:"armamentQualification,omitempty"` // highest armament level the employee may serve
	IsActive             bool               `json:"isActive" bson:"isActive"`
	HiredAt              *time.Time         `json:"hiredAt,omitempty" bson:"hiredAt,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// EmployeePayload model for employee create/update
type EmployeePayload struct {
	FullName              string  `json:"fullName" validate:"required"`
	Email                 string  `json:"email,omitempty"`
	Phone                 string  `json:"phone,omitempty"`
	Role                  string  `json:"role" validate:"required"`
	ArmamentQualification string  `json:"armamentQualification,omitempty"`
	IsActive              *bool   `json:"isActive,omitempty"`
	HiredAt               *string `json:"hiredAt,omitempty"`
}
