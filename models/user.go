package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types
const (
	UserTypeAdmin    = "admin"
	UserTypeClient   = "client"
	UserTypeEmployee = "employee"
)

// User model
type User struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FullName          string             `json:"fullName" bson:"fullName"`
	Email             string             `json:"email" bson:"email"`
	Password          string             `json:"-" bson:"password"`
	Phone             string             `json:"phone,omitempty" bson:"phone,omitempty"`
	UserType          string             `json:"userType" bson:"userType"` // "admin", "client", "employee"
	CompanyName       string             `json:"companyName,omitempty" bson:"companyName,omitempty"`
	PreferredLanguage string             `json:"preferredLanguage,omitempty" bson:"preferredLanguage,omitempty"` // "ar" (default) or "en"
	IsActive          bool               `json:"isActive" bson:"isActive"`
	LastActivityAt    *time.Time         `json:"lastActivityAt,omitempty" bson:"lastActivityAt,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SignupRequest model for client registration
type SignupRequest struct {
	FullName          string `json:"fullName" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	Phone             string `json:"phone,omitempty"`
	CompanyName       string `json:"companyName,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

// LoginRequest model
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued tokens along with the user profile
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// ForgotPasswordRequest model
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest model
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
