package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harisapp/haris_backend/config"
	"github.com/harisapp/haris_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"
)

// SaveNotification saves an in-app notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email through the configured SMTP relay
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// NotifyAdminsOfSubmission notifies all admins by email and in-app notification
// that a client submitted a new service request
func NotifyAdminsOfSubmission(db *mongo.Client, request *models.ServiceRequest, owner *models.User) error {
	cursor, err := config.GetCollection(db, "users").Find(context.Background(), bson.M{"userType": models.UserTypeAdmin, "isActive": true})
	if err != nil {
		return fmt.Errorf("failed to find admins: %w", err)
	}
	var admins []models.User
	if err := cursor.All(context.Background(), &admins); err != nil {
		return fmt.Errorf("failed to decode admins: %w", err)
	}

	subject := "New Service Request Submitted"
	body := fmt.Sprintf("Client %s submitted a new service request: %s.\nPlease review it in the admin portal.", owner.FullName, request.Title)
	notifMsg := fmt.Sprintf("Client %s submitted: %s", owner.FullName, request.Title)

	for _, admin := range admins {
		if admin.Email != "" {
			if err := SendEmail(admin.Email, subject, body); err != nil {
				log.Printf("Failed to send submission email to admin %s: %v", admin.Email, err)
			}
		}
		_ = SaveNotification(db, admin.ID, subject, notifMsg, "request_submitted", map[string]interface{}{
			"requestId": request.ID.Hex(),
			"clientId":  owner.ID.Hex(),
		})
	}
	return nil
}

// NotifyOwnerOfStatusChange notifies the request owner by email and in-app
// notification that an admin moved their request to a new status
func NotifyOwnerOfStatusChange(db *mongo.Client, request *models.ServiceRequest, owner *models.User, fromStatus, toStatus string) error {
	subject := "Service Request Status Updated"
	body := fmt.Sprintf("Dear %s,\n\nYour service request %q has moved from %s to %s.\n\nBest regards,\nHaris Security Services", owner.FullName, request.Title, fromStatus, toStatus)

	if owner.Email != "" {
		if err := SendEmail(owner.Email, subject, body); err != nil {
			log.Printf("Failed to send status email to %s: %v", owner.Email, err)
		}
	}

	notifMsg := fmt.Sprintf("Your request %q is now %s.", request.Title, toStatus)
	return SaveNotification(db, owner.ID, subject, notifMsg, "request_status", map[string]interface{}{
		"requestId":  request.ID.Hex(),
		"fromStatus": fromStatus,
		"toStatus":   toStatus,
	})
}
