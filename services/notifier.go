package services

import (
	"fmt"
	"log"

	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/utils"
	"github.com/harisapp/haris_backend/websocket"
	"go.mongodb.org/mongo-driver/mongo"
)

// PortalNotifier fans lifecycle events out over every channel the portal has:
// email, stored in-app notifications and live websocket pushes. Everything
// here is best effort; a dead SMTP relay or disconnected socket is logged and
// forgotten.
type PortalNotifier struct {
	db  *mongo.Client
	hub *websocket.Hub
}

func NewPortalNotifier(db *mongo.Client, hub *websocket.Hub) *PortalNotifier {
	return &PortalNotifier{db: db, hub: hub}
}

// RequestSubmitted tells the admins a client submitted a request.
func (n *PortalNotifier) RequestSubmitted(request *models.ServiceRequest, owner *models.User) {
	if err := utils.NotifyAdminsOfSubmission(n.db, request, owner); err != nil {
		log.Printf("Failed to notify admins of submission: %v", err)
	}

	if n.hub != nil {
		n.hub.BroadcastToAdmins(websocket.Notification{
			Type:    websocket.NotificationTypeRequestSubmitted,
			Message: fmt.Sprintf("New service request: %s", request.Title),
			Data: map[string]interface{}{
				"requestId": request.ID.Hex(),
				"clientId":  owner.ID.Hex(),
			},
		})
	}
}

// StatusChanged tells the owner an admin moved their request.
func (n *PortalNotifier) StatusChanged(request *models.ServiceRequest, owner *models.User, fromStatus, toStatus string) {
	if err := utils.NotifyOwnerOfStatusChange(n.db, request, owner, fromStatus, toStatus); err != nil {
		log.Printf("Failed to notify owner of status change: %v", err)
	}

	if n.hub != nil {
		if err := n.hub.SendToUser(owner.ID, websocket.Notification{
			Type:    websocket.NotificationTypeRequestStatus,
			Message: fmt.Sprintf("Your request %q is now %s", request.Title, toStatus),
			Data: map[string]interface{}{
				"requestId":  request.ID.Hex(),
				"fromStatus": fromStatus,
				"toStatus":   toStatus,
			},
		}); err == nil {
			return
		}
	}
}

// UpcomingRequest reminds the owner their request starts soon.
func (n *PortalNotifier) UpcomingRequest(request *models.ServiceRequest, owner *models.User) {
	subject := "Upcoming Service Reminder"
	body := fmt.Sprintf("Dear %s,\n\nYour service request %q is scheduled to start at %s.\n\nBest regards,\nHaris Security Services",
		owner.FullName, request.Title, request.StartAt.Format("2006-01-02 15:04"))

	if owner.Email != "" {
		if err := utils.SendEmail(owner.Email, subject, body); err != nil {
			log.Printf("Failed to send reminder email to %s: %v", owner.Email, err)
		}
	}

	message := fmt.Sprintf("Your request %q starts at %s.", request.Title, request.StartAt.Format("2006-01-02 15:04"))
	if err := utils.SaveNotification(n.db, owner.ID, subject, message, "request_reminder", map[string]interface{}{
		"requestId": request.ID.Hex(),
		"startAt":   request.StartAt,
	}); err != nil {
		log.Printf("Failed to save reminder notification: %v", err)
	}

	if n.hub != nil {
		n.hub.SendToUser(owner.ID, websocket.Notification{
			Type:    websocket.NotificationTypeRequestReminder,
			Message: message,
			Data:    map[string]interface{}{"requestId": request.ID.Hex()},
		})
	}
}
