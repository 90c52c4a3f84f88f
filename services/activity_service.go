package services

import (
	"context"
	"log"

	"github.com/harisapp/haris_backend/models"
)

// ActivityWriter is the persistence port for the audit trail.
type ActivityWriter interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
}

// ActivityService records audit events. Logging is fire-and-forget: a failed
// write is reported to the process log and otherwise ignored, so the business
// operation that produced the event never fails because of it.
type ActivityService struct {
	writer ActivityWriter
}

func NewActivityService(writer ActivityWriter) *ActivityService {
	return &ActivityService{writer: writer}
}

func (s *ActivityService) Log(ctx context.Context, entry models.ActivityLog) {
	if err := s.writer.Insert(ctx, &entry); err != nil {
		log.Printf("Failed to record activity %s/%s: %v", entry.EntityType, entry.Action, err)
	}
}
