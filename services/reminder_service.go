// services/reminder_service.go
//
// ReminderService sweeps upcoming service requests and notifies their owners
// ahead of the start time. Each row carries its own lookahead horizon
// (notifyBeforeHours), so the window test runs in memory after a broad
// status-based candidate query.
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/harisapp/haris_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// CandidateLimit caps how many rows one sweep pulls from storage.
	CandidateLimit = 800
	// ProcessLimit caps how many reminders one sweep actually sends.
	ProcessLimit = 200
	// ReminderCooldown suppresses repeat reminders for the same request.
	ReminderCooldown = 6 * time.Hour
)

// ErrSweepInProgress is returned when another sweep holds the lock.
var ErrSweepInProgress = errors.New("a reminder sweep is already running")

// ReminderStore is the persistence port for the sweep.
type ReminderStore interface {
	FindReminderCandidates(ctx context.Context, limit int64) ([]models.ServiceRequest, error)
	MarkReminded(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// SweepLocker serializes sweeps across processes. Acquire returns false when
// the lock is held elsewhere.
type SweepLocker interface {
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)
	Release(ctx context.Context)
}

// ReminderNotifier delivers the reminder itself.
type ReminderNotifier interface {
	UpcomingRequest(request *models.ServiceRequest, owner *models.User)
}

type ReminderService struct {
	store    ReminderStore
	users    UserStore
	activity ActivityLogger
	notifier ReminderNotifier
	locker   SweepLocker
	now      func() time.Time
}

func NewReminderService(store ReminderStore, users UserStore, activity ActivityLogger, notifier ReminderNotifier, locker SweepLocker) *ReminderService {
	return &ReminderService{
		store:    store,
		users:    users,
		activity: activity,
		notifier: notifier,
		locker:   locker,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (s *ReminderService) SetClock(now func() time.Time) {
	s.now = now
}

// Sweep runs one reminder pass. A request qualifies when it is submitted,
// scheduled, starts within its own notifyBeforeHours horizon, and was not
// reminded within the cooldown. A failure on one row never stops the rest.
func (s *ReminderService) Sweep(ctx context.Context) (*models.ReminderSweepResult, error) {
	if s.locker != nil {
		acquired, err := s.locker.Acquire(ctx, 5*time.Minute)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrSweepInProgress
		}
		defer s.locker.Release(ctx)
	}

	candidates, err := s.store.FindReminderCandidates(ctx, CandidateLimit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &models.ReminderSweepResult{IDs: []string{}}

	for i := range candidates {
		request := &candidates[i]
		result.Checked++

		if request.IsDraft || request.StartAt == nil {
			continue
		}

		hours := request.NotifyBeforeHours
		if hours <= 0 {
			hours = models.DefaultNotifyBeforeHours
		}
		horizon := now.Add(time.Duration(hours) * time.Hour)
		if request.StartAt.After(horizon) {
			continue
		}
		result.WindowMatched++

		if request.LastReminderAt != nil && now.Sub(*request.LastReminderAt) < ReminderCooldown {
			continue
		}
		if result.RemindersSent >= ProcessLimit {
			continue
		}

		if err := s.remind(ctx, request, now); err != nil {
			log.Printf("reminder failed for request %s: %v", request.ID.Hex(), err)
			continue
		}
		result.RemindersSent++
		result.IDs = append(result.IDs, request.ID.Hex())
	}

	return result, nil
}

func (s *ReminderService) remind(ctx context.Context, request *models.ServiceRequest, now time.Time) error {
	owner, err := s.users.FindByID(ctx, request.UserID)
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.UpcomingRequest(request, owner)
	}

	// Mark last: an unmarked send means at worst a duplicate reminder next
	// sweep, a marked non-send means a missed one
	if err := s.store.MarkReminded(ctx, request.ID, now); err != nil {
		return err
	}
	request.LastReminderAt = &now

	s.activity.Log(ctx, models.ActivityLog{
		EntityType: "service_request",
		EntityID:   request.ID.Hex(),
		Action:     models.ActionReminderSent,
		Metadata: map[string]interface{}{
			"startAt":           request.StartAt,
			"notifyBeforeHours": request.NotifyBeforeHours,
			"userId":            request.UserID.Hex(),
		},
	})
	return nil
}
