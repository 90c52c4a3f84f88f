package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harisapp/haris_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeReminderStore struct {
	candidates []models.ServiceRequest
	marked     []primitive.ObjectID
	markErr    map[primitive.ObjectID]error
	findErr    error
}

func (s *fakeReminderStore) FindReminderCandidates(ctx context.Context, limit int64) ([]models.ServiceRequest, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if int64(len(s.candidates)) > limit {
		return s.candidates[:limit], nil
	}
	return s.candidates, nil
}

func (s *fakeReminderStore) MarkReminded(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if err := s.markErr[id]; err != nil {
		return err
	}
	s.marked = append(s.marked, id)
	return nil
}

type fakeReminderNotifier struct {
	reminded []primitive.ObjectID
}

func (f *fakeReminderNotifier) UpcomingRequest(request *models.ServiceRequest, owner *models.User) {
	f.reminded = append(f.reminded, request.ID)
}

type fakeLocker struct {
	busy       bool
	acquireErr error
	acquired   int
	released   int
}

func (l *fakeLocker) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	if l.acquireErr != nil {
		return false, l.acquireErr
	}
	if l.busy {
		return false, nil
	}
	l.acquired++
	return true, nil
}

func (l *fakeLocker) Release(ctx context.Context) {
	l.released++
}

var sweepNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func reminderCandidate(ownerID primitive.ObjectID, startIn time.Duration, notifyHours int) models.ServiceRequest {
	startAt := sweepNow.Add(startIn)
	return models.ServiceRequest{
		ID:                primitive.NewObjectID(),
		UserID:            ownerID,
		ServiceID:         primitive.NewObjectID(),
		Title:             "Scheduled job",
		Status:            models.RequestStatusPending,
		StartAt:           &startAt,
		NotifyBeforeHours: notifyHours,
	}
}

func newReminderEnv(store *fakeReminderStore, locker SweepLocker) (*ReminderService, *fakeUserStore, *fakeReminderNotifier, *fakeActivityLogger) {
	users := newFakeUserStore()
	notifier := &fakeReminderNotifier{}
	activity := &fakeActivityLogger{}
	svc := NewReminderService(store, users, activity, notifier, locker)
	svc.SetClock(func() time.Time { return sweepNow })
	return svc, users, notifier, activity
}

func TestSweepUsesPerRowHorizon(t *testing.T) {
	store := &fakeReminderStore{}
	svc, users, notifier, _ := newReminderEnv(store, nil)
	ownerID := users.add(models.UserTypeClient)

	inWindow := reminderCandidate(ownerID, 12*time.Hour, 24)
	outOfWindow := reminderCandidate(ownerID, 48*time.Hour, 24)
	wideHorizon := reminderCandidate(ownerID, 48*time.Hour, 72)
	store.candidates = []models.ServiceRequest{inWindow, outOfWindow, wideHorizon}

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Checked != 3 {
		t.Errorf("checked = %d, want 3", result.Checked)
	}
	if result.WindowMatched != 2 {
		t.Errorf("windowMatched = %d, want 2", result.WindowMatched)
	}
	if result.RemindersSent != 2 {
		t.Errorf("remindersSent = %d, want 2", result.RemindersSent)
	}
	if len(notifier.reminded) != 2 {
		t.Errorf("notifications = %d, want 2", len(notifier.reminded))
	}
	for _, id := range result.IDs {
		if id == outOfWindow.ID.Hex() {
			t.Error("request outside its horizon was reminded")
		}
	}
}

func TestSweepSkipsDraftsAndUnscheduled(t *testing.T) {
	store := &fakeReminderStore{}
	svc, users, _, _ := newReminderEnv(store, nil)
	ownerID := users.add(models.UserTypeClient)

	draft := reminderCandidate(ownerID, time.Hour, 24)
	draft.IsDraft = true
	unscheduled := reminderCandidate(ownerID, time.Hour, 24)
	unscheduled.StartAt = nil
	store.candidates = []models.ServiceRequest{draft, unscheduled}

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Checked != 2 || result.WindowMatched != 0 || result.RemindersSent != 0 {
		t.Errorf("result = %+v, want 2 checked and nothing matched", result)
	}
}

func TestSweepDefaultsZeroNotifyHours(t *testing.T) {
	store := &fakeReminderStore{}
	svc, users, _, _ := newReminderEnv(store, nil)
	ownerID := users.add(models.UserTypeClient)

	// 12h out with an unset horizon falls inside the 24h default
	candidate := reminderCandidate(ownerID, 12*time.Hour, 0)
	store.candidates = []models.ServiceRequest{candidate}

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.RemindersSent != 1 {
		t.Errorf("remindersSent = %d, want 1", result.RemindersSent)
	}
}

func TestSweepHonorsCooldown(t *testing.T) {
	store := &fakeReminderStore{}
	svc, users, _, _ := newReminderEnv(store, nil)
	ownerID := users.add(models.UserTypeClient)

	recent := reminderCandidate(ownerID, time.Hour, 24)
	recentAt := sweepNow.Add(-2 * time.Hour)
	recent.LastReminderAt = &recentAt

	stale := reminderCandidate(ownerID, time.Hour, 24)
	staleAt := sweepNow.Add(-7 * time.Hour)
	stale.LastReminderAt = &staleAt

	store.candidates = []models.ServiceRequest{recent, stale}

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.WindowMatched != 2 {
		t.Errorf("windowMatched = %d, want 2", result.WindowMatched)
	}
	if result.RemindersSent != 1 {
		t.Fatalf("remindersSent = %d, want only the stale row", result.RemindersSent)
	}
	if result.IDs[0] != stale.ID.Hex() {
		t.Errorf("reminded %s, want the stale row", result.IDs[0])
	}
}

func TestSweepCapsProcessedRows(t *testing.T) {
	store := &fakeReminderStore{}
	svc, users, _, _ := newReminderEnv(store, nil)
	ownerID := users.add(models.UserTypeClient)

	for i := 0; i < ProcessLimit+50; i++ {
		store.candidates = append(store.candidates, reminderCandidate(ownerID, time.Hour, 24))
	}

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.RemindersSent != ProcessLimit {
		t.Errorf("remindersSent = %d, want the %d cap", result.RemindersSent, ProcessLimit)
	}
	if result.WindowMatched != ProcessLimit+50 {
		t.Errorf("windowMatched = %d, counting continues past the cap", result.WindowMatched)
	}
}

func TestSweepIsolatesRowFailures(t *testing.T) {
	store := &fakeReminderStore{markErr: map[primitive.ObjectID]error{}}
	svc, users, _, _ := newReminderEnv(store, nil)
	ownerID := users.add(models.UserTypeClient)

	broken := reminderCandidate(ownerID, time.Hour, 24)
	healthy := reminderCandidate(ownerID, time.Hour, 24)
	store.markErr[broken.ID] = errors.New("write failed")
	store.candidates = []models.ServiceRequest{broken, healthy}

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("a single bad row must not fail the sweep: %v", err)
	}
	if result.RemindersSent != 1 {
		t.Errorf("remindersSent = %d, want 1", result.RemindersSent)
	}
	if len(store.marked) != 1 || store.marked[0] != healthy.ID {
		t.Errorf("marked = %v, want only the healthy row", store.marked)
	}
}

func TestSweepSkipsRowsWithMissingOwner(t *testing.T) {
	store := &fakeReminderStore{}
	svc, users, notifier, _ := newReminderEnv(store, nil)
	ownerID := users.add(models.UserTypeClient)

	orphan := reminderCandidate(primitive.NewObjectID(), time.Hour, 24)
	owned := reminderCandidate(ownerID, time.Hour, 24)
	store.candidates = []models.ServiceRequest{orphan, owned}

	result, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.RemindersSent != 1 {
		t.Errorf("remindersSent = %d, want 1", result.RemindersSent)
	}
	if len(notifier.reminded) != 1 || notifier.reminded[0] != owned.ID {
		t.Errorf("reminded = %v, want only the owned row", notifier.reminded)
	}
}

func TestSweepRefusesWhenLockBusy(t *testing.T) {
	store := &fakeReminderStore{}
	locker := &fakeLocker{busy: true}
	svc, _, _, _ := newReminderEnv(store, locker)

	_, err := svc.Sweep(context.Background())
	if !errors.Is(err, ErrSweepInProgress) {
		t.Fatalf("expected ErrSweepInProgress, got %v", err)
	}
}

func TestSweepReleasesLock(t *testing.T) {
	store := &fakeReminderStore{}
	locker := &fakeLocker{}
	svc, users, _, _ := newReminderEnv(store, locker)
	ownerID := users.add(models.UserTypeClient)
	store.candidates = []models.ServiceRequest{reminderCandidate(ownerID, time.Hour, 24)}

	if _, err := svc.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if locker.acquired != 1 || locker.released != 1 {
		t.Errorf("lock acquired %d released %d, want 1/1", locker.acquired, locker.released)
	}
}

func TestSweepRecordsReminderActivity(t *testing.T) {
	store := &fakeReminderStore{}
	svc, users, _, activity := newReminderEnv(store, nil)
	ownerID := users.add(models.UserTypeClient)
	store.candidates = []models.ServiceRequest{reminderCandidate(ownerID, time.Hour, 24)}

	if _, err := svc.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(activity.entries) != 1 || activity.entries[0].Action != models.ActionReminderSent {
		t.Fatalf("activity = %+v, want one reminder_sent entry", activity.entries)
	}
	meta := activity.entries[0].Metadata
	if meta["userId"] != ownerID.Hex() {
		t.Errorf("metadata userId = %v, want %s", meta["userId"], ownerID.Hex())
	}
	if meta["startAt"] == nil || meta["notifyBeforeHours"] != 24 {
		t.Errorf("metadata = %+v, want startAt and notifyBeforeHours carried", meta)
	}
}
