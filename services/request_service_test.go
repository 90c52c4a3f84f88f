package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harisapp/haris_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ---- fakes ----

type fakeRequestStore struct {
	requests  map[primitive.ObjectID]*models.ServiceRequest
	insertErr error
	updateErr error
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[primitive.ObjectID]*models.ServiceRequest)}
}

func (s *fakeRequestStore) Insert(ctx context.Context, request *models.ServiceRequest) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if request.ID.IsZero() {
		request.ID = primitive.NewObjectID()
	}
	request.CreatedAt = time.Now()
	clone := *request
	s.requests[request.ID] = &clone
	return nil
}

func (s *fakeRequestStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *request
	return &clone, nil
}

func (s *fakeRequestStore) Update(ctx context.Context, request *models.ServiceRequest) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	clone := *request
	s.requests[request.ID] = &clone
	return nil
}

func (s *fakeRequestStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := s.requests[id]; !ok {
		return 0, nil
	}
	delete(s.requests, id)
	return 1, nil
}

func (s *fakeRequestStore) List(ctx context.Context, filter models.ServiceRequestFilter) ([]models.ServiceRequest, error) {
	var out []models.ServiceRequest
	for _, request := range s.requests {
		if filter.UserID != nil && request.UserID != *filter.UserID {
			continue
		}
		if filter.ArmamentLevel != "" && request.ArmamentLevel != filter.ArmamentLevel {
			continue
		}
		if filter.Draft != nil && request.IsDraft != *filter.Draft {
			continue
		}
		if len(filter.ServiceIDs) > 0 {
			found := false
			for _, id := range filter.ServiceIDs {
				if request.ServiceID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *request)
	}
	return out, nil
}

type fakeCatalog struct {
	services map[primitive.ObjectID]*models.Service
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{services: make(map[primitive.ObjectID]*models.Service)}
}

func (c *fakeCatalog) add(price *float64) primitive.ObjectID {
	id := primitive.NewObjectID()
	c.services[id] = &models.Service{
		ID:       id,
		Name:     "حراسة شخصية",
		NameEn:   "Bodyguard",
		Category: models.ServiceCategoryBodyguard,
		Price:    price,
		IsActive: true,
	}
	return id
}

func (c *fakeCatalog) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	service, ok := c.services[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return service, nil
}

func (c *fakeCatalog) FindIDsByName(ctx context.Context, name string) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id, service := range c.services {
		if service.NameEn == name || service.Name == name {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *fakeUserStore) add(userType string) primitive.ObjectID {
	id := primitive.NewObjectID()
	s.users[id] = &models.User{
		ID:       id,
		FullName: "Test User",
		Email:    id.Hex() + "@example.com",
		UserType: userType,
		IsActive: true,
	}
	return id
}

func (s *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

type fakeInvoiceCreator struct {
	calls []primitive.ObjectID
	err   error
}

func (f *fakeInvoiceCreator) CreateFromServiceRequest(ctx context.Context, request *models.ServiceRequest, actorID string) (*models.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, request.ID)
	return &models.Invoice{ID: primitive.NewObjectID(), ServiceRequestID: request.ID}, nil
}

type fakeActivityLogger struct {
	entries []models.ActivityLog
}

func (f *fakeActivityLogger) Log(ctx context.Context, entry models.ActivityLog) {
	f.entries = append(f.entries, entry)
}

func (f *fakeActivityLogger) actions() []string {
	var out []string
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeNotifier struct {
	submitted     int
	statusChanges []string
}

func (f *fakeNotifier) RequestSubmitted(request *models.ServiceRequest, owner *models.User) {
	f.submitted++
}

func (f *fakeNotifier) StatusChanged(request *models.ServiceRequest, owner *models.User, fromStatus, toStatus string) {
	f.statusChanges = append(f.statusChanges, fromStatus+"->"+toStatus)
}

type testEnv struct {
	svc      *RequestService
	store    *fakeRequestStore
	catalog  *fakeCatalog
	users    *fakeUserStore
	invoices *fakeInvoiceCreator
	activity *fakeActivityLogger
	notifier *fakeNotifier
}

func newTestEnv() *testEnv {
	store := newFakeRequestStore()
	catalog := newFakeCatalog()
	users := newFakeUserStore()
	invoices := &fakeInvoiceCreator{}
	activity := &fakeActivityLogger{}
	notifier := &fakeNotifier{}

	svc := NewRequestService(store, catalog, users, invoices, activity)
	svc.SetNotifier(notifier)

	return &testEnv{svc: svc, store: store, catalog: catalog, users: users, invoices: invoices, activity: activity, notifier: notifier}
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }
func boolPtr(b bool) *bool        { return &b }

// ---- Create ----

func TestCreateRequiresServiceIDAndTitle(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)
	actor := Actor{ID: clientID}

	_, err := env.svc.Create(context.Background(), actor, &models.CreateServiceRequestRequest{})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Fields) != 2 {
		t.Fatalf("expected both missing fields reported, got %v", validationErr.Fields)
	}
}

func TestCreateForcesPriorityAndStatusForClients(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(floatPtr(100))

	request, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Night guard",
		Priority:  models.PriorityUrgent,
		Status:    models.RequestStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if request.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", request.Priority)
	}
	if request.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want pending", request.Status)
	}
}

func TestCreateAdminOverrides(t *testing.T) {
	env := newTestEnv()
	adminID := env.users.add(models.UserTypeAdmin)
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(floatPtr(100))

	request, err := env.svc.Create(context.Background(), Actor{ID: adminID, IsAdmin: true}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Event security",
		UserID:    clientID.Hex(),
		Priority:  models.PriorityHigh,
		Status:    models.RequestStatusInProgress,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if request.UserID != clientID {
		t.Errorf("owner = %s, want the client the admin named", request.UserID.Hex())
	}
	if request.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want high", request.Priority)
	}
	if request.Status != models.RequestStatusInProgress {
		t.Errorf("status = %q, want in_progress", request.Status)
	}
}

func TestCreateCoercesNumericStrings(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	request, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID:      serviceID.Hex(),
		Title:          "CCTV install",
		PersonnelCount: "4",
		LocationLat:    "33.8938",
		LocationLng:    float64(35.5018),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if request.PersonnelCount == nil || *request.PersonnelCount != 4 {
		t.Errorf("personnelCount = %v, want 4", request.PersonnelCount)
	}
	if request.LocationLat == nil || *request.LocationLat != 33.8938 {
		t.Errorf("locationLat = %v, want 33.8938", request.LocationLat)
	}
	if request.LocationLng == nil || *request.LocationLng != 35.5018 {
		t.Errorf("locationLng = %v, want 35.5018", request.LocationLng)
	}
}

func TestCreateDropsUnparseableNumbersButRejectsBadDates(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	request, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID:      serviceID.Hex(),
		Title:          "Training",
		PersonnelCount: "a lot",
	})
	if err != nil {
		t.Fatalf("bad number should be dropped, got %v", err)
	}
	if request.PersonnelCount != nil {
		t.Errorf("personnelCount = %v, want nil", request.PersonnelCount)
	}

	_, err = env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Training",
		StartAt:   strPtr("not a date"),
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("bad date should be a hard error, got %v", err)
	}
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	_, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Patrol",
		StartAt:   strPtr("2026-09-10T08:00:00Z"),
		EndAt:     strPtr("2026-09-09T08:00:00Z"),
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateDraftSkipsSubmissionNotice(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	_, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Draft request",
		IsDraft:   true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if env.notifier.submitted != 0 {
		t.Errorf("draft creation must not notify admins")
	}
	if env.activity.entries[0].Action != models.ActionDraftCreated {
		t.Errorf("action = %q, want %q", env.activity.entries[0].Action, models.ActionDraftCreated)
	}

	_, err = env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Live request",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if env.notifier.submitted != 1 {
		t.Errorf("direct submission should notify admins once, got %d", env.notifier.submitted)
	}
}

func TestCreateUnknownServiceIsNotFound(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)

	_, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: primitive.NewObjectID().Hex(),
		Title:     "Ghost service",
	})
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

// ---- OwnerUpdate ----

func seedDraft(t *testing.T, env *testEnv, ownerID, serviceID primitive.ObjectID) primitive.ObjectID {
	t.Helper()
	request, err := env.svc.Create(context.Background(), Actor{ID: ownerID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Draft",
		IsDraft:   true,
	})
	if err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	return request.ID
}

func TestOwnerUpdateRejectsForeignRequest(t *testing.T) {
	env := newTestEnv()
	ownerID := env.users.add(models.UserTypeClient)
	otherID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)
	requestID := seedDraft(t, env, ownerID, serviceID)

	_, err := env.svc.OwnerUpdate(context.Background(), Actor{ID: otherID}, requestID, &models.UpdateServiceRequestRequest{
		Title: strPtr("hijacked"),
	})
	var forbiddenErr *ForbiddenError
	if !errors.As(err, &forbiddenErr) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestOwnerUpdateLocksSubmittedRequests(t *testing.T) {
	env := newTestEnv()
	ownerID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	request, err := env.svc.Create(context.Background(), Actor{ID: ownerID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Submitted",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = env.svc.OwnerUpdate(context.Background(), Actor{ID: ownerID}, request.ID, &models.UpdateServiceRequestRequest{
		Title: strPtr("too late"),
	})
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
}

func TestOwnerUpdateRejectsNonPendingStatus(t *testing.T) {
	env := newTestEnv()
	ownerID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)
	requestID := seedDraft(t, env, ownerID, serviceID)

	_, err := env.svc.OwnerUpdate(context.Background(), Actor{ID: ownerID}, requestID, &models.UpdateServiceRequestRequest{
		Status: strPtr(models.RequestStatusCompleted),
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Echoing pending is allowed
	if _, err := env.svc.OwnerUpdate(context.Background(), Actor{ID: ownerID}, requestID, &models.UpdateServiceRequestRequest{
		Status: strPtr(models.RequestStatusPending),
		Title:  strPtr("still a draft"),
	}); err != nil {
		t.Fatalf("pending echo should pass, got %v", err)
	}
}

func TestOwnerUpdateMergesAbsentFields(t *testing.T) {
	env := newTestEnv()
	ownerID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	created, err := env.svc.Create(context.Background(), Actor{ID: ownerID}, &models.CreateServiceRequestRequest{
		ServiceID:   serviceID.Hex(),
		Title:       "Original title",
		Description: "Original description",
		IsDraft:     true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := env.svc.OwnerUpdate(context.Background(), Actor{ID: ownerID}, created.ID, &models.UpdateServiceRequestRequest{
		Description: strPtr("New description"),
	})
	if err != nil {
		t.Fatalf("OwnerUpdate: %v", err)
	}
	if updated.Title != "Original title" {
		t.Errorf("title = %q, absent field must keep its value", updated.Title)
	}
	if updated.Description != "New description" {
		t.Errorf("description = %q, want merged value", updated.Description)
	}
}

func TestOwnerSubmissionFlipsDraftAndNotifies(t *testing.T) {
	env := newTestEnv()
	ownerID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)
	requestID := seedDraft(t, env, ownerID, serviceID)

	updated, err := env.svc.OwnerUpdate(context.Background(), Actor{ID: ownerID}, requestID, &models.UpdateServiceRequestRequest{
		IsDraft: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("OwnerUpdate: %v", err)
	}
	if updated.IsDraft {
		t.Error("isDraft should be false after submission")
	}
	if updated.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want pending", updated.Status)
	}
	if env.notifier.submitted != 1 {
		t.Errorf("submission should notify admins, got %d notices", env.notifier.submitted)
	}

	actions := env.activity.actions()
	if actions[len(actions)-1] != models.ActionRequestSubmitted {
		t.Errorf("last action = %q, want %q", actions[len(actions)-1], models.ActionRequestSubmitted)
	}
}

func TestOwnerUpdateReplacesAttachments(t *testing.T) {
	env := newTestEnv()
	ownerID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	created, err := env.svc.Create(context.Background(), Actor{ID: ownerID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "With files",
		IsDraft:   true,
		Attachments: []models.AttachmentInput{
			{URL: "/uploads/a.pdf", Name: "a.pdf"},
			{URL: "/uploads/b.pdf", Name: "b.pdf"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.Attachments) != 2 {
		t.Fatalf("attachments = %d, want 2", len(created.Attachments))
	}
	if created.Attachments[0].ID == "" {
		t.Error("attachment should get a generated id")
	}

	updated, err := env.svc.OwnerUpdate(context.Background(), Actor{ID: ownerID}, created.ID, &models.UpdateServiceRequestRequest{
		Attachments: &[]models.AttachmentInput{{URL: "/uploads/c.pdf", Name: "c.pdf"}},
	})
	if err != nil {
		t.Fatalf("OwnerUpdate: %v", err)
	}
	if len(updated.Attachments) != 1 || updated.Attachments[0].Name != "c.pdf" {
		t.Errorf("attachment replace should leave exactly the new set, got %+v", updated.Attachments)
	}
}

// ---- AdminUpdate ----

func TestAdminUpdateRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)

	_, err := env.svc.AdminUpdate(context.Background(), Actor{ID: clientID}, primitive.NewObjectID(), &models.UpdateServiceRequestRequest{})
	var forbiddenErr *ForbiddenError
	if !errors.As(err, &forbiddenErr) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestAdminCompletionCreatesInvoiceOnce(t *testing.T) {
	env := newTestEnv()
	adminID := env.users.add(models.UserTypeAdmin)
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(floatPtr(250))

	created, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Guarded event",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	admin := Actor{ID: adminID, IsAdmin: true}
	if _, err := env.svc.AdminUpdate(context.Background(), admin, created.ID, &models.UpdateServiceRequestRequest{
		Status: strPtr(models.RequestStatusCompleted),
	}); err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if len(env.invoices.calls) != 1 {
		t.Fatalf("invoice calls = %d, want 1", len(env.invoices.calls))
	}

	// A second save with the same status is not a transition
	if _, err := env.svc.AdminUpdate(context.Background(), admin, created.ID, &models.UpdateServiceRequestRequest{
		Status: strPtr(models.RequestStatusCompleted),
		Notes:  strPtr("closing notes"),
	}); err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if len(env.invoices.calls) != 1 {
		t.Errorf("repeated completion must not re-invoice, calls = %d", len(env.invoices.calls))
	}
}

func TestAdminCompletionSkipsUnpricedService(t *testing.T) {
	env := newTestEnv()
	adminID := env.users.add(models.UserTypeAdmin)
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	created, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Consulting engagement",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := env.svc.AdminUpdate(context.Background(), Actor{ID: adminID, IsAdmin: true}, created.ID, &models.UpdateServiceRequestRequest{
		Status: strPtr(models.RequestStatusCompleted),
	}); err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if len(env.invoices.calls) != 0 {
		t.Errorf("unpriced service must not be invoiced, calls = %d", len(env.invoices.calls))
	}
}

func TestAdminUpdateFailedInvoiceDoesNotFailStatusChange(t *testing.T) {
	env := newTestEnv()
	env.invoices.err = errors.New("counter unavailable")
	adminID := env.users.add(models.UserTypeAdmin)
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(floatPtr(90))

	created, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Cleaning job",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := env.svc.AdminUpdate(context.Background(), Actor{ID: adminID, IsAdmin: true}, created.ID, &models.UpdateServiceRequestRequest{
		Status: strPtr(models.RequestStatusCompleted),
	})
	if err != nil {
		t.Fatalf("invoice failure must not fail the update: %v", err)
	}
	if updated.Status != models.RequestStatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
}

func TestAdminStatusChangeLogsAndNotifies(t *testing.T) {
	env := newTestEnv()
	adminID := env.users.add(models.UserTypeAdmin)
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	created, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Patrol contract",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := env.svc.AdminUpdate(context.Background(), Actor{ID: adminID, IsAdmin: true}, created.ID, &models.UpdateServiceRequestRequest{
		Status: strPtr(models.RequestStatusInProgress),
	}); err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}

	if len(env.notifier.statusChanges) != 1 || env.notifier.statusChanges[0] != "pending->in_progress" {
		t.Errorf("status notice = %v, want [pending->in_progress]", env.notifier.statusChanges)
	}

	var found bool
	for _, entry := range env.activity.entries {
		if entry.Action == models.ActionStatusChanged && entry.FromStatus == models.RequestStatusPending && entry.ToStatus == models.RequestStatusInProgress {
			found = true
		}
	}
	if !found {
		t.Error("status transition should be recorded with from/to statuses")
	}
}

func TestAdminUpdateRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv()
	adminID := env.users.add(models.UserTypeAdmin)
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)

	created, err := env.svc.Create(context.Background(), Actor{ID: clientID}, &models.CreateServiceRequestRequest{
		ServiceID: serviceID.Hex(),
		Title:     "Request",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = env.svc.AdminUpdate(context.Background(), Actor{ID: adminID, IsAdmin: true}, created.ID, &models.UpdateServiceRequestRequest{
		Status: strPtr("archived"),
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// ---- Delete / Get / List ----

func TestDeleteIsAdminOnly(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)
	requestID := seedDraft(t, env, clientID, serviceID)

	err := env.svc.Delete(context.Background(), Actor{ID: clientID}, requestID)
	var forbiddenErr *ForbiddenError
	if !errors.As(err, &forbiddenErr) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}

	adminID := env.users.add(models.UserTypeAdmin)
	if err := env.svc.Delete(context.Background(), Actor{ID: adminID, IsAdmin: true}, requestID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	err = env.svc.Delete(context.Background(), Actor{ID: adminID, IsAdmin: true}, requestID)
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("second delete should report NotFound, got %v", err)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	env := newTestEnv()
	ownerID := env.users.add(models.UserTypeClient)
	otherID := env.users.add(models.UserTypeClient)
	adminID := env.users.add(models.UserTypeAdmin)
	serviceID := env.catalog.add(nil)
	requestID := seedDraft(t, env, ownerID, serviceID)

	if _, err := env.svc.Get(context.Background(), Actor{ID: ownerID}, requestID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := env.svc.Get(context.Background(), Actor{ID: adminID, IsAdmin: true}, requestID); err != nil {
		t.Fatalf("admin read: %v", err)
	}

	_, err := env.svc.Get(context.Background(), Actor{ID: otherID}, requestID)
	var forbiddenErr *ForbiddenError
	if !errors.As(err, &forbiddenErr) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestListScopesNonAdminsToThemselves(t *testing.T) {
	env := newTestEnv()
	aliceID := env.users.add(models.UserTypeClient)
	bobID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)
	seedDraft(t, env, aliceID, serviceID)
	seedDraft(t, env, bobID, serviceID)

	// Bob asks for Alice's requests; the filter is overridden
	requests, err := env.svc.List(context.Background(), Actor{ID: bobID}, ListOptions{UserID: &aliceID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, request := range requests {
		if request.UserID != bobID {
			t.Errorf("non-admin list leaked a foreign request owned by %s", request.UserID.Hex())
		}
	}

	adminID := env.users.add(models.UserTypeAdmin)
	adminView, err := env.svc.List(context.Background(), Actor{ID: adminID, IsAdmin: true}, ListOptions{UserID: &aliceID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(adminView) != 1 || adminView[0].UserID != aliceID {
		t.Errorf("admin filter by user returned %d rows", len(adminView))
	}
}

func TestListServiceTypeWithNoMatchesReturnsEmpty(t *testing.T) {
	env := newTestEnv()
	clientID := env.users.add(models.UserTypeClient)
	serviceID := env.catalog.add(nil)
	seedDraft(t, env, clientID, serviceID)

	requests, err := env.svc.List(context.Background(), Actor{ID: clientID}, ListOptions{ServiceType: "Falconry"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("unknown service type should match nothing, got %d rows", len(requests))
	}
}
