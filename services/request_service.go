// services/request_service.go
//
// RequestService owns the service-request lifecycle: draft creation,
// submission, admin review and the completion side effects. All authorization
// branching lives here so the controllers stay thin.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Actor identifies who is performing an operation. The admin/owner split is
// decided once at the HTTP boundary and carried through explicitly.
type Actor struct {
	ID      primitive.ObjectID
	IsAdmin bool
}

// RequestStore is the persistence port for service requests.
type RequestStore interface {
	Insert(ctx context.Context, request *models.ServiceRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error)
	Update(ctx context.Context, request *models.ServiceRequest) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	List(ctx context.Context, filter models.ServiceRequestFilter) ([]models.ServiceRequest, error)
}

// ServiceCatalog resolves catalog entries.
type ServiceCatalog interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	FindIDsByName(ctx context.Context, name string) ([]primitive.ObjectID, error)
}

// UserStore resolves request owners.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// InvoiceCreator is the invoicing side effect triggered by completion.
type InvoiceCreator interface {
	CreateFromServiceRequest(ctx context.Context, request *models.ServiceRequest, actorID string) (*models.Invoice, error)
}

// ActivityLogger is a fire-and-forget event sink; implementations must not
// surface failures.
type ActivityLogger interface {
	Log(ctx context.Context, entry models.ActivityLog)
}

// Notifier delivers best-effort notifications (in-app, email, websocket).
type Notifier interface {
	RequestSubmitted(request *models.ServiceRequest, owner *models.User)
	StatusChanged(request *models.ServiceRequest, owner *models.User, fromStatus, toStatus string)
}

// ListOptions narrows List results. UserID is only honored for admins.
type ListOptions struct {
	UserID        *primitive.ObjectID
	ArmamentLevel string
	ServiceType   string
	Draft         *bool
	From          *time.Time
	To            *time.Time
	Extended      bool
	Limit         int64
}

// RequestService implements the service-request state machine.
type RequestService struct {
	requests RequestStore
	catalog  ServiceCatalog
	users    UserStore
	invoices InvoiceCreator
	activity ActivityLogger
	notifier Notifier
}

func NewRequestService(requests RequestStore, catalog ServiceCatalog, users UserStore, invoices InvoiceCreator, activity ActivityLogger) *RequestService {
	return &RequestService{
		requests: requests,
		catalog:  catalog,
		users:    users,
		invoices: invoices,
		activity: activity,
	}
}

// SetNotifier wires the optional notification side channel
func (s *RequestService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create persists a new request. Admins may create on behalf of another user
// and override priority/status; everyone else gets medium/pending regardless
// of input.
func (s *RequestService) Create(ctx context.Context, actor Actor, payload *models.CreateServiceRequestRequest) (*models.ServiceRequest, error) {
	var missing []string
	if payload.ServiceID == "" {
		missing = append(missing, "serviceId")
	}
	if payload.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return nil, NewValidationError("missing required fields", missing...)
	}

	serviceID, err := primitive.ObjectIDFromHex(payload.ServiceID)
	if err != nil {
		return nil, NewValidationError("invalid serviceId", "serviceId")
	}

	service, err := s.catalog.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Resource: "service"}
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	ownerID := actor.ID
	if actor.IsAdmin && payload.UserID != "" {
		ownerID, err = primitive.ObjectIDFromHex(payload.UserID)
		if err != nil {
			return nil, NewValidationError("invalid userId", "userId")
		}
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	startAt, err := parseDateField("startAt", payload.StartAt)
	if err != nil {
		return nil, err
	}
	endAt, err := parseDateField("endAt", payload.EndAt)
	if err != nil {
		return nil, err
	}
	if err := validateWindow(startAt, endAt); err != nil {
		return nil, err
	}

	personnelCount, err := coercePersonnelCount(payload.PersonnelCount)
	if err != nil {
		return nil, err
	}
	if err := validateEnums(payload.DurationUnit, payload.ArmamentLevel); err != nil {
		return nil, err
	}

	// Non-admins cannot pick their own priority or status
	priority := models.PriorityMedium
	status := models.RequestStatusPending
	if actor.IsAdmin {
		if payload.Priority != "" {
			if !models.ValidPriority(payload.Priority) {
				return nil, NewValidationError("invalid priority", "priority")
			}
			priority = payload.Priority
		}
		if payload.Status != "" {
			if !models.ValidStatus(payload.Status) {
				return nil, NewValidationError("invalid status", "status")
			}
			status = payload.Status
		}
	}

	request := &models.ServiceRequest{
		UserID:            ownerID,
		ServiceID:         serviceID,
		Title:             utils.SanitizeInput(payload.Title),
		Description:       utils.SanitizeInput(payload.Description),
		Status:            status,
		Priority:          priority,
		IsDraft:           payload.IsDraft,
		StartAt:           startAt,
		EndAt:             endAt,
		PersonnelCount:    personnelCount,
		DurationUnit:      payload.DurationUnit,
		LocationText:      utils.SanitizeInput(payload.LocationText),
		LocationLat:       utils.CoerceFloat(payload.LocationLat),
		LocationLng:       utils.CoerceFloat(payload.LocationLng),
		ArmamentLevel:     payload.ArmamentLevel,
		Notes:             utils.SanitizeInput(payload.Notes),
		NotifyBeforeHours: notifyHoursOrDefault(payload.NotifyBeforeHours),
		Attachments:       buildAttachments(payload.Attachments),
	}

	if err := s.requests.Insert(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create service request: %w", err)
	}

	action := models.ActionRequestSubmitted
	if request.IsDraft {
		action = models.ActionDraftCreated
	}
	s.activity.Log(ctx, models.ActivityLog{
		EntityType: "service_request",
		EntityID:   request.ID.Hex(),
		Action:     action,
		ToStatus:   request.Status,
		ActorID:    actor.ID.Hex(),
	})
	if len(request.Attachments) > 0 {
		s.logAttachmentsAdded(ctx, request, actor)
	}

	if !request.IsDraft && s.notifier != nil {
		s.notifier.RequestSubmitted(request, owner)
	}

	request.Service = service
	request.Owner = owner
	return request, nil
}

// OwnerUpdate applies a client's edit to their own draft. Submitted requests
// are locked against their owner, and owners cannot pick a status other than
// pending.
func (s *RequestService) OwnerUpdate(ctx context.Context, actor Actor, id primitive.ObjectID, payload *models.UpdateServiceRequestRequest) (*models.ServiceRequest, error) {
	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.UserID != actor.ID {
		return nil, &ForbiddenError{Message: "you do not own this service request"}
	}
	if !request.IsDraft {
		return nil, &InvalidStateError{Message: "submitted requests can no longer be edited"}
	}
	if payload.Status != nil && *payload.Status != models.RequestStatusPending {
		return nil, NewValidationError("clients may not set a request status", "status")
	}

	changed, err := s.applyCommonFields(request, payload)
	if err != nil {
		return nil, err
	}

	// Submission: flipping isDraft to false moves the request to pending
	submitted := false
	if payload.IsDraft != nil && !*payload.IsDraft {
		request.IsDraft = false
		request.Status = models.RequestStatusPending
		submitted = true
	}

	attachmentsReplaced := s.replaceAttachments(request, payload)

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update service request: %w", err)
	}

	if submitted {
		s.activity.Log(ctx, models.ActivityLog{
			EntityType: "service_request",
			EntityID:   request.ID.Hex(),
			Action:     models.ActionRequestSubmitted,
			ToStatus:   request.Status,
			ActorID:    actor.ID.Hex(),
		})
		if s.notifier != nil {
			if owner, err := s.users.FindByID(ctx, request.UserID); err == nil {
				s.notifier.RequestSubmitted(request, owner)
			}
		}
	} else {
		s.activity.Log(ctx, models.ActivityLog{
			EntityType: "service_request",
			EntityID:   request.ID.Hex(),
			Action:     models.ActionRequestUpdated,
			ActorID:    actor.ID.Hex(),
			Metadata:   map[string]interface{}{"changedFields": changed},
		})
	}
	if attachmentsReplaced {
		s.logAttachmentsAdded(ctx, request, actor)
	}

	return s.resolve(ctx, request), nil
}

// AdminUpdate applies an administrator's edit: any field, any status. Moving
// a request to completed triggers the one-time invoicing side effect when the
// service carries a price.
func (s *RequestService) AdminUpdate(ctx context.Context, actor Actor, id primitive.ObjectID, payload *models.UpdateServiceRequestRequest) (*models.ServiceRequest, error) {
	if !actor.IsAdmin {
		return nil, &ForbiddenError{Message: "admin access required"}
	}

	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	prevStatus := request.Status

	if payload.Status != nil {
		if !models.ValidStatus(*payload.Status) {
			return nil, NewValidationError("invalid status", "status")
		}
		request.Status = *payload.Status
	}
	if payload.Priority != nil {
		if !models.ValidPriority(*payload.Priority) {
			return nil, NewValidationError("invalid priority", "priority")
		}
		request.Priority = *payload.Priority
	}
	if payload.IsDraft != nil {
		request.IsDraft = *payload.IsDraft
	}

	if _, err := s.applyCommonFields(request, payload); err != nil {
		return nil, err
	}
	attachmentsReplaced := s.replaceAttachments(request, payload)

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update service request: %w", err)
	}

	statusChanged := request.Status != prevStatus
	if statusChanged {
		s.activity.Log(ctx, models.ActivityLog{
			EntityType: "service_request",
			EntityID:   request.ID.Hex(),
			Action:     models.ActionStatusChanged,
			FromStatus: prevStatus,
			ToStatus:   request.Status,
			ActorID:    actor.ID.Hex(),
		})
	} else {
		s.activity.Log(ctx, models.ActivityLog{
			EntityType: "service_request",
			EntityID:   request.ID.Hex(),
			Action:     models.ActionRequestUpdated,
			ActorID:    actor.ID.Hex(),
		})
	}
	if attachmentsReplaced {
		s.logAttachmentsAdded(ctx, request, actor)
	}

	// Completion side effects are best effort: a failed invoice or
	// notification never fails the update itself
	if statusChanged {
		owner, err := s.users.FindByID(ctx, request.UserID)
		if err != nil {
			owner = nil
		}
		if s.notifier != nil && owner != nil {
			s.notifier.StatusChanged(request, owner, prevStatus, request.Status)
		}
		if request.Status == models.RequestStatusCompleted && prevStatus != models.RequestStatusCompleted {
			s.createInvoiceForCompleted(ctx, request, actor)
		}
	}

	return s.resolve(ctx, request), nil
}

// Delete permanently removes a request. Admin only.
func (s *RequestService) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	if !actor.IsAdmin {
		return &ForbiddenError{Message: "admin access required"}
	}

	deleted, err := s.requests.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete service request: %w", err)
	}
	if deleted == 0 {
		return &NotFoundError{Resource: "service request"}
	}

	s.activity.Log(ctx, models.ActivityLog{
		EntityType: "service_request",
		EntityID:   id.Hex(),
		Action:     models.ActionAdminAction,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"operation": "delete"},
	})
	return nil
}

// Get returns one request with resolved relations. Non-admins may only read
// their own.
func (s *RequestService) Get(ctx context.Context, actor Actor, id primitive.ObjectID) (*models.ServiceRequest, error) {
	request, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && request.UserID != actor.ID {
		return nil, &ForbiddenError{Message: "you do not own this service request"}
	}
	return s.resolve(ctx, request), nil
}

// List returns requests newest first. Non-admin callers are always scoped to
// their own id, whatever filter they sent.
func (s *RequestService) List(ctx context.Context, actor Actor, opts ListOptions) ([]models.ServiceRequest, error) {
	filter := models.ServiceRequestFilter{
		ArmamentLevel: opts.ArmamentLevel,
		Draft:         opts.Draft,
		From:          opts.From,
		To:            opts.To,
		Limit:         opts.Limit,
	}

	if actor.IsAdmin {
		filter.UserID = opts.UserID
	} else {
		ownID := actor.ID
		filter.UserID = &ownID
	}

	if opts.ServiceType != "" {
		ids, err := s.catalog.FindIDsByName(ctx, opts.ServiceType)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve service type: %w", err)
		}
		if len(ids) == 0 {
			return []models.ServiceRequest{}, nil
		}
		filter.ServiceIDs = ids
	}

	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}

	if opts.Extended {
		s.resolveAll(ctx, requests)
	}
	return requests, nil
}

func (s *RequestService) load(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Resource: "service request"}
		}
		return nil, fmt.Errorf("failed to load service request: %w", err)
	}
	return request, nil
}

// applyCommonFields merge-updates the fields both roles may edit: a field
// absent from the payload keeps its stored value. Returns the changed field
// names for the activity log.
func (s *RequestService) applyCommonFields(request *models.ServiceRequest, payload *models.UpdateServiceRequestRequest) ([]string, error) {
	var changed []string

	if payload.Title != nil {
		request.Title = utils.SanitizeInput(*payload.Title)
		changed = append(changed, "title")
	}
	if payload.Description != nil {
		request.Description = utils.SanitizeInput(*payload.Description)
		changed = append(changed, "description")
	}
	if payload.StartAt != nil {
		startAt, err := parseDateField("startAt", payload.StartAt)
		if err != nil {
			return nil, err
		}
		request.StartAt = startAt
		changed = append(changed, "startAt")
	}
	if payload.EndAt != nil {
		endAt, err := parseDateField("endAt", payload.EndAt)
		if err != nil {
			return nil, err
		}
		request.EndAt = endAt
		changed = append(changed, "endAt")
	}
	if err := validateWindow(request.StartAt, request.EndAt); err != nil {
		return nil, err
	}

	if payload.PersonnelCount != nil {
		count, err := coercePersonnelCount(payload.PersonnelCount)
		if err != nil {
			return nil, err
		}
		if count != nil {
			request.PersonnelCount = count
			changed = append(changed, "personnelCount")
		}
	}
	if payload.DurationUnit != nil {
		if !models.ValidDurationUnit(*payload.DurationUnit) {
			return nil, NewValidationError("invalid durationUnit", "durationUnit")
		}
		request.DurationUnit = *payload.DurationUnit
		changed = append(changed, "durationUnit")
	}
	if payload.LocationText != nil {
		request.LocationText = utils.SanitizeInput(*payload.LocationText)
		changed = append(changed, "locationText")
	}
	if lat := utils.CoerceFloat(payload.LocationLat); lat != nil {
		request.LocationLat = lat
		changed = append(changed, "locationLat")
	}
	if lng := utils.CoerceFloat(payload.LocationLng); lng != nil {
		request.LocationLng = lng
		changed = append(changed, "locationLng")
	}
	if payload.ArmamentLevel != nil {
		if !models.ValidArmamentLevel(*payload.ArmamentLevel) {
			return nil, NewValidationError("invalid armamentLevel", "armamentLevel")
		}
		request.ArmamentLevel = *payload.ArmamentLevel
		changed = append(changed, "armamentLevel")
	}
	if payload.Notes != nil {
		request.Notes = utils.SanitizeInput(*payload.Notes)
		changed = append(changed, "notes")
	}
	if payload.NotifyBeforeHours != nil {
		if hours := utils.CoerceInt(payload.NotifyBeforeHours); hours != nil && *hours > 0 {
			request.NotifyBeforeHours = *hours
			changed = append(changed, "notifyBeforeHours")
		}
	}

	return changed, nil
}

// replaceAttachments swaps the whole attachment list when one was supplied.
// It is a replace, not a merge: the stored set afterwards is exactly the
// payload's set.
func (s *RequestService) replaceAttachments(request *models.ServiceRequest, payload *models.UpdateServiceRequestRequest) bool {
	if payload.Attachments == nil {
		return false
	}
	request.Attachments = buildAttachments(*payload.Attachments)
	return true
}

func (s *RequestService) logAttachmentsAdded(ctx context.Context, request *models.ServiceRequest, actor Actor) {
	s.activity.Log(ctx, models.ActivityLog{
		EntityType: "service_request",
		EntityID:   request.ID.Hex(),
		Action:     models.ActionAttachmentAdded,
		ActorID:    actor.ID.Hex(),
		Metadata:   map[string]interface{}{"count": len(request.Attachments)},
	})
}

func (s *RequestService) createInvoiceForCompleted(ctx context.Context, request *models.ServiceRequest, actor Actor) {
	service, err := s.catalog.FindByID(ctx, request.ServiceID)
	if err != nil {
		log.Printf("invoice side effect: failed to load service %s: %v", request.ServiceID.Hex(), err)
		return
	}
	if service.Price == nil {
		return
	}
	if _, err := s.invoices.CreateFromServiceRequest(ctx, request, actor.ID.Hex()); err != nil {
		log.Printf("invoice side effect failed for request %s: %v", request.ID.Hex(), err)
	}
}

func (s *RequestService) resolve(ctx context.Context, request *models.ServiceRequest) *models.ServiceRequest {
	if service, err := s.catalog.FindByID(ctx, request.ServiceID); err == nil {
		request.Service = service
	}
	if owner, err := s.users.FindByID(ctx, request.UserID); err == nil {
		request.Owner = owner
	}
	return request
}

func (s *RequestService) resolveAll(ctx context.Context, requests []models.ServiceRequest) {
	serviceCache := make(map[primitive.ObjectID]*models.Service)
	ownerCache := make(map[primitive.ObjectID]*models.User)
	for i := range requests {
		r := &requests[i]
		if cached, ok := serviceCache[r.ServiceID]; ok {
			r.Service = cached
		} else if service, err := s.catalog.FindByID(ctx, r.ServiceID); err == nil {
			serviceCache[r.ServiceID] = service
			r.Service = service
		}
		if cached, ok := ownerCache[r.UserID]; ok {
			r.Owner = cached
		} else if owner, err := s.users.FindByID(ctx, r.UserID); err == nil {
			ownerCache[r.UserID] = owner
			r.Owner = owner
		}
	}
}

func parseDateField(name string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, ok := utils.ParseFlexibleTime(*value)
	if !ok {
		return nil, NewValidationError("Invalid "+name, name)
	}
	return &t, nil
}

func validateWindow(startAt, endAt *time.Time) error {
	if startAt != nil && endAt != nil && !endAt.After(*startAt) {
		return NewValidationError("endAt must be after startAt", "endAt")
	}
	return nil
}

func validateEnums(durationUnit, armamentLevel string) error {
	if durationUnit != "" && !models.ValidDurationUnit(durationUnit) {
		return NewValidationError("invalid durationUnit", "durationUnit")
	}
	if armamentLevel != "" && !models.ValidArmamentLevel(armamentLevel) {
		return NewValidationError("invalid armamentLevel", "armamentLevel")
	}
	return nil
}

func coercePersonnelCount(value interface{}) (*int, error) {
	count := utils.CoerceInt(value)
	if count != nil && *count < 0 {
		return nil, NewValidationError("personnelCount must be non-negative", "personnelCount")
	}
	return count, nil
}

func notifyHoursOrDefault(value interface{}) int {
	if hours := utils.CoerceInt(value); hours != nil && *hours > 0 {
		return *hours
	}
	return models.DefaultNotifyBeforeHours
}

func buildAttachments(inputs []models.AttachmentInput) []models.Attachment {
	if len(inputs) == 0 {
		return nil
	}
	attachments := make([]models.Attachment, 0, len(inputs))
	for _, in := range inputs {
		if in.URL == "" {
			continue
		}
		attachments = append(attachments, models.Attachment{
			ID:       uuid.New().String(),
			URL:      in.URL,
			Name:     utils.SanitizeInput(in.Name),
			MimeType: in.MimeType,
		})
	}
	return attachments
}
