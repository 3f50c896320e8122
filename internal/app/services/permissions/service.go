package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/permission"
	"github.com/VenusCh001/Placement-support-system/internal/app/services/notifications"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
	"github.com/VenusCh001/Placement-support-system/pkg/logger"
)

var (
	// ErrInvalidRequest is returned for malformed or incomplete input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDuplicatePendingRequest is returned when the student already has a
	// pending request for the same company.
	ErrDuplicatePendingRequest = errors.New("a pending request for this company already exists")
	// ErrRequestDecided is returned when resolving a request that has
	// already been approved or rejected. Decisions are terminal.
	ErrRequestDecided = errors.New("request already decided")
)

// Service manages company permission requests for placed students.
type Service struct {
	store    storage.PermissionStore
	accounts storage.AccountStore
	notifier *notifications.Service
	log      *logger.Logger
}

// New constructs a permission service.
func New(store storage.PermissionStore, accounts storage.AccountStore, notifier *notifications.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("permissions")
	}
	return &Service{store: store, accounts: accounts, notifier: notifier, log: log}
}

// Request creates a pending permission request and notifies every admin.
// One pending request per (student, company) pair; rejected pairs may
// re-request, which keeps the rejected record alongside the new pending one.
func (s *Service) Request(ctx context.Context, studentID, companyID, reason string) (permission.Request, error) {
	companyID = strings.TrimSpace(companyID)
	reason = strings.TrimSpace(reason)
	if companyID == "" {
		return permission.Request{}, fmt.Errorf("%w: company_id is required", ErrInvalidRequest)
	}
	if reason == "" {
		return permission.Request{}, fmt.Errorf("%w: reason is required", ErrInvalidRequest)
	}

	company, err := s.accounts.GetAccount(ctx, companyID)
	if err != nil {
		return permission.Request{}, err
	}
	if company.Role != account.RoleCompany || company.Company == nil {
		return permission.Request{}, fmt.Errorf("%w: account %s is not a company", ErrInvalidRequest, companyID)
	}

	created, err := s.store.CreateRequest(ctx, permission.Request{
		StudentID: studentID,
		CompanyID: companyID,
		Reason:    reason,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return permission.Request{}, ErrDuplicatePendingRequest
		}
		return permission.Request{}, err
	}

	studentName := studentID
	if student, err := s.accounts.GetAccount(ctx, studentID); err == nil && student.Student != nil {
		studentName = student.Student.Name
	}
	s.notifier.NotifyAdmins(ctx, "permission_request",
		"Company permission request",
		fmt.Sprintf("%s requested permission to apply to %s.", studentName, company.Company.Name),
		map[string]string{"request_id": created.ID, "student_id": studentID, "company_id": companyID})
	s.log.WithField("request_id", created.ID).
		WithField("student_id", studentID).
		WithField("company_id", companyID).
		Info("permission request created")
	return created, nil
}

// List returns permission requests; an empty studentID matches all.
func (s *Service) List(ctx context.Context, studentID string) ([]permission.Request, error) {
	return s.store.ListRequests(ctx, studentID)
}

// Resolve approves or rejects a pending request. The decision is terminal:
// it stamps the response time and admin note, and notifies the student. An
// approval covers every job of that company from then on.
func (s *Service) Resolve(ctx context.Context, requestID, adminID string, approve bool, note string) (permission.Request, error) {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return permission.Request{}, err
	}
	if req.Status != permission.StatusPending {
		return permission.Request{}, ErrRequestDecided
	}

	now := time.Now().UTC()
	if approve {
		req.Status = permission.StatusApproved
	} else {
		req.Status = permission.StatusRejected
	}
	req.AdminNote = note
	req.RespondedAt = &now

	updated, err := s.store.UpdateRequest(ctx, req)
	if err != nil {
		return permission.Request{}, err
	}

	outcome := "rejected"
	if approve {
		outcome = "approved"
	}
	s.notifier.Notify(ctx, req.StudentID, "permission_decision",
		"Permission request "+outcome,
		fmt.Sprintf("Your permission request was %s.", outcome),
		map[string]string{"request_id": req.ID, "company_id": req.CompanyID})
	s.log.WithField("request_id", req.ID).
		WithField("admin_id", adminID).
		WithField("approved", approve).
		Info("permission request resolved")
	return updated, nil
}
