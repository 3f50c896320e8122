package applications

import (
	"context"
	"errors"
	"fmt"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/application"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/permission"
	"github.com/VenusCh001/Placement-support-system/internal/app/metrics"
	"github.com/VenusCh001/Placement-support-system/internal/app/services/notifications"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
	"github.com/VenusCh001/Placement-support-system/pkg/logger"
)

var (
	// ErrDuplicateApplication is returned when the student already applied
	// to the job.
	ErrDuplicateApplication = errors.New("already applied to this job")
	// ErrPlacedWithoutPermission is returned when a placed student applies
	// to a company without an approved permission request for it.
	ErrPlacedWithoutPermission = errors.New("placed students need approved permission for this company")
	// ErrNotOwner is returned when a company reads or updates applications
	// for a job it did not post.
	ErrNotOwner = errors.New("job belongs to another company")
	// ErrInvalidRequest is returned for malformed or incomplete input.
	ErrInvalidRequest = errors.New("invalid request")
)

// Service manages job applications and the placement gate.
type Service struct {
	store       storage.ApplicationStore
	jobs        storage.JobStore
	accounts    storage.AccountStore
	permissions storage.PermissionStore
	notifier    *notifications.Service
	log         *logger.Logger
}

// New constructs an application service.
func New(store storage.ApplicationStore, jobs storage.JobStore, accounts storage.AccountStore,
	permissions storage.PermissionStore, notifier *notifications.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("applications")
	}
	return &Service{store: store, jobs: jobs, accounts: accounts, permissions: permissions, notifier: notifier, log: log}
}

// Apply creates an application for the student. Closed jobs are invisible to
// students, so applying to one reports not found. A student who already holds
// a Selected application may only apply with an approved permission request
// for the job's company. The duplicate check is the insert itself; two
// concurrent applies to the same job cannot both succeed.
func (s *Service) Apply(ctx context.Context, studentID, jobID string) (application.Application, error) {
	j, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return application.Application{}, err
	}
	if !j.IsActive {
		return application.Application{}, fmt.Errorf("job %s: %w", jobID, storage.ErrNotFound)
	}

	placed, err := s.store.HasApplicationWithStatus(ctx, studentID, application.StatusSelected)
	if err != nil {
		return application.Application{}, err
	}
	if placed {
		allowed, err := s.permissions.HasRequestWithStatus(ctx, studentID, j.CompanyID, permission.StatusApproved)
		if err != nil {
			return application.Application{}, err
		}
		if !allowed {
			return application.Application{}, ErrPlacedWithoutPermission
		}
	}

	acct, err := s.accounts.GetAccount(ctx, studentID)
	if err != nil {
		return application.Application{}, err
	}
	resumeRef := ""
	if acct.Student != nil {
		resumeRef = acct.Student.ResumeRef
	}

	created, err := s.store.CreateApplication(ctx, application.Application{
		JobID:     jobID,
		StudentID: studentID,
		ResumeRef: resumeRef,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return application.Application{}, ErrDuplicateApplication
		}
		return application.Application{}, err
	}

	metrics.RecordApplication()
	s.notifier.Notify(ctx, studentID, "application",
		"Application submitted",
		fmt.Sprintf("You applied to %s", j.Title),
		map[string]string{"job_id": jobID})
	s.log.WithField("application_id", created.ID).
		WithField("student_id", studentID).
		WithField("job_id", jobID).
		Info("application created")
	return created, nil
}

// ListByStudent returns the student's applications.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]application.Application, error) {
	return s.store.ListApplicationsByStudent(ctx, studentID)
}

// ListByJob returns a job's applications to its owning company.
func (s *Service) ListByJob(ctx context.Context, companyID, jobID string) ([]application.Application, error) {
	j, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.CompanyID != companyID {
		return nil, ErrNotOwner
	}
	return s.store.ListApplicationsByJob(ctx, jobID)
}

// SetStatus lets the owning company move an application to Shortlisted,
// Selected, or Rejected. Selected marks the student as placed. The student is
// notified of the change.
func (s *Service) SetStatus(ctx context.Context, companyID, applicationID string, status application.Status) (application.Application, error) {
	if !status.Valid() {
		return application.Application{}, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return application.Application{}, err
	}
	j, err := s.jobs.GetJob(ctx, app.JobID)
	if err != nil {
		return application.Application{}, err
	}
	if j.CompanyID != companyID {
		return application.Application{}, ErrNotOwner
	}

	app.Status = status
	updated, err := s.store.UpdateApplication(ctx, app)
	if err != nil {
		return application.Application{}, err
	}

	s.notifier.Notify(ctx, app.StudentID, "application_status",
		"Application status updated",
		fmt.Sprintf("Your application for %s is now %s.", j.Title, status.Display()),
		map[string]string{"application_id": app.ID, "job_id": j.ID})
	s.log.WithField("application_id", app.ID).
		WithField("company_id", companyID).
		WithField("status", status.Display()).
		Info("application status updated")
	return updated, nil
}

// HasOffer reports whether the student holds a Selected application.
func (s *Service) HasOffer(ctx context.Context, studentID string) (bool, error) {
	return s.store.HasApplicationWithStatus(ctx, studentID, application.StatusSelected)
}
