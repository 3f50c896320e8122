package storage

import (
	"context"
	"errors"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/application"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/job"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/notification"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/permission"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/profileedit"
)

// Sentinel errors shared by every store implementation so services can branch
// on outcomes without knowing the backend.
var (
	// ErrNotFound is returned when the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert violates a uniqueness rule:
	// duplicate email, duplicate (student, job) application, or a second
	// pending (student, company) permission request. Uniqueness is enforced
	// by the insert itself, never by a prior read.
	ErrConflict = errors.New("record already exists")
)

// AccountStore persists accounts and their embedded profiles.
type AccountStore interface {
	CreateAccount(ctx context.Context, acct account.Account) (account.Account, error)
	UpdateAccount(ctx context.Context, acct account.Account) (account.Account, error)
	GetAccount(ctx context.Context, id string) (account.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (account.Account, error)
	ListAccounts(ctx context.Context, role account.Role) ([]account.Account, error)
}

// JobStore persists job postings and closure audit records.
type JobStore interface {
	CreateJob(ctx context.Context, j job.Job) (job.Job, error)
	UpdateJob(ctx context.Context, j job.Job) (job.Job, error)
	GetJob(ctx context.Context, id string) (job.Job, error)
	// ListJobs returns jobs filtered by company (empty matches all) and,
	// when activeOnly is set, restricted to active postings. Order is the
	// store's insertion order; the listing sort on top of it must be stable.
	ListJobs(ctx context.Context, companyID string, activeOnly bool) ([]job.Job, error)

	CreateClosure(ctx context.Context, c job.Closure) (job.Closure, error)
	ListClosures(ctx context.Context) ([]job.Closure, error)
}

// ApplicationStore persists applications. CreateApplication must reject a
// duplicate (StudentID, JobID) pair with ErrConflict atomically.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app application.Application) (application.Application, error)
	UpdateApplication(ctx context.Context, app application.Application) (application.Application, error)
	GetApplication(ctx context.Context, id string) (application.Application, error)
	ListApplicationsByStudent(ctx context.Context, studentID string) ([]application.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]application.Application, error)
	CountApplicationsByJob(ctx context.Context, jobID string) (int, error)
	// HasApplicationWithStatus reports whether the student holds any
	// application in the given status (used for the placed check).
	HasApplicationWithStatus(ctx context.Context, studentID string, status application.Status) (bool, error)
}

// PermissionStore persists company permission requests. CreateRequest must
// reject a second Pending request for the same (StudentID, CompanyID) pair
// with ErrConflict atomically; decided requests never block a new one.
type PermissionStore interface {
	CreateRequest(ctx context.Context, req permission.Request) (permission.Request, error)
	UpdateRequest(ctx context.Context, req permission.Request) (permission.Request, error)
	GetRequest(ctx context.Context, id string) (permission.Request, error)
	ListRequests(ctx context.Context, studentID string) ([]permission.Request, error)
	HasRequestWithStatus(ctx context.Context, studentID, companyID string, status permission.Status) (bool, error)
}

// EditRequestStore persists profile edit requests.
type EditRequestStore interface {
	CreateEditRequest(ctx context.Context, req profileedit.Request) (profileedit.Request, error)
	UpdateEditRequest(ctx context.Context, req profileedit.Request) (profileedit.Request, error)
	GetEditRequest(ctx context.Context, id string) (profileedit.Request, error)
	ListEditRequests(ctx context.Context, studentID string) ([]profileedit.Request, error)
}

// NotificationStore persists the write-only notification log.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error)
	// ListNotifications returns the recipient's notifications newest first,
	// capped at limit when limit > 0.
	ListNotifications(ctx context.Context, accountID string, limit int) ([]notification.Notification, error)
}
