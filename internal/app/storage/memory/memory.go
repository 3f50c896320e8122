package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/application"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/job"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/notification"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/permission"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/profileedit"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local
// development. Uniqueness rules are checked under the same lock that performs
// the insert, so they hold under concurrent callers just like the database
// constraints in the postgres store.
type Store struct {
	mu     sync.RWMutex
	nextID int64

	accounts        map[string]account.Account
	accountsByEmail map[string]string
	accountOrder    []string

	jobs     map[string]job.Job
	jobOrder []string
	closures []job.Closure

	applications     map[string]application.Application
	applicationPairs map[string]string
	applicationOrder []string

	permissions      map[string]permission.Request
	permissionOrder  []string
	pendingPairs     map[string]string
	editRequests     map[string]profileedit.Request
	editRequestOrder []string

	notifications map[string][]notification.Notification
}

var _ storage.AccountStore = (*Store)(nil)
var _ storage.JobStore = (*Store)(nil)
var _ storage.ApplicationStore = (*Store)(nil)
var _ storage.PermissionStore = (*Store)(nil)
var _ storage.EditRequestStore = (*Store)(nil)
var _ storage.NotificationStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:           1,
		accounts:         make(map[string]account.Account),
		accountsByEmail:  make(map[string]string),
		jobs:             make(map[string]job.Job),
		applications:     make(map[string]application.Application),
		applicationPairs: make(map[string]string),
		permissions:      make(map[string]permission.Request),
		pendingPairs:     make(map[string]string),
		editRequests:     make(map[string]profileedit.Request),
		notifications:    make(map[string][]notification.Notification),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

func pairKey(a, b string) string { return a + "|" + b }

// AccountStore implementation -------------------------------------------------

func (s *Store) CreateAccount(_ context.Context, acct account.Account) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emailKey := strings.ToLower(strings.TrimSpace(acct.Email))
	if _, exists := s.accountsByEmail[emailKey]; exists {
		return account.Account{}, fmt.Errorf("account %s: %w", acct.Email, storage.ErrConflict)
	}
	if acct.ID == "" {
		acct.ID = s.nextIDLocked()
	} else if _, exists := s.accounts[acct.ID]; exists {
		return account.Account{}, fmt.Errorf("account %s: %w", acct.ID, storage.ErrConflict)
	}

	now := time.Now().UTC()
	acct.CreatedAt = now
	acct.UpdatedAt = now

	s.accounts[acct.ID] = cloneAccount(acct)
	s.accountsByEmail[emailKey] = acct.ID
	s.accountOrder = append(s.accountOrder, acct.ID)
	return cloneAccount(acct), nil
}

func (s *Store) UpdateAccount(_ context.Context, acct account.Account) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.accounts[acct.ID]
	if !ok {
		return account.Account{}, fmt.Errorf("account %s: %w", acct.ID, storage.ErrNotFound)
	}

	acct.Email = original.Email
	acct.CreatedAt = original.CreatedAt
	acct.UpdatedAt = time.Now().UTC()

	s.accounts[acct.ID] = cloneAccount(acct)
	return cloneAccount(acct), nil
}

func (s *Store) GetAccount(_ context.Context, id string) (account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return account.Account{}, fmt.Errorf("account %s: %w", id, storage.ErrNotFound)
	}
	return cloneAccount(acct), nil
}

func (s *Store) GetAccountByEmail(_ context.Context, email string) (account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.accountsByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return account.Account{}, fmt.Errorf("account %s: %w", email, storage.ErrNotFound)
	}
	return cloneAccount(s.accounts[id]), nil
}

func (s *Store) ListAccounts(_ context.Context, role account.Role) ([]account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]account.Account, 0)
	for _, id := range s.accountOrder {
		acct := s.accounts[id]
		if role == "" || acct.Role == role {
			result = append(result, cloneAccount(acct))
		}
	}
	return result, nil
}

// JobStore implementation -----------------------------------------------------

func (s *Store) CreateJob(_ context.Context, j job.Job) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j.ID == "" {
		j.ID = s.nextIDLocked()
	} else if _, exists := s.jobs[j.ID]; exists {
		return job.Job{}, fmt.Errorf("job %s: %w", j.ID, storage.ErrConflict)
	}

	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	s.jobs[j.ID] = cloneJob(j)
	s.jobOrder = append(s.jobOrder, j.ID)
	return cloneJob(j), nil
}

func (s *Store) UpdateJob(_ context.Context, j job.Job) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.jobs[j.ID]
	if !ok {
		return job.Job{}, fmt.Errorf("job %s: %w", j.ID, storage.ErrNotFound)
	}

	j.CompanyID = original.CompanyID
	j.CreatedAt = original.CreatedAt
	j.UpdatedAt = time.Now().UTC()

	s.jobs[j.ID] = cloneJob(j)
	return cloneJob(j), nil
}

func (s *Store) GetJob(_ context.Context, id string) (job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return job.Job{}, fmt.Errorf("job %s: %w", id, storage.ErrNotFound)
	}
	return cloneJob(j), nil
}

func (s *Store) ListJobs(_ context.Context, companyID string, activeOnly bool) ([]job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]job.Job, 0)
	for _, id := range s.jobOrder {
		j := s.jobs[id]
		if companyID != "" && j.CompanyID != companyID {
			continue
		}
		if activeOnly && !j.IsActive {
			continue
		}
		result = append(result, cloneJob(j))
	}
	return result, nil
}

func (s *Store) CreateClosure(_ context.Context, c job.Closure) (job.Closure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.nextIDLocked()
	}
	c.CreatedAt = time.Now().UTC()

	s.closures = append(s.closures, c)
	return c, nil
}

func (s *Store) ListClosures(_ context.Context) ([]job.Closure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]job.Closure(nil), s.closures...), nil
}

// ApplicationStore implementation ---------------------------------------------

func (s *Store) CreateApplication(_ context.Context, app application.Application) (application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(app.StudentID, app.JobID)
	if _, exists := s.applicationPairs[key]; exists {
		return application.Application{}, fmt.Errorf("application for student %s job %s: %w", app.StudentID, app.JobID, storage.ErrConflict)
	}
	if app.ID == "" {
		app.ID = s.nextIDLocked()
	}

	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	s.applications[app.ID] = app
	s.applicationPairs[key] = app.ID
	s.applicationOrder = append(s.applicationOrder, app.ID)
	return app, nil
}

func (s *Store) UpdateApplication(_ context.Context, app application.Application) (application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.applications[app.ID]
	if !ok {
		return application.Application{}, fmt.Errorf("application %s: %w", app.ID, storage.ErrNotFound)
	}

	app.StudentID = original.StudentID
	app.JobID = original.JobID
	app.CreatedAt = original.CreatedAt
	app.UpdatedAt = time.Now().UTC()

	s.applications[app.ID] = app
	return app, nil
}

func (s *Store) GetApplication(_ context.Context, id string) (application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[id]
	if !ok {
		return application.Application{}, fmt.Errorf("application %s: %w", id, storage.ErrNotFound)
	}
	return app, nil
}

func (s *Store) ListApplicationsByStudent(_ context.Context, studentID string) ([]application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]application.Application, 0)
	for _, id := range s.applicationOrder {
		if app := s.applications[id]; app.StudentID == studentID {
			result = append(result, app)
		}
	}
	return result, nil
}

func (s *Store) ListApplicationsByJob(_ context.Context, jobID string) ([]application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]application.Application, 0)
	for _, id := range s.applicationOrder {
		if app := s.applications[id]; app.JobID == jobID {
			result = append(result, app)
		}
	}
	return result, nil
}

func (s *Store) CountApplicationsByJob(_ context.Context, jobID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, app := range s.applications {
		if app.JobID == jobID {
			count++
		}
	}
	return count, nil
}

func (s *Store) HasApplicationWithStatus(_ context.Context, studentID string, status application.Status) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.applications {
		if app.StudentID == studentID && app.Status == status {
			return true, nil
		}
	}
	return false, nil
}

// PermissionStore implementation ----------------------------------------------

func (s *Store) CreateRequest(_ context.Context, req permission.Request) (permission.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(req.StudentID, req.CompanyID)
	if _, exists := s.pendingPairs[key]; exists {
		return permission.Request{}, fmt.Errorf("pending request for student %s company %s: %w", req.StudentID, req.CompanyID, storage.ErrConflict)
	}
	if req.ID == "" {
		req.ID = s.nextIDLocked()
	}

	req.Status = permission.StatusPending
	req.RequestedAt = time.Now().UTC()

	s.permissions[req.ID] = req
	s.pendingPairs[key] = req.ID
	s.permissionOrder = append(s.permissionOrder, req.ID)
	return req, nil
}

func (s *Store) UpdateRequest(_ context.Context, req permission.Request) (permission.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.permissions[req.ID]
	if !ok {
		return permission.Request{}, fmt.Errorf("permission request %s: %w", req.ID, storage.ErrNotFound)
	}

	req.StudentID = original.StudentID
	req.CompanyID = original.CompanyID
	req.RequestedAt = original.RequestedAt

	s.permissions[req.ID] = req
	if req.Status != permission.StatusPending {
		delete(s.pendingPairs, pairKey(req.StudentID, req.CompanyID))
	}
	return req, nil
}

func (s *Store) GetRequest(_ context.Context, id string) (permission.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.permissions[id]
	if !ok {
		return permission.Request{}, fmt.Errorf("permission request %s: %w", id, storage.ErrNotFound)
	}
	return req, nil
}

func (s *Store) ListRequests(_ context.Context, studentID string) ([]permission.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]permission.Request, 0)
	for _, id := range s.permissionOrder {
		if req := s.permissions[id]; studentID == "" || req.StudentID == studentID {
			result = append(result, req)
		}
	}
	return result, nil
}

func (s *Store) HasRequestWithStatus(_ context.Context, studentID, companyID string, status permission.Status) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, req := range s.permissions {
		if req.StudentID == studentID && req.CompanyID == companyID && req.Status == status {
			return true, nil
		}
	}
	return false, nil
}

// EditRequestStore implementation ---------------------------------------------

func (s *Store) CreateEditRequest(_ context.Context, req profileedit.Request) (profileedit.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == "" {
		req.ID = s.nextIDLocked()
	}
	req.Status = profileedit.StatusPending
	req.CreatedAt = time.Now().UTC()

	s.editRequests[req.ID] = req
	s.editRequestOrder = append(s.editRequestOrder, req.ID)
	return req, nil
}

func (s *Store) UpdateEditRequest(_ context.Context, req profileedit.Request) (profileedit.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.editRequests[req.ID]
	if !ok {
		return profileedit.Request{}, fmt.Errorf("edit request %s: %w", req.ID, storage.ErrNotFound)
	}

	req.StudentID = original.StudentID
	req.CreatedAt = original.CreatedAt

	s.editRequests[req.ID] = req
	return req, nil
}

func (s *Store) GetEditRequest(_ context.Context, id string) (profileedit.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.editRequests[id]
	if !ok {
		return profileedit.Request{}, fmt.Errorf("edit request %s: %w", id, storage.ErrNotFound)
	}
	return req, nil
}

func (s *Store) ListEditRequests(_ context.Context, studentID string) ([]profileedit.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]profileedit.Request, 0)
	for _, id := range s.editRequestOrder {
		if req := s.editRequests[id]; studentID == "" || req.StudentID == studentID {
			result = append(result, req)
		}
	}
	return result, nil
}

// NotificationStore implementation --------------------------------------------

func (s *Store) CreateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = s.nextIDLocked()
	}
	n.CreatedAt = time.Now().UTC()
	n.Data = cloneMap(n.Data)

	s.notifications[n.AccountID] = append(s.notifications[n.AccountID], n)
	return n, nil
}

func (s *Store) ListNotifications(_ context.Context, accountID string, limit int) ([]notification.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.notifications[accountID]
	result := make([]notification.Notification, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		result = append(result, entries[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// Helpers ----------------------------------------------------------------------

func cloneMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneAccount(acct account.Account) account.Account {
	if acct.Student != nil {
		student := *acct.Student
		student.Skills = append([]string(nil), acct.Student.Skills...)
		acct.Student = &student
	}
	if acct.Company != nil {
		company := *acct.Company
		acct.Company = &company
	}
	return acct
}

func cloneJob(j job.Job) job.Job {
	j.EligibleBranches = append([]string(nil), j.EligibleBranches...)
	j.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	return j
}
