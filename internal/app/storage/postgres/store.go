package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/application"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/job"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/notification"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/permission"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/profileedit"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL. The
// uniqueness rules (account email, one application per student and job, one
// pending permission request per student and company) live in database
// constraints; unique violations surface as storage.ErrConflict.
type Store struct {
	db *sql.DB
}

var _ storage.AccountStore = (*Store)(nil)
var _ storage.JobStore = (*Store)(nil)
var _ storage.ApplicationStore = (*Store)(nil)
var _ storage.PermissionStore = (*Store)(nil)
var _ storage.EditRequestStore = (*Store)(nil)
var _ storage.NotificationStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const uniqueViolation = "23505"

func mapError(err error, label string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", label, storage.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", label, storage.ErrConflict)
	}
	return err
}

// --- AccountStore -----------------------------------------------------------

func (s *Store) CreateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	acct.CreatedAt = now
	acct.UpdatedAt = now

	studentJSON, companyJSON, err := marshalProfiles(acct)
	if err != nil {
		return account.Account{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, role, student_profile, company_profile, created_at, updated_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8)
	`, acct.ID, acct.Email, acct.PasswordHash, acct.Role, studentJSON, companyJSON, acct.CreatedAt, acct.UpdatedAt)
	if err != nil {
		return account.Account{}, mapError(err, "account "+acct.Email)
	}
	return acct, nil
}

func (s *Store) UpdateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	existing, err := s.GetAccount(ctx, acct.ID)
	if err != nil {
		return account.Account{}, err
	}

	acct.Email = existing.Email
	acct.CreatedAt = existing.CreatedAt
	acct.UpdatedAt = time.Now().UTC()

	studentJSON, companyJSON, err := marshalProfiles(acct)
	if err != nil {
		return account.Account{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET password_hash = $2, student_profile = $3, company_profile = $4, updated_at = $5
		WHERE id = $1
	`, acct.ID, acct.PasswordHash, studentJSON, companyJSON, acct.UpdatedAt)
	if err != nil {
		return account.Account{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return account.Account{}, fmt.Errorf("account %s: %w", acct.ID, storage.ErrNotFound)
	}
	return acct, nil
}

const accountColumns = `id, email, password_hash, role, student_profile, company_profile, created_at, updated_at`

func (s *Store) GetAccount(ctx context.Context, id string) (account.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)
	acct, err := scanAccount(row)
	return acct, mapError(err, "account "+id)
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE email = lower($1)
	`, email)
	acct, err := scanAccount(row)
	return acct, mapError(err, "account "+email)
}

func (s *Store) ListAccounts(ctx context.Context, role account.Role) ([]account.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE $1 = '' OR role = $1
		ORDER BY created_at
	`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]account.Account, 0)
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, acct)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (account.Account, error) {
	var (
		acct       account.Account
		studentRaw []byte
		companyRaw []byte
	)
	if err := row.Scan(&acct.ID, &acct.Email, &acct.PasswordHash, &acct.Role, &studentRaw, &companyRaw, &acct.CreatedAt, &acct.UpdatedAt); err != nil {
		return account.Account{}, err
	}
	if len(studentRaw) > 0 {
		acct.Student = &account.StudentProfile{}
		if err := json.Unmarshal(studentRaw, acct.Student); err != nil {
			return account.Account{}, err
		}
	}
	if len(companyRaw) > 0 {
		acct.Company = &account.CompanyProfile{}
		if err := json.Unmarshal(companyRaw, acct.Company); err != nil {
			return account.Account{}, err
		}
	}
	return acct, nil
}

func marshalProfiles(acct account.Account) ([]byte, []byte, error) {
	var studentJSON, companyJSON []byte
	var err error
	if acct.Student != nil {
		if studentJSON, err = json.Marshal(acct.Student); err != nil {
			return nil, nil, err
		}
	}
	if acct.Company != nil {
		if companyJSON, err = json.Marshal(acct.Company); err != nil {
			return nil, nil, err
		}
	}
	return studentJSON, companyJSON, nil
}

// --- JobStore ---------------------------------------------------------------

func (s *Store) CreateJob(ctx context.Context, j job.Job) (job.Job, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, company_id, title, description, compensation, location, cgpa_cutoff,
			eligible_branches, required_skills, is_active, recruitment_status, closure_reason,
			hired_count, closed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, j.ID, j.CompanyID, j.Title, j.Description, j.Compensation, j.Location, j.CGPACutoff,
		pq.Array(j.EligibleBranches), pq.Array(j.RequiredSkills), j.IsActive, j.Status,
		j.ClosureReason, j.HiredCount, j.ClosedAt, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return job.Job{}, mapError(err, "job "+j.Title)
	}
	return j, nil
}

func (s *Store) UpdateJob(ctx context.Context, j job.Job) (job.Job, error) {
	j.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs
		SET title = $2, description = $3, compensation = $4, location = $5, cgpa_cutoff = $6,
			eligible_branches = $7, required_skills = $8, is_active = $9, recruitment_status = $10,
			closure_reason = $11, hired_count = $12, closed_at = $13, updated_at = $14
		WHERE id = $1
	`, j.ID, j.Title, j.Description, j.Compensation, j.Location, j.CGPACutoff,
		pq.Array(j.EligibleBranches), pq.Array(j.RequiredSkills), j.IsActive, j.Status,
		j.ClosureReason, j.HiredCount, j.ClosedAt, j.UpdatedAt)
	if err != nil {
		return job.Job{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return job.Job{}, fmt.Errorf("job %s: %w", j.ID, storage.ErrNotFound)
	}
	return j, nil
}

const jobColumns = `id, company_id, title, description, compensation, location, cgpa_cutoff,
	eligible_branches, required_skills, is_active, recruitment_status, closure_reason,
	hired_count, closed_at, created_at, updated_at`

func (s *Store) GetJob(ctx context.Context, id string) (job.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE id = $1
	`, id)
	j, err := scanJob(row)
	return j, mapError(err, "job "+id)
}

func (s *Store) ListJobs(ctx context.Context, companyID string, activeOnly bool) ([]job.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE ($1 = '' OR company_id = $1) AND (NOT $2 OR is_active)
		ORDER BY created_at
	`, companyID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, j)
	}
	return result, rows.Err()
}

func scanJob(row rowScanner) (job.Job, error) {
	var j job.Job
	if err := row.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Compensation, &j.Location,
		&j.CGPACutoff, pq.Array(&j.EligibleBranches), pq.Array(&j.RequiredSkills), &j.IsActive,
		&j.Status, &j.ClosureReason, &j.HiredCount, &j.ClosedAt, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (s *Store) CreateClosure(ctx context.Context, c job.Closure) (job.Closure, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO job_closures (id, job_id, job_title, company_id, reason, detail, applicant_count, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, c.JobID, c.JobTitle, c.CompanyID, c.Reason, c.Detail, c.ApplicantCount, c.Status, c.CreatedAt)
	if err != nil {
		return job.Closure{}, err
	}
	return c, nil
}

func (s *Store) ListClosures(ctx context.Context) ([]job.Closure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, job_title, company_id, reason, detail, applicant_count, status, created_at
		FROM job_closures
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]job.Closure, 0)
	for rows.Next() {
		var c job.Closure
		if err := rows.Scan(&c.ID, &c.JobID, &c.JobTitle, &c.CompanyID, &c.Reason, &c.Detail,
			&c.ApplicantCount, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// --- ApplicationStore -------------------------------------------------------

func (s *Store) CreateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	// The unique index on (student_id, job_id) is the duplicate check; no
	// prior read, so concurrent applies cannot both succeed.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (id, job_id, student_id, status, resume_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, app.ID, app.JobID, app.StudentID, app.Status, app.ResumeRef, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return application.Application{}, mapError(err, "application for job "+app.JobID)
	}
	return app, nil
}

func (s *Store) UpdateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	app.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, app.ID, app.Status, app.UpdatedAt)
	if err != nil {
		return application.Application{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return application.Application{}, fmt.Errorf("application %s: %w", app.ID, storage.ErrNotFound)
	}
	return app, nil
}

const applicationColumns = `id, job_id, student_id, status, resume_ref, created_at, updated_at`

func (s *Store) GetApplication(ctx context.Context, id string) (application.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE id = $1
	`, id)

	var app application.Application
	err := row.Scan(&app.ID, &app.JobID, &app.StudentID, &app.Status, &app.ResumeRef, &app.CreatedAt, &app.UpdatedAt)
	return app, mapError(err, "application "+id)
}

func (s *Store) ListApplicationsByStudent(ctx context.Context, studentID string) ([]application.Application, error) {
	return s.listApplications(ctx, `student_id = $1`, studentID)
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID string) ([]application.Application, error) {
	return s.listApplications(ctx, `job_id = $1`, jobID)
}

func (s *Store) listApplications(ctx context.Context, where, arg string) ([]application.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE `+where+`
		ORDER BY created_at
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]application.Application, 0)
	for rows.Next() {
		var app application.Application
		if err := rows.Scan(&app.ID, &app.JobID, &app.StudentID, &app.Status, &app.ResumeRef, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

func (s *Store) CountApplicationsByJob(ctx context.Context, jobID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT count(*) FROM applications WHERE job_id = $1
	`, jobID).Scan(&count)
	return count, err
}

func (s *Store) HasApplicationWithStatus(ctx context.Context, studentID string, status application.Status) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM applications WHERE student_id = $1 AND status = $2)
	`, studentID, status).Scan(&exists)
	return exists, err
}

// --- PermissionStore --------------------------------------------------------

func (s *Store) CreateRequest(ctx context.Context, req permission.Request) (permission.Request, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = permission.StatusPending
	req.RequestedAt = time.Now().UTC()

	// Partial unique index on (student_id, company_id) WHERE status =
	// 'Pending' blocks a duplicate pending pair; decided requests do not.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO permission_requests (id, student_id, company_id, reason, status, admin_note, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, req.ID, req.StudentID, req.CompanyID, req.Reason, req.Status, req.AdminNote, req.RequestedAt)
	if err != nil {
		return permission.Request{}, mapError(err, "permission request for company "+req.CompanyID)
	}
	return req, nil
}

func (s *Store) UpdateRequest(ctx context.Context, req permission.Request) (permission.Request, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE permission_requests
		SET status = $2, admin_note = $3, responded_at = $4
		WHERE id = $1
	`, req.ID, req.Status, req.AdminNote, req.RespondedAt)
	if err != nil {
		return permission.Request{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return permission.Request{}, fmt.Errorf("permission request %s: %w", req.ID, storage.ErrNotFound)
	}
	return req, nil
}

const permissionColumns = `id, student_id, company_id, reason, status, admin_note, requested_at, responded_at`

func (s *Store) GetRequest(ctx context.Context, id string) (permission.Request, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+permissionColumns+`
		FROM permission_requests
		WHERE id = $1
	`, id)

	var req permission.Request
	err := row.Scan(&req.ID, &req.StudentID, &req.CompanyID, &req.Reason, &req.Status, &req.AdminNote, &req.RequestedAt, &req.RespondedAt)
	return req, mapError(err, "permission request "+id)
}

func (s *Store) ListRequests(ctx context.Context, studentID string) ([]permission.Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+permissionColumns+`
		FROM permission_requests
		WHERE $1 = '' OR student_id = $1
		ORDER BY requested_at
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]permission.Request, 0)
	for rows.Next() {
		var req permission.Request
		if err := rows.Scan(&req.ID, &req.StudentID, &req.CompanyID, &req.Reason, &req.Status, &req.AdminNote, &req.RequestedAt, &req.RespondedAt); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (s *Store) HasRequestWithStatus(ctx context.Context, studentID, companyID string, status permission.Status) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM permission_requests
			WHERE student_id = $1 AND company_id = $2 AND status = $3
		)
	`, studentID, companyID, status).Scan(&exists)
	return exists, err
}

// --- EditRequestStore -------------------------------------------------------

func (s *Store) CreateEditRequest(ctx context.Context, req profileedit.Request) (profileedit.Request, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = profileedit.StatusPending
	req.CreatedAt = time.Now().UTC()

	changesJSON, err := json.Marshal(req.Changes)
	if err != nil {
		return profileedit.Request{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profile_edit_requests (id, student_id, changes, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, req.ID, req.StudentID, changesJSON, req.Status, req.CreatedAt)
	if err != nil {
		return profileedit.Request{}, err
	}
	return req, nil
}

func (s *Store) UpdateEditRequest(ctx context.Context, req profileedit.Request) (profileedit.Request, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profile_edit_requests
		SET status = $2, reviewed_by = $3, reviewed_at = $4, admin_comments = $5
		WHERE id = $1
	`, req.ID, req.Status, req.ReviewedBy, req.ReviewedAt, req.AdminComments)
	if err != nil {
		return profileedit.Request{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return profileedit.Request{}, fmt.Errorf("edit request %s: %w", req.ID, storage.ErrNotFound)
	}
	return req, nil
}

const editRequestColumns = `id, student_id, changes, status, reviewed_by, reviewed_at, admin_comments, created_at`

func (s *Store) GetEditRequest(ctx context.Context, id string) (profileedit.Request, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+editRequestColumns+`
		FROM profile_edit_requests
		WHERE id = $1
	`, id)
	req, err := scanEditRequest(row)
	return req, mapError(err, "edit request "+id)
}

func (s *Store) ListEditRequests(ctx context.Context, studentID string) ([]profileedit.Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+editRequestColumns+`
		FROM profile_edit_requests
		WHERE $1 = '' OR student_id = $1
		ORDER BY created_at
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]profileedit.Request, 0)
	for rows.Next() {
		req, err := scanEditRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func scanEditRequest(row rowScanner) (profileedit.Request, error) {
	var (
		req        profileedit.Request
		changesRaw []byte
	)
	if err := row.Scan(&req.ID, &req.StudentID, &changesRaw, &req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.AdminComments, &req.CreatedAt); err != nil {
		return profileedit.Request{}, err
	}
	if len(changesRaw) > 0 {
		if err := json.Unmarshal(changesRaw, &req.Changes); err != nil {
			return profileedit.Request{}, err
		}
	}
	return req, nil
}

// --- NotificationStore ------------------------------------------------------

func (s *Store) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()

	var dataJSON []byte
	if len(n.Data) > 0 {
		var err error
		if dataJSON, err = json.Marshal(n.Data); err != nil {
			return notification.Notification{}, err
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, account_id, type, title, message, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.AccountID, n.Type, n.Title, n.Message, dataJSON, n.CreatedAt)
	if err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func (s *Store) ListNotifications(ctx context.Context, accountID string, limit int) ([]notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, type, title, message, data, created_at
		FROM notifications
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]notification.Notification, 0)
	for rows.Next() {
		var (
			n       notification.Notification
			dataRaw []byte
		)
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Type, &n.Title, &n.Message, &dataRaw, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(dataRaw) > 0 {
			_ = json.Unmarshal(dataRaw, &n.Data)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}
