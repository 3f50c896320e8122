package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// statements run in order on startup. Each is idempotent so Apply can run on
// every boot against the same database.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		student_profile JSONB,
		company_profile JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_idx ON accounts (email)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		compensation TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		cgpa_cutoff DOUBLE PRECISION NOT NULL DEFAULT 0,
		eligible_branches TEXT[] NOT NULL DEFAULT '{}',
		required_skills TEXT[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		recruitment_status TEXT NOT NULL DEFAULT 'active',
		closure_reason TEXT NOT NULL DEFAULT '',
		hired_count INTEGER NOT NULL DEFAULT 0,
		closed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS job_closures (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		job_title TEXT NOT NULL,
		company_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		applicant_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		student_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		resume_ref TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS applications_student_job_idx
		ON applications (student_id, job_id)`,
	`CREATE TABLE IF NOT EXISTS permission_requests (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		company_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL,
		admin_note TEXT NOT NULL DEFAULT '',
		requested_at TIMESTAMPTZ NOT NULL,
		responded_at TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS permission_requests_pending_idx
		ON permission_requests (student_id, company_id)
		WHERE status = 'Pending'`,
	`CREATE TABLE IF NOT EXISTS profile_edit_requests (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		changes JSONB NOT NULL,
		status TEXT NOT NULL,
		reviewed_by TEXT NOT NULL DEFAULT '',
		reviewed_at TIMESTAMPTZ,
		admin_comments TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		data JSONB,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_account_idx
		ON notifications (account_id, created_at DESC)`,
}

// Apply runs every migration statement in order against db.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
