package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/application"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/job"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/permission"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
	"github.com/VenusCh001/Placement-support-system/internal/platform/migrations"
)

func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migrations.Apply(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	store := New(db)
	suffix := uuid.NewString()[:8]

	student, err := store.CreateAccount(ctx, account.Account{
		Email: fmt.Sprintf("student-%s@example.com", suffix),
		Role:  account.RoleStudent,
		Student: &account.StudentProfile{
			Name: "Asha", Branch: "CSE", CGPA: 8.2, Skills: []string{"go"},
		},
	})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}

	if _, err := store.CreateAccount(ctx, account.Account{
		Email: student.Email,
		Role:  account.RoleStudent,
	}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("duplicate email err = %v, want ErrConflict", err)
	}

	j, err := store.CreateJob(ctx, job.Job{
		CompanyID:        "company-" + suffix,
		Title:            "Backend Engineer",
		CGPACutoff:       7.5,
		EligibleBranches: []string{"CSE"},
		RequiredSkills:   []string{"go", "sql"},
		IsActive:         true,
		Status:           job.StatusActive,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	got, err := store.GetJob(ctx, j.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if len(got.RequiredSkills) != 2 || got.RequiredSkills[0] != "go" {
		t.Fatalf("required skills = %v", got.RequiredSkills)
	}

	app1, err := store.CreateApplication(ctx, application.Application{
		JobID:     j.ID,
		StudentID: student.ID,
	})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	if _, err := store.CreateApplication(ctx, application.Application{
		JobID:     j.ID,
		StudentID: student.ID,
	}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("duplicate application err = %v, want ErrConflict", err)
	}

	app1.Status = application.StatusSelected
	if _, err := store.UpdateApplication(ctx, app1); err != nil {
		t.Fatalf("update application: %v", err)
	}
	placed, err := store.HasApplicationWithStatus(ctx, student.ID, application.StatusSelected)
	if err != nil {
		t.Fatalf("has application: %v", err)
	}
	if !placed {
		t.Fatal("selected application not reported")
	}

	req, err := store.CreateRequest(ctx, permission.Request{
		StudentID: student.ID,
		CompanyID: j.CompanyID,
		Reason:    "core team",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := store.CreateRequest(ctx, permission.Request{
		StudentID: student.ID,
		CompanyID: j.CompanyID,
		Reason:    "again",
	}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("duplicate pending err = %v, want ErrConflict", err)
	}

	now := time.Now().UTC()
	req.Status = permission.StatusRejected
	req.RespondedAt = &now
	if _, err := store.UpdateRequest(ctx, req); err != nil {
		t.Fatalf("update request: %v", err)
	}

	// Decided pairs no longer block the partial unique index.
	if _, err := store.CreateRequest(ctx, permission.Request{
		StudentID: student.ID,
		CompanyID: j.CompanyID,
		Reason:    "retry",
	}); err != nil {
		t.Fatalf("re-request after rejection: %v", err)
	}

	if _, err := store.GetAccount(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing account err = %v, want ErrNotFound", err)
	}
}
