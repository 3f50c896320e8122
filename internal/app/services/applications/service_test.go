package applications

import (
	"context"
	"errors"
	"testing"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/application"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/job"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/permission"
	"github.com/VenusCh001/Placement-support-system/internal/app/services/notifications"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage/memory"
)

type fixture struct {
	svc     *Service
	store   *memory.Store
	student account.Account
	job     job.Job
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	notifier := notifications.New(store, store, nil)
	svc := New(store, store, store, store, notifier, nil)
	ctx := context.Background()

	student, err := store.CreateAccount(ctx, account.Account{
		Email: "asha@example.com",
		Role:  account.RoleStudent,
		Student: &account.StudentProfile{
			Name:      "Asha",
			ResumeRef: "resume-1.pdf",
		},
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	j, err := store.CreateJob(ctx, job.Job{
		CompanyID: "c1",
		Title:     "Backend Engineer",
		IsActive:  true,
		Status:    job.StatusActive,
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return &fixture{svc: svc, store: store, student: student, job: j}
}

func TestApplySnapshotsResumeAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Apply(ctx, f.student.ID, f.job.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if created.Status != application.StatusPending {
		t.Fatalf("status = %q, want pending zero value", created.Status)
	}
	if created.ResumeRef != "resume-1.pdf" {
		t.Fatalf("resume ref = %q, want snapshot of profile", created.ResumeRef)
	}

	notes, err := f.store.ListNotifications(ctx, f.student.ID, 0)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notes))
	}
	if notes[0].Message != "You applied to Backend Engineer" {
		t.Fatalf("message = %q", notes[0].Message)
	}
}

func TestApplyRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, f.student.ID, f.job.ID); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if _, err := f.svc.Apply(ctx, f.student.ID, f.job.ID); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("second apply err = %v, want ErrDuplicateApplication", err)
	}
}

func TestApplyToClosedJobReportsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.job.IsActive = false
	f.job.Status = job.StatusCompleted
	if _, err := f.store.UpdateJob(ctx, f.job); err != nil {
		t.Fatalf("close job: %v", err)
	}

	if _, err := f.svc.Apply(ctx, f.student.ID, f.job.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("apply to closed job err = %v, want ErrNotFound", err)
	}
	if _, err := f.svc.Apply(ctx, f.student.ID, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("apply to missing job err = %v, want ErrNotFound", err)
	}
}

func TestPlacedStudentNeedsApprovedPermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Place the student via another company's job.
	placedApp, err := f.store.CreateApplication(ctx, application.Application{StudentID: f.student.ID, JobID: "other-job"})
	if err != nil {
		t.Fatalf("seed application: %v", err)
	}
	placedApp.Status = application.StatusSelected
	if _, err := f.store.UpdateApplication(ctx, placedApp); err != nil {
		t.Fatalf("mark placed: %v", err)
	}

	if _, err := f.svc.Apply(ctx, f.student.ID, f.job.ID); !errors.Is(err, ErrPlacedWithoutPermission) {
		t.Fatalf("placed apply err = %v, want ErrPlacedWithoutPermission", err)
	}

	// A pending request is not enough.
	req, err := f.store.CreateRequest(ctx, permission.Request{StudentID: f.student.ID, CompanyID: "c1", Reason: "better fit"})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	if _, err := f.svc.Apply(ctx, f.student.ID, f.job.ID); !errors.Is(err, ErrPlacedWithoutPermission) {
		t.Fatalf("pending permission err = %v, want ErrPlacedWithoutPermission", err)
	}

	req.Status = permission.StatusApproved
	if _, err := f.store.UpdateRequest(ctx, req); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.svc.Apply(ctx, f.student.ID, f.job.ID); err != nil {
		t.Fatalf("apply with approval: %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Apply(ctx, f.student.ID, f.job.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := f.svc.SetStatus(ctx, "c2", created.ID, application.StatusShortlisted); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("other company err = %v, want ErrNotOwner", err)
	}
	if _, err := f.svc.SetStatus(ctx, "c1", created.ID, application.Status("Hired")); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("bad status err = %v, want ErrInvalidRequest", err)
	}

	updated, err := f.svc.SetStatus(ctx, "c1", created.ID, application.StatusSelected)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != application.StatusSelected {
		t.Fatalf("status = %q", updated.Status)
	}

	placed, err := f.svc.HasOffer(ctx, f.student.ID)
	if err != nil {
		t.Fatalf("has offer: %v", err)
	}
	if !placed {
		t.Fatal("selected student should have an offer")
	}
}

func TestListByJobOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, f.student.ID, f.job.ID); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := f.svc.ListByJob(ctx, "c2", f.job.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("other company err = %v, want ErrNotOwner", err)
	}
	apps, err := f.svc.ListByJob(ctx, "c1", f.job.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("applications = %d, want 1", len(apps))
	}
}
