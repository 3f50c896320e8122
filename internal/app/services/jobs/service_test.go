package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/application"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/job"
	"github.com/VenusCh001/Placement-support-system/internal/app/services/notifications"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage/memory"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.New()
	notifier := notifications.New(store, store, nil)
	return New(store, store, notifier, nil), store
}

func TestCreateForcesActiveState(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), "c1", job.Job{
		Title:         "Backend Engineer",
		Status:        job.StatusClosed,
		IsActive:      false,
		ClosureReason: "smuggled",
		HiredCount:    7,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsActive || created.Status != job.StatusActive {
		t.Fatalf("new job state = active:%v status:%q", created.IsActive, created.Status)
	}
	if created.ClosureReason != "" || created.HiredCount != 0 {
		t.Fatal("closure fields must start clean")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "c1", job.Job{Title: "  "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("empty title err = %v, want ErrInvalidRequest", err)
	}
	if _, err := svc.Create(ctx, "c1", job.Job{Title: "x", CGPACutoff: 11}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("cutoff 11 err = %v, want ErrInvalidRequest", err)
	}
}

func TestUpdateOwnershipAndClosedChecks(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "c1", job.Job{Title: "Backend Engineer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Title = "Platform Engineer"
	if _, err := svc.Update(ctx, "c2", created); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("other company err = %v, want ErrNotOwner", err)
	}

	updated, err := svc.Update(ctx, "c1", created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Platform Engineer" {
		t.Fatalf("title = %q", updated.Title)
	}

	if _, err := svc.Close(ctx, "c1", created.ID, CloseParams{}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.Update(ctx, "c1", created); !errors.Is(err, ErrJobClosed) {
		t.Fatalf("update after close err = %v, want ErrJobClosed", err)
	}
}

func TestCloseDefaultsAndClosureRecord(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "c1", job.Job{Title: "Backend Engineer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, student := range []string{"s1", "s2", "s3"} {
		if _, err := store.CreateApplication(ctx, application.Application{StudentID: student, JobID: created.ID}); err != nil {
			t.Fatalf("seed application: %v", err)
		}
	}

	closed, err := svc.Close(ctx, "c1", created.ID, CloseParams{HiredCount: 2})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.IsActive {
		t.Fatal("closed job still active")
	}
	if closed.Status != job.StatusCompleted {
		t.Fatalf("status = %q, want completed default", closed.Status)
	}
	if closed.ClosureReason != "Recruitment completed" {
		t.Fatalf("reason = %q, want default", closed.ClosureReason)
	}
	if closed.ClosedAt == nil || closed.HiredCount != 2 {
		t.Fatalf("closed_at/hired not stamped: %+v", closed)
	}

	records, err := svc.ListClosures(ctx)
	if err != nil {
		t.Fatalf("closures: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("closures = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.ApplicantCount != 3 {
		t.Fatalf("applicant count = %d, want 3", rec.ApplicantCount)
	}
	if rec.Detail != "Hired: 2 candidates" {
		t.Fatalf("detail = %q", rec.Detail)
	}
	if rec.Status != "finished" {
		t.Fatalf("closure status = %q", rec.Status)
	}
}

func TestCloseIsTerminalAndValidatesStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "c1", job.Job{Title: "Backend Engineer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Close(ctx, "c1", created.ID, CloseParams{Status: "paused"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("bad status err = %v, want ErrInvalidRequest", err)
	}
	if _, err := svc.Close(ctx, "c2", created.ID, CloseParams{}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("other company err = %v, want ErrNotOwner", err)
	}
	if _, err := svc.Close(ctx, "c1", created.ID, CloseParams{Status: "closed", Reason: "role cancelled"}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.Close(ctx, "c1", created.ID, CloseParams{}); !errors.Is(err, ErrJobClosed) {
		t.Fatalf("re-close err = %v, want ErrJobClosed", err)
	}
}

func TestEligibility(t *testing.T) {
	base := job.Job{CGPACutoff: 7.5, EligibleBranches: []string{"CSE", "ECE"}}
	profile := account.StudentProfile{Branch: "CSE", CGPA: 8.0}

	if !Eligible(base, profile) {
		t.Fatal("qualifying student marked ineligible")
	}
	if Eligible(base, account.StudentProfile{Branch: "CSE", CGPA: 7.49}) {
		t.Fatal("below-cutoff student marked eligible")
	}
	if Eligible(base, account.StudentProfile{Branch: "MECH", CGPA: 9.0}) {
		t.Fatal("wrong-branch student marked eligible")
	}
	// Boundary: cutoff equal to CGPA qualifies.
	if !Eligible(base, account.StudentProfile{Branch: "ECE", CGPA: 7.5}) {
		t.Fatal("student at exact cutoff marked ineligible")
	}
	// No branch restriction admits every branch.
	open := job.Job{CGPACutoff: 0}
	if !Eligible(open, account.StudentProfile{Branch: "MECH", CGPA: 0}) {
		t.Fatal("unrestricted job marked ineligible")
	}
}

func TestMatchScoreIgnoresCaseAndWhitespace(t *testing.T) {
	score := MatchScore([]string{"Go", "SQL", "Docker"}, []string{" go ", "sql", "python"})
	if score != 2 {
		t.Fatalf("score = %d, want 2", score)
	}
	if MatchScore(nil, []string{"go"}) != 0 {
		t.Fatal("no requirements should score 0")
	}
}

func TestListingsForSortsByScoreWithStableTies(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Insertion order: low, tieA, high, tieB. Ties must keep insertion order.
	if _, err := svc.Create(ctx, "c1", job.Job{Title: "low", RequiredSkills: []string{"rust"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "c1", job.Job{Title: "tieA", RequiredSkills: []string{"go"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "c1", job.Job{Title: "high", RequiredSkills: []string{"go", "sql"}, CGPACutoff: 9.5}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "c1", job.Job{Title: "tieB", RequiredSkills: []string{"sql"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	closedJob, err := svc.Create(ctx, "c1", job.Job{Title: "gone", RequiredSkills: []string{"go", "sql"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Close(ctx, "c1", closedJob.ID, CloseParams{}); err != nil {
		t.Fatalf("close: %v", err)
	}

	acct := account.Account{
		Role:    account.RoleStudent,
		Student: &account.StudentProfile{Branch: "CSE", CGPA: 8.0, Skills: []string{"go", "sql"}},
	}
	listings, err := svc.ListingsFor(ctx, acct)
	if err != nil {
		t.Fatalf("listings: %v", err)
	}

	titles := make([]string, 0, len(listings))
	for _, l := range listings {
		titles = append(titles, l.Job.Title)
	}
	want := []string{"high", "tieA", "tieB", "low"}
	if len(titles) != len(want) {
		t.Fatalf("listings = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("listings = %v, want %v", titles, want)
		}
	}

	// "high" has a 9.5 cutoff: it stays in the list but is marked ineligible.
	if listings[0].Eligible {
		t.Fatal("above-cutoff job should be ineligible")
	}
	if !listings[1].Eligible || !listings[2].Eligible {
		t.Fatal("qualifying jobs should be eligible")
	}
}
