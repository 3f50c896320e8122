package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/profileedit"
	"github.com/VenusCh001/Placement-support-system/internal/app/services/notifications"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage/memory"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.New()
	notifier := notifications.New(store, store, nil)
	return New(store, store, notifier, nil), store
}

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func skillsPtr(s []string) *[]string { return &s }

func registerStudent(t *testing.T, svc *Service, email string) account.Account {
	t.Helper()
	acct, err := svc.Register(context.Background(), RegisterParams{
		Email:    email,
		Password: "password",
		Role:     account.RoleStudent,
		Student: &account.StudentProfile{
			Name:   "Asha",
			Branch: "CSE",
			CGPA:   8.2,
			Skills: []string{"go", "sql"},
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return acct
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	acct := registerStudent(t, svc, "asha@example.com")
	if acct.PasswordHash == "password" {
		t.Fatal("password stored in plaintext")
	}

	got, err := svc.Authenticate(ctx, "ASHA@example.com", "password")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != acct.ID {
		t.Fatalf("authenticated id = %s, want %s", got.ID, acct.ID)
	}

	if _, err := svc.Authenticate(ctx, "asha@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	registerStudent(t, svc, "asha@example.com")

	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "asha@example.com",
		Password: "password",
		Role:     account.RoleStudent,
		Student:  &account.StudentProfile{Name: "Other"},
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []RegisterParams{
		{Email: "", Password: "password", Role: account.RoleStudent, Student: &account.StudentProfile{Name: "x"}},
		{Email: "no-at-sign", Password: "password", Role: account.RoleStudent, Student: &account.StudentProfile{Name: "x"}},
		{Email: "a@b.com", Password: "short", Role: account.RoleStudent, Student: &account.StudentProfile{Name: "x"}},
		{Email: "a@b.com", Password: "password", Role: "wizard"},
		{Email: "a@b.com", Password: "password", Role: account.RoleStudent},
		{Email: "a@b.com", Password: "password", Role: account.RoleCompany},
	}
	for i, p := range cases {
		if _, err := svc.Register(ctx, p); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("case %d: err = %v, want ErrInvalidRequest", i, err)
		}
	}
}

func TestUpdateProfileUnlocked(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	acct := registerStudent(t, svc, "asha@example.com")

	updated, queued, err := svc.UpdateProfile(ctx, acct.ID, profileedit.ProfileChanges{
		Phone: strPtr("555-0101"),
		CGPA:  floatPtr(8.9),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if queued {
		t.Fatal("unlocked profile should update directly")
	}
	if updated.Student.Phone != "555-0101" || updated.Student.CGPA != 8.9 {
		t.Fatalf("profile not applied: %+v", updated.Student)
	}
	if updated.Student.Name != "Asha" {
		t.Fatal("untouched field changed")
	}
}

func TestUpdateProfileLockedDeflectsToEditRequest(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	acct := registerStudent(t, svc, "asha@example.com")

	if _, err := svc.SetLock(ctx, "admin-1", acct.ID, true, "placement season"); err != nil {
		t.Fatalf("lock: %v", err)
	}

	_, queued, err := svc.UpdateProfile(ctx, acct.ID, profileedit.ProfileChanges{CGPA: floatPtr(9.9)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !queued {
		t.Fatal("locked profile write should queue an edit request")
	}

	live, err := svc.Get(ctx, acct.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if live.Student.CGPA != 8.2 {
		t.Fatalf("live profile changed while locked: cgpa = %v", live.Student.CGPA)
	}

	reqs, err := svc.ListEditRequests(ctx, acct.ID)
	if err != nil {
		t.Fatalf("list edit requests: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("edit requests = %d, want 1", len(reqs))
	}
	if reqs[0].Status != profileedit.StatusPending {
		t.Fatalf("status = %q, want pending", reqs[0].Status)
	}
}

func TestResolveEditRequestApproveMergesSparsely(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	acct := registerStudent(t, svc, "asha@example.com")

	req, err := svc.SubmitEditRequest(ctx, acct.ID, profileedit.ProfileChanges{
		CGPA:   floatPtr(9.1),
		Skills: skillsPtr([]string{"go", "kubernetes"}),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	resolved, err := svc.ResolveEditRequest(ctx, req.ID, "admin-1", true, "verified against transcript")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != profileedit.StatusApproved {
		t.Fatalf("status = %q, want approved", resolved.Status)
	}
	if resolved.ReviewedBy != "admin-1" || resolved.ReviewedAt == nil {
		t.Fatal("review metadata not stamped")
	}

	live, err := svc.Get(ctx, acct.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if live.Student.CGPA != 9.1 {
		t.Fatalf("cgpa = %v, want 9.1", live.Student.CGPA)
	}
	if len(live.Student.Skills) != 2 || live.Student.Skills[1] != "kubernetes" {
		t.Fatalf("skills = %v", live.Student.Skills)
	}
	// Fields absent from the request stay as they were.
	if live.Student.Name != "Asha" || live.Student.Branch != "CSE" {
		t.Fatalf("untouched fields changed: %+v", live.Student)
	}

	// Terminal: a second decision fails.
	if _, err := svc.ResolveEditRequest(ctx, req.ID, "admin-2", false, ""); !errors.Is(err, ErrRequestDecided) {
		t.Fatalf("second resolve err = %v, want ErrRequestDecided", err)
	}
}

func TestResolveEditRequestRejectLeavesProfile(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	acct := registerStudent(t, svc, "asha@example.com")

	req, err := svc.SubmitEditRequest(ctx, acct.ID, profileedit.ProfileChanges{CGPA: floatPtr(9.9)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	resolved, err := svc.ResolveEditRequest(ctx, req.ID, "admin-1", false, "no transcript attached")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != profileedit.StatusRejected {
		t.Fatalf("status = %q, want rejected", resolved.Status)
	}
	if resolved.AdminComments != "no transcript attached" {
		t.Fatalf("comments = %q", resolved.AdminComments)
	}

	live, err := svc.Get(ctx, acct.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if live.Student.CGPA != 8.2 {
		t.Fatalf("rejected request changed the profile: cgpa = %v", live.Student.CGPA)
	}

	notes, err := store.ListNotifications(ctx, acct.ID, 0)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notes) == 0 {
		t.Fatal("student should be notified of the rejection")
	}
}

func TestVerifyCompany(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	company, err := svc.Register(ctx, RegisterParams{
		Email:    "hr@acme.com",
		Password: "password",
		Role:     account.RoleCompany,
		Company:  &account.CompanyProfile{Name: "Acme", Verified: true},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if company.Company.Verified {
		t.Fatal("registration must not self-verify")
	}

	verified, err := svc.VerifyCompany(ctx, company.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.Company.Verified {
		t.Fatal("company not verified")
	}
}
