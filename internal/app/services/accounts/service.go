package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VenusCh001/Placement-support-system/internal/app/auth"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/profileedit"
	"github.com/VenusCh001/Placement-support-system/internal/app/services/notifications"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
	"github.com/VenusCh001/Placement-support-system/pkg/logger"
)

var (
	// ErrEmailTaken is returned when registering with an email that is
	// already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for a failed login. It does not
	// distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRequest is returned for malformed or incomplete input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRequestDecided is returned when resolving an edit request that has
	// already been approved or rejected.
	ErrRequestDecided = errors.New("request already decided")
)

// Service manages accounts, student profiles, and the profile edit workflow.
type Service struct {
	store    storage.AccountStore
	edits    storage.EditRequestStore
	notifier *notifications.Service
	log      *logger.Logger
}

// New constructs an account service.
func New(store storage.AccountStore, edits storage.EditRequestStore, notifier *notifications.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("accounts")
	}
	return &Service{store: store, edits: edits, notifier: notifier, log: log}
}

// RegisterParams carries the registration payload. Exactly one of Student or
// Company must match the role; admins carry neither.
type RegisterParams struct {
	Email    string
	Password string
	Role     account.Role
	Student  *account.StudentProfile
	Company  *account.CompanyProfile
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, p RegisterParams) (account.Account, error) {
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return account.Account{}, fmt.Errorf("%w: a valid email is required", ErrInvalidRequest)
	}
	if len(p.Password) < 6 {
		return account.Account{}, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidRequest)
	}
	if !p.Role.Valid() {
		return account.Account{}, fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, p.Role)
	}
	switch p.Role {
	case account.RoleStudent:
		if p.Student == nil || strings.TrimSpace(p.Student.Name) == "" {
			return account.Account{}, fmt.Errorf("%w: student profile with a name is required", ErrInvalidRequest)
		}
		p.Company = nil
		p.Student.Locked = false
		p.Student.LockedBy = ""
		p.Student.LockedAt = nil
		p.Student.LockReason = ""
	case account.RoleCompany:
		if p.Company == nil || strings.TrimSpace(p.Company.Name) == "" {
			return account.Account{}, fmt.Errorf("%w: company profile with a name is required", ErrInvalidRequest)
		}
		p.Student = nil
		p.Company.Verified = false
	default:
		p.Student = nil
		p.Company = nil
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return account.Account{}, err
	}

	created, err := s.store.CreateAccount(ctx, account.Account{
		Email:        p.Email,
		PasswordHash: hash,
		Role:         p.Role,
		Student:      p.Student,
		Company:      p.Company,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return account.Account{}, ErrEmailTaken
		}
		return account.Account{}, err
	}
	s.log.WithField("account_id", created.ID).
		WithField("role", string(created.Role)).
		Info("account registered")
	return created, nil
}

// Authenticate verifies email and password, returning the account on success.
func (s *Service) Authenticate(ctx context.Context, email, password string) (account.Account, error) {
	acct, err := s.store.GetAccountByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return account.Account{}, ErrInvalidCredentials
		}
		return account.Account{}, err
	}
	if !auth.CheckPassword(acct.PasswordHash, password) {
		return account.Account{}, ErrInvalidCredentials
	}
	return acct, nil
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id string) (account.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// List returns accounts filtered by role; an empty role matches all.
func (s *Service) List(ctx context.Context, role account.Role) ([]account.Account, error) {
	return s.store.ListAccounts(ctx, role)
}

// UpdateProfile applies changes to a student profile. When the profile is
// locked the write is deflected into a pending edit request instead and the
// returned bool is true; the live profile is left untouched either way until
// an admin approves.
func (s *Service) UpdateProfile(ctx context.Context, studentID string, changes profileedit.ProfileChanges) (account.Account, bool, error) {
	if changes.Empty() {
		return account.Account{}, false, fmt.Errorf("%w: no profile fields provided", ErrInvalidRequest)
	}
	acct, err := s.store.GetAccount(ctx, studentID)
	if err != nil {
		return account.Account{}, false, err
	}
	if acct.Role != account.RoleStudent || acct.Student == nil {
		return account.Account{}, false, fmt.Errorf("%w: account is not a student", ErrInvalidRequest)
	}

	if acct.Student.Locked {
		if _, err := s.SubmitEditRequest(ctx, studentID, changes); err != nil {
			return account.Account{}, false, err
		}
		return acct, true, nil
	}

	applyChanges(acct.Student, changes)
	updated, err := s.store.UpdateAccount(ctx, acct)
	if err != nil {
		return account.Account{}, false, err
	}
	return updated, false, nil
}

// SubmitEditRequest queues a profile change for admin review.
func (s *Service) SubmitEditRequest(ctx context.Context, studentID string, changes profileedit.ProfileChanges) (profileedit.Request, error) {
	if changes.Empty() {
		return profileedit.Request{}, fmt.Errorf("%w: no profile fields provided", ErrInvalidRequest)
	}
	req, err := s.edits.CreateEditRequest(ctx, profileedit.Request{
		StudentID: studentID,
		Changes:   changes,
	})
	if err != nil {
		return profileedit.Request{}, err
	}
	s.log.WithField("request_id", req.ID).
		WithField("student_id", studentID).
		Info("profile edit request submitted")
	return req, nil
}

// ListEditRequests lists edit requests; an empty studentID matches all.
func (s *Service) ListEditRequests(ctx context.Context, studentID string) ([]profileedit.Request, error) {
	return s.edits.ListEditRequests(ctx, studentID)
}

// ResolveEditRequest approves or rejects a pending edit request. Approval
// merges exactly the provided fields into the live profile; rejection records
// the decision only. The student is notified either way. A decided request
// cannot be resolved again.
func (s *Service) ResolveEditRequest(ctx context.Context, requestID, adminID string, approve bool, comments string) (profileedit.Request, error) {
	req, err := s.edits.GetEditRequest(ctx, requestID)
	if err != nil {
		return profileedit.Request{}, err
	}
	if req.Status != profileedit.StatusPending {
		return profileedit.Request{}, ErrRequestDecided
	}

	if approve {
		acct, err := s.store.GetAccount(ctx, req.StudentID)
		if err != nil {
			return profileedit.Request{}, err
		}
		if acct.Student == nil {
			return profileedit.Request{}, fmt.Errorf("%w: account is not a student", ErrInvalidRequest)
		}
		applyChanges(acct.Student, req.Changes)
		if _, err := s.store.UpdateAccount(ctx, acct); err != nil {
			return profileedit.Request{}, err
		}
		req.Status = profileedit.StatusApproved
	} else {
		req.Status = profileedit.StatusRejected
	}

	now := time.Now().UTC()
	req.ReviewedBy = adminID
	req.ReviewedAt = &now
	req.AdminComments = comments

	updated, err := s.edits.UpdateEditRequest(ctx, req)
	if err != nil {
		return profileedit.Request{}, err
	}

	outcome := "rejected"
	if approve {
		outcome = "approved"
	}
	s.notifier.Notify(ctx, req.StudentID, "profile_edit",
		"Profile edit request "+outcome,
		fmt.Sprintf("Your profile edit request was %s.", outcome),
		map[string]string{"request_id": req.ID})
	s.log.WithField("request_id", req.ID).
		WithField("admin_id", adminID).
		WithField("approved", approve).
		Info("profile edit request resolved")
	return updated, nil
}

// AttachResume stores the resume reference on the student profile.
func (s *Service) AttachResume(ctx context.Context, studentID, ref string) (account.Account, error) {
	acct, err := s.store.GetAccount(ctx, studentID)
	if err != nil {
		return account.Account{}, err
	}
	if acct.Student == nil {
		return account.Account{}, fmt.Errorf("%w: account is not a student", ErrInvalidRequest)
	}
	acct.Student.ResumeRef = ref
	return s.store.UpdateAccount(ctx, acct)
}

// VerifyCompany marks a company account as vetted.
func (s *Service) VerifyCompany(ctx context.Context, companyID string) (account.Account, error) {
	acct, err := s.store.GetAccount(ctx, companyID)
	if err != nil {
		return account.Account{}, err
	}
	if acct.Company == nil {
		return account.Account{}, fmt.Errorf("%w: account is not a company", ErrInvalidRequest)
	}
	acct.Company.Verified = true
	updated, err := s.store.UpdateAccount(ctx, acct)
	if err != nil {
		return account.Account{}, err
	}
	s.notifier.Notify(ctx, companyID, "verification",
		"Company verified", "Your company account has been verified.", nil)
	return updated, nil
}

// SetLock locks or unlocks a student profile, recording who and why. Writes
// to a locked profile deflect into edit requests until an admin unlocks it.
func (s *Service) SetLock(ctx context.Context, adminID, studentID string, locked bool, reason string) (account.Account, error) {
	acct, err := s.store.GetAccount(ctx, studentID)
	if err != nil {
		return account.Account{}, err
	}
	if acct.Student == nil {
		return account.Account{}, fmt.Errorf("%w: account is not a student", ErrInvalidRequest)
	}

	acct.Student.Locked = locked
	if locked {
		now := time.Now().UTC()
		acct.Student.LockedBy = adminID
		acct.Student.LockedAt = &now
		acct.Student.LockReason = reason
	} else {
		acct.Student.LockedBy = ""
		acct.Student.LockedAt = nil
		acct.Student.LockReason = ""
	}

	updated, err := s.store.UpdateAccount(ctx, acct)
	if err != nil {
		return account.Account{}, err
	}

	state := "unlocked"
	if locked {
		state = "locked"
	}
	s.notifier.Notify(ctx, studentID, "profile_lock",
		"Profile "+state,
		fmt.Sprintf("Your profile has been %s by an administrator.", state), nil)
	s.log.WithField("student_id", studentID).
		WithField("admin_id", adminID).
		WithField("locked", locked).
		Info("student profile lock changed")
	return updated, nil
}

// applyChanges merges only the fields present in changes into the profile.
func applyChanges(profile *account.StudentProfile, changes profileedit.ProfileChanges) {
	if changes.Name != nil {
		profile.Name = *changes.Name
	}
	if changes.RollNumber != nil {
		profile.RollNumber = *changes.RollNumber
	}
	if changes.Branch != nil {
		profile.Branch = *changes.Branch
	}
	if changes.CGPA != nil {
		profile.CGPA = *changes.CGPA
	}
	if changes.Phone != nil {
		profile.Phone = *changes.Phone
	}
	if changes.Skills != nil {
		profile.Skills = append([]string(nil), (*changes.Skills)...)
	}
}
