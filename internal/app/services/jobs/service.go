package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/VenusCh001/Placement-support-system/internal/app/domain/account"
	"github.com/VenusCh001/Placement-support-system/internal/app/domain/job"
	"github.com/VenusCh001/Placement-support-system/internal/app/metrics"
	"github.com/VenusCh001/Placement-support-system/internal/app/services/notifications"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage"
	"github.com/VenusCh001/Placement-support-system/pkg/logger"
)

var (
	// ErrNotOwner is returned when a company touches a job it did not post.
	ErrNotOwner = errors.New("job belongs to another company")
	// ErrJobClosed is returned for edits or closures on a job whose
	// recruitment has already ended. Closure is terminal.
	ErrJobClosed = errors.New("recruitment already closed")
	// ErrInvalidRequest is returned for malformed or incomplete input.
	ErrInvalidRequest = errors.New("invalid request")
)

// Service manages job postings, closure, and student-facing listings.
type Service struct {
	store        storage.JobStore
	applications storage.ApplicationStore
	notifier     *notifications.Service
	log          *logger.Logger
}

// New constructs a job service.
func New(store storage.JobStore, applications storage.ApplicationStore, notifier *notifications.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("jobs")
	}
	return &Service{store: store, applications: applications, notifier: notifier, log: log}
}

// Create posts a new job for the company. New jobs start active.
func (s *Service) Create(ctx context.Context, companyID string, j job.Job) (job.Job, error) {
	j.Title = strings.TrimSpace(j.Title)
	if j.Title == "" {
		return job.Job{}, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if j.CGPACutoff < 0 || j.CGPACutoff > 10 {
		return job.Job{}, fmt.Errorf("%w: cgpa cutoff must be between 0 and 10", ErrInvalidRequest)
	}

	j.CompanyID = companyID
	j.IsActive = true
	j.Status = job.StatusActive
	j.ClosureReason = ""
	j.HiredCount = 0
	j.ClosedAt = nil

	created, err := s.store.CreateJob(ctx, j)
	if err != nil {
		return job.Job{}, err
	}
	s.log.WithField("job_id", created.ID).
		WithField("company_id", companyID).
		Info("job posted")
	return created, nil
}

// Update edits an active job's posting fields. Only the owning company may
// edit, and only while recruitment is open.
func (s *Service) Update(ctx context.Context, companyID string, j job.Job) (job.Job, error) {
	existing, err := s.store.GetJob(ctx, j.ID)
	if err != nil {
		return job.Job{}, err
	}
	if existing.CompanyID != companyID {
		return job.Job{}, ErrNotOwner
	}
	if !existing.IsActive {
		return job.Job{}, ErrJobClosed
	}

	j.Title = strings.TrimSpace(j.Title)
	if j.Title == "" {
		return job.Job{}, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if j.CGPACutoff < 0 || j.CGPACutoff > 10 {
		return job.Job{}, fmt.Errorf("%w: cgpa cutoff must be between 0 and 10", ErrInvalidRequest)
	}

	existing.Title = j.Title
	existing.Description = j.Description
	existing.Compensation = j.Compensation
	existing.Location = j.Location
	existing.CGPACutoff = j.CGPACutoff
	existing.EligibleBranches = j.EligibleBranches
	existing.RequiredSkills = j.RequiredSkills

	return s.store.UpdateJob(ctx, existing)
}

// CloseParams carries the closure payload. Status defaults to "completed" and
// Reason to "Recruitment completed".
type CloseParams struct {
	Status     string
	Reason     string
	HiredCount int
}

// Close ends recruitment for a job. The job leaves student listings, becomes
// read-only, and a closure audit record is written with the final applicant
// count. There is no reopen.
func (s *Service) Close(ctx context.Context, companyID, jobID string, p CloseParams) (job.Job, error) {
	j, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return job.Job{}, err
	}
	if j.CompanyID != companyID {
		return job.Job{}, ErrNotOwner
	}
	if !j.IsActive {
		return job.Job{}, ErrJobClosed
	}

	status := job.RecruitmentStatus(p.Status)
	if status == "" {
		status = job.StatusCompleted
	}
	if status != job.StatusCompleted && status != job.StatusClosed {
		return job.Job{}, fmt.Errorf("%w: status must be completed or closed", ErrInvalidRequest)
	}
	reason := strings.TrimSpace(p.Reason)
	if reason == "" {
		reason = "Recruitment completed"
	}
	if p.HiredCount < 0 {
		return job.Job{}, fmt.Errorf("%w: hired count cannot be negative", ErrInvalidRequest)
	}

	now := time.Now().UTC()
	j.IsActive = false
	j.Status = status
	j.ClosureReason = reason
	j.HiredCount = p.HiredCount
	j.ClosedAt = &now

	updated, err := s.store.UpdateJob(ctx, j)
	if err != nil {
		return job.Job{}, err
	}

	count, err := s.applications.CountApplicationsByJob(ctx, jobID)
	if err != nil {
		return job.Job{}, err
	}
	if _, err := s.store.CreateClosure(ctx, job.Closure{
		JobID:          jobID,
		JobTitle:       updated.Title,
		CompanyID:      companyID,
		Reason:         reason,
		Detail:         fmt.Sprintf("Hired: %d candidates", p.HiredCount),
		ApplicantCount: count,
		Status:         "finished",
	}); err != nil {
		return job.Job{}, err
	}

	metrics.RecordJobClosed(string(status))
	s.notifier.NotifyAdmins(ctx, "job_closed",
		"Recruitment closed",
		fmt.Sprintf("Recruitment for %q has been closed (%d applicants).", updated.Title, count),
		map[string]string{"job_id": jobID})
	s.log.WithField("job_id", jobID).
		WithField("company_id", companyID).
		WithField("status", string(status)).
		WithField("applicants", count).
		Info("job closed")
	return updated, nil
}

// Get returns one job.
func (s *Service) Get(ctx context.Context, id string) (job.Job, error) {
	return s.store.GetJob(ctx, id)
}

// List returns jobs filtered by company (empty matches all), optionally
// restricted to active postings.
func (s *Service) List(ctx context.Context, companyID string, activeOnly bool) ([]job.Job, error) {
	return s.store.ListJobs(ctx, companyID, activeOnly)
}

// ListClosures returns the closure audit records.
func (s *Service) ListClosures(ctx context.Context) ([]job.Closure, error) {
	return s.store.ListClosures(ctx)
}

// Listing is a job annotated for one student.
type Listing struct {
	Job        job.Job `json:"job"`
	Eligible   bool    `json:"eligible"`
	MatchScore int     `json:"match_score"`
}

// ListingsFor returns every active job annotated with the student's
// eligibility and skill match score, sorted by score descending. Ties keep
// the store's order; ineligible jobs stay in the list, marked ineligible.
func (s *Service) ListingsFor(ctx context.Context, acct account.Account) ([]Listing, error) {
	if acct.Student == nil {
		return nil, fmt.Errorf("%w: account is not a student", ErrInvalidRequest)
	}
	active, err := s.store.ListJobs(ctx, "", true)
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(active))
	for _, j := range active {
		listings = append(listings, Listing{
			Job:        j,
			Eligible:   Eligible(j, *acct.Student),
			MatchScore: MatchScore(j.RequiredSkills, acct.Student.Skills),
		})
	}
	sort.SliceStable(listings, func(i, k int) bool {
		return listings[i].MatchScore > listings[k].MatchScore
	})
	return listings, nil
}

// Eligible reports whether the student clears the job's CGPA cutoff and
// branch restriction. An empty branch list admits every branch. Skills never
// affect eligibility.
func Eligible(j job.Job, profile account.StudentProfile) bool {
	if profile.CGPA < j.CGPACutoff {
		return false
	}
	if len(j.EligibleBranches) == 0 {
		return true
	}
	for _, branch := range j.EligibleBranches {
		if strings.EqualFold(branch, profile.Branch) {
			return true
		}
	}
	return false
}

// MatchScore counts how many required skills the student holds, compared
// case-insensitively.
func MatchScore(required, skills []string) int {
	have := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		have[strings.ToLower(strings.TrimSpace(skill))] = struct{}{}
	}
	score := 0
	for _, req := range required {
		if _, ok := have[strings.ToLower(strings.TrimSpace(req))]; ok {
			score++
		}
	}
	return score
}
