package job

import "time"

// RecruitmentStatus is the job lifecycle enum. Leaving StatusActive is
// terminal: the job drops out of student-facing listings and rejects edits.
type RecruitmentStatus string

const (
	StatusActive    RecruitmentStatus = "active"
	StatusCompleted RecruitmentStatus = "completed"
	StatusClosed    RecruitmentStatus = "closed"
)

// Job is a posting owned by one company account.
type Job struct {
	ID               string            `json:"id"`
	CompanyID        string            `json:"company_id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Compensation     string            `json:"compensation"`
	Location         string            `json:"location"`
	CGPACutoff       float64           `json:"cgpa_cutoff"`
	EligibleBranches []string          `json:"eligible_branches"`
	RequiredSkills   []string          `json:"required_skills"`
	IsActive         bool              `json:"is_active"`
	Status           RecruitmentStatus `json:"recruitment_status"`
	ClosureReason    string            `json:"closure_reason,omitempty"`
	HiredCount       int               `json:"hired_count,omitempty"`
	ClosedAt         *time.Time        `json:"closed_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Closure is the audit record written when recruitment for a job ends. The
// title is snapshotted so the record stays meaningful on its own.
type Closure struct {
	ID             string    `json:"id"`
	JobID          string    `json:"job_id"`
	JobTitle       string    `json:"job_title"`
	CompanyID      string    `json:"company_id"`
	Reason         string    `json:"reason"`
	Detail         string    `json:"detail,omitempty"`
	ApplicantCount int       `json:"applicant_count"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
