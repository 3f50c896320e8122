package application

import "time"

// Status is set by the owning company. The zero value means the application
// has not been reviewed yet and is reported as Pending.
type Status string

const (
	StatusPending     Status = ""
	StatusShortlisted Status = "Shortlisted"
	StatusSelected    Status = "Selected"
	StatusRejected    Status = "Rejected"
)

// Valid reports whether s is a status a company may assign.
func (s Status) Valid() bool {
	switch s {
	case StatusShortlisted, StatusSelected, StatusRejected:
		return true
	}
	return false
}

// Display returns the student-facing name for s.
func (s Status) Display() string {
	if s == StatusPending {
		return "Pending"
	}
	return string(s)
}

// Application links one student to one job. The (StudentID, JobID) pair is
// unique; the store rejects a second insert for the same pair.
type Application struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	StudentID string    `json:"student_id"`
	Status    Status    `json:"status"`
	ResumeRef string    `json:"resume_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
