package permission

import "time"

// Status of a company permission request. Pending is the only non-terminal
// state; an admin moves it to Approved or Rejected exactly once.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Request asks for an exception letting an already-placed student apply to
// the named company. An approval covers every job that company posts, now or
// later. At most one Pending request per (StudentID, CompanyID) pair exists
// at a time; the store rejects a second insert while one is pending.
type Request struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"student_id"`
	CompanyID   string     `json:"company_id"`
	Reason      string     `json:"reason"`
	Status      Status     `json:"status"`
	AdminNote   string     `json:"admin_note,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}
