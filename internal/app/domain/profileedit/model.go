package profileedit

import "time"

// Status of an edit request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ProfileChanges is an explicit partial profile: nil means "leave the live
// field alone", a non-nil pointer means "set it to this value", even when the
// value is empty or zero. Approval copies only the non-nil fields.
type ProfileChanges struct {
	Name       *string   `json:"name,omitempty"`
	RollNumber *string   `json:"roll_number,omitempty"`
	Branch     *string   `json:"branch,omitempty"`
	CGPA       *float64  `json:"cgpa,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Skills     *[]string `json:"skills,omitempty"`
}

// Empty reports whether the request carries no changes at all.
func (c ProfileChanges) Empty() bool {
	return c.Name == nil && c.RollNumber == nil && c.Branch == nil &&
		c.CGPA == nil && c.Phone == nil && c.Skills == nil
}

// Request holds proposed profile values awaiting admin review. The live
// profile is untouched until approval.
type Request struct {
	ID            string         `json:"id"`
	StudentID     string         `json:"student_id"`
	Changes       ProfileChanges `json:"changes"`
	Status        Status         `json:"status"`
	ReviewedBy    string         `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time     `json:"reviewed_at,omitempty"`
	AdminComments string         `json:"admin_comments,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
