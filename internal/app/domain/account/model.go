package account

import "time"

// Role partitions accounts into the three portal populations.
type Role string

const (
	RoleStudent Role = "student"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// Account is a portal identity. Exactly one of Student or Company is set,
// matching the role; admins carry neither.
type Account struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         Role            `json:"role"`
	Student      *StudentProfile `json:"student,omitempty"`
	Company      *CompanyProfile `json:"company,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StudentProfile holds the fields the eligibility filter and the edit-approval
// workflow operate on. Locked profiles reject direct writes; the lock fields
// record who imposed it and why.
type StudentProfile struct {
	Name       string     `json:"name"`
	RollNumber string     `json:"roll_number"`
	Branch     string     `json:"branch"`
	CGPA       float64    `json:"cgpa"`
	Phone      string     `json:"phone"`
	Skills     []string   `json:"skills"`
	ResumeRef  string     `json:"resume_ref,omitempty"`
	Locked     bool       `json:"locked"`
	LockedBy   string     `json:"locked_by,omitempty"`
	LockedAt   *time.Time `json:"locked_at,omitempty"`
	LockReason string     `json:"lock_reason,omitempty"`
}

// CompanyProfile describes a recruiting company. Verified is flipped by an
// admin once the company is vetted.
type CompanyProfile struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	Verified bool   `json:"verified"`
}
