package models

// UserRole constants
const (
	RoleStaff    = "STAFF"
	RoleApprover = "APPROVER"
	RoleAdmin    = "ADMIN"
)

// User identifies an actor in the system. Once attached to a submission it is
// an immutable snapshot: later role or name changes do not rewrite history.
type User struct {
	ID         string `gorm:"type:varchar(64)" json:"id"`
	Name       string `gorm:"type:varchar(255)" json:"name"`
	Role       string `gorm:"type:varchar(20)" json:"role"`
	Department string `gorm:"type:varchar(100)" json:"department"`
}

// IsValidRole reports whether role is one of the defined user roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleStaff, RoleApprover, RoleAdmin:
		return true
	}
	return false
}

// CanApprove reports whether the user may approve or reject submissions.
func (u User) CanApprove() bool {
	return u.Role == RoleApprover
}

// SeesAllSubmissions reports whether the user's submission list is unfiltered.
// Staff only see their own submissions plus anything still in draft.
func (u User) SeesAllSubmissions() bool {
	return u.Role == RoleApprover || u.Role == RoleAdmin
}
