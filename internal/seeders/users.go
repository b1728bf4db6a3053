package seeders

import "mediform-service/internal/models"

// Demo users, one per role. These are in-memory fixtures, not database rows:
// submissions snapshot the acting user, so nothing references a users table.
var demoUsers = []models.User{
	{ID: "staff1", Name: "พยาบาล สมศรี (Staff)", Role: models.RoleStaff, Department: "ER"},
	{ID: "doc1", Name: "นพ. สมศักดิ์ (Director)", Role: models.RoleApprover, Department: "Management"},
	{ID: "admin1", Name: "Admin Somchai", Role: models.RoleAdmin, Department: "IT"},
}

// DefaultUser is the identity a session starts with before any switch.
func DefaultUser() models.User {
	return demoUsers[0]
}

// UserForRole returns the demo user holding the given role, or false if the
// role is unknown.
func UserForRole(role string) (models.User, bool) {
	for _, u := range demoUsers {
		if u.Role == role {
			return u, true
		}
	}
	return models.User{}, false
}

// DemoUsers returns all seeded demo users.
func DemoUsers() []models.User {
	return append([]models.User{}, demoUsers...)
}
