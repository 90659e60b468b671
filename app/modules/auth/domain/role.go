package authdomain

// Role represents a caller's role for authorization purposes.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleUploader Role = "uploader"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleUploader, RoleAdmin:
		return true
	default:
		return false
	}
}

// Allows reports whether r grants everything required grants.
// Admin > uploader > viewer.
func (r Role) Allows(required Role) bool {
	return r.rank() >= required.rank() && r.IsValid()
}

func (r Role) rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleUploader:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
