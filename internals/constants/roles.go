package constants

import "fmt"

// Role yang dikenal sistem
const (
	RoleAdmin = "admin"
	RoleSC    = "sc" // subject coordinator
	RoleTutor = "tutor"
)

// Status user
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess       = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyCoordinatorsCanAccess = "❌ Hanya admin atau subject coordinator yang boleh mengakses fitur %s."
	ErrOnlyStaffCanAccess        = "❌ Hanya admin, subject coordinator, atau tutor yang boleh mengakses fitur %s."
)

// Helper untuk menghasilkan pesan error dinamis
func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorCoordinator(feature string) string {
	return fmt.Sprintf(ErrOnlyCoordinatorsCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleSC,
		RoleTutor,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	CoordinatorAndAbove = []string{
		RoleSC,
		RoleAdmin,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}
