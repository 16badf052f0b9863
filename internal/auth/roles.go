package auth

// Role names, highest privilege first.
const (
	RoleSuperuser = "superuser"
	RoleManager   = "manager"
	RoleAdmin     = "admin"
	RoleUser      = "user"
)

var roleLevels = map[string]int{
	RoleSuperuser: 4,
	RoleManager:   3,
	RoleAdmin:     2,
	RoleUser:      1,
}

// RoleLevel returns the numeric privilege level for a role, 0 if unknown.
func RoleLevel(role string) int {
	return roleLevels[role]
}

// IsElevated reports whether the role sees all records rather than only
// its own.
func IsElevated(role string) bool {
	return RoleLevel(role) >= roleLevels[RoleAdmin]
}

// CanManageUsers reports whether the role may approve registrations,
// change roles and reset passwords.
func CanManageUsers(role string) bool {
	return RoleLevel(role) >= roleLevels[RoleAdmin]
}

// CanGrant reports whether actorRole may assign targetRole to another
// account. Nobody grants a role above their own.
func CanGrant(actorRole, targetRole string) bool {
	al, tl := RoleLevel(actorRole), RoleLevel(targetRole)
	return al > 0 && tl > 0 && tl <= al
}
