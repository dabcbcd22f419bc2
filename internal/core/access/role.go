package access

import "strings"

// Role is an ordered administrative privilege level, independent of tier
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// Rank returns the role's position; unknown roles are RankUnknown
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperuser:
		return 3
	default:
		return RankUnknown
	}
}

// Known reports whether r is a defined role
func (r Role) Known() bool { return r.Rank() != RankUnknown }

// HasRoleAccess reports whether actual meets required, failing closed on unknown values
func HasRoleAccess(actual, required Role) bool {
	need := required.Rank()
	if need == RankUnknown {
		need = RankUnsatisfiable
	}
	return actual.Rank() >= need
}

// ParseRole normalizes s; an empty value is RoleUser
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleUser, true
	}
	r := Role(s)
	return r, r.Known()
}
