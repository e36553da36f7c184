package domain

// Role is the capability level of a session. There are exactly two: every
// identity resolves to one of them, with no intermediate role.
type Role string

const (
	// RoleGuest is the anonymous, read-only role. Requests without a token
	// (or with an anonymous session token) resolve to it.
	RoleGuest Role = "guest"

	// RoleCaptain is the authenticated, full read-write role.
	RoleCaptain Role = "captain"
)

// CanMutate reports whether the role is allowed to perform writes.
// Services check this before any repository call.
func (r Role) CanMutate() bool { return r == RoleCaptain }
