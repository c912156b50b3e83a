package models

// Role is a user's permission tier. It is immutable once the user is created.
type Role string

const (
	RoleRegular   Role = "REGULAR"
	RoleAdmin     Role = "ADMIN"
	RoleArchitect Role = "ARCHITECT"
)

// Privileged reports whether the role is exempt from member-level limits
// (one card per folder).
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleArchitect
}

// User is a member of a party.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`

	// PartyID scopes the user. The singleton architect belongs to the
	// system party.
	PartyID string `json:"party_id"`

	// PasswordHash is the bcrypt hash of the member's password. Empty for
	// the seeded architect.
	PasswordHash string `json:"-"`

	// AdminCodeHash is the bcrypt hash of the admin credential for admin
	// users, empty otherwise.
	AdminCodeHash string `json:"-"`
}
