package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // user, admin
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries administrative privilege.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Actor identifies who performs an operation, as decoded from the token.
type Actor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Capabilities the actor holds with respect to a reservation.
type Capability struct {
	Owner bool
	Admin bool
}

// CapabilityFor computes the actor's capability set for a reservation owner.
func (a Actor) CapabilityFor(ownerID int64) Capability {
	return Capability{
		Owner: a.ID == ownerID,
		Admin: a.Role == RoleAdmin,
	}
}
