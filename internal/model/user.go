package model

import "time"

// User represents an account in the `users` table.  Movies and news items
// reference users as their owner but never modify them; only the user
// directory (register/authenticate) writes this table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Login        – unique login, exposed in owner references.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – ROLE_USER or ROLE_ADMIN.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Login        string    // users.login
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// Role names carried in access tokens.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Equal reports whether u and o denote the same persisted user.
func (u *User) Equal(o *User) bool {
	if u == nil || o == nil {
		return false
	}
	return u.ID != 0 && u.ID == o.ID
}
