package dto

import "time"

// User is the narrowed projection of an owning user: identifier and
// login only.  Inbound, only the identifier is read.
type User struct {
	ID    *uint64 `json:"id,omitempty"`
	Login string  `json:"login,omitempty"`
}

// Registration is the body of POST /api/register.
type Registration struct {
	Login    string `json:"login" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=4,max=100"`
}

// Credentials is the body of POST /api/authenticate.
type Credentials struct {
	Login    string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Account is the response of GET /api/account.
type Account struct {
	ID          uint64    `json:"id"`
	Login       string    `json:"login"`
	Email       string    `json:"email"`
	Authorities []string  `json:"authorities"`
	CreatedAt   time.Time `json:"createdDate"`
}
