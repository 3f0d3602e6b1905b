package domain

import (
	"time"
)

// User is the identity record backing a principal. Email is the primary key.
// PasswordHash is nil for accounts created through an external identity
// provider; those accounts cannot log in with a password until one is set.
type User struct {
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Principal is the authenticated identity a request acts as. A nil *Principal
// means the request is anonymous.
type Principal struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
