package domain

import "time"

// User is the read-only view of an account owned by the external users
// service. Only the fields the auth flow needs are carried here.
type User struct {
	ID           string
	FullName     string
	Email        string
	Mobile       string
	PasswordHash string // bcrypt encoded, stripped before the record leaves the service layer
	CreatedAt    time.Time
}

// Sanitized returns a copy with the password material removed.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
