package domain

import "time"

// Session carries the backend bearer token obtained at login. It is created
// per request from the session cookie and passed explicitly to every
// operation that talks to the backend.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the session holds a token that has not expired.
// A zero ExpiresAt means the expiry is unknown and the token is trusted.
func (s Session) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		return false
	}

	return true
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
