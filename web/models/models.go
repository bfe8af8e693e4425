package models

import "time"

// UserSession is the server-side session record referenced by the session
// cookie.
type UserSession struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its lifetime.
func (s *UserSession) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PublicUser is the user shape returned by the auth endpoints, without the
// password hash.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginRequest is the credentials payload for POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
