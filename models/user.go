package models

import "time"

// User is the account attached to a session.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Account is a registered user together with its password hash.
type Account struct {
	User         User   `json:"user"`
	PasswordHash []byte `json:"password_hash"`
}

// Session binds a bearer token to a user.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
