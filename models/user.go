// Package models defines the records held by the entity and session stores.
// File: models/user.go
package models

// ----------------------- user model -----------------------

// User is an account that can sign in. Password holds the stored credential
// (hex digest and salt joined by a dot, or legacy plain text) and is never serialised.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	IsAdmin  bool   `json:"isAdmin"`
}

// NewUser is the input to CreateUser. A nil IsAdmin is stored as false.
type NewUser struct {
	Username string
	Password string
	IsAdmin  *bool
}

// Build returns the record a store persists for n under id.
func (n NewUser) Build(id int64) User {
	return User{
		ID:       id,
		Username: n.Username,
		Password: n.Password,
		IsAdmin:  BoolValue(n.IsAdmin),
	}
}

// BoolValue dereferences b, treating nil as false.
func BoolValue(b *bool) bool {
	return b != nil && *b
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
