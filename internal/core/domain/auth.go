package domain

import "time"

type APIKey struct {
	TokenHash string
	Name      string
	UserID    string
	UserEmail string
	Active    bool
	CreatedAt time.Time
}

func (k APIKey) User() UserContext {
	return UserContext{UserID: k.UserID, Email: k.UserEmail}
}

// UserContext identifies the caller of a mutation. It is derived per request
// and passed along, never stored by itself.
type UserContext struct {
	UserID string
	Email  string
}

func (u UserContext) Authenticated() bool {
	return u.UserID != "" && u.Email != ""
}
