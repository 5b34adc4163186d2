package models

import "time"

// User is an account known to the identity service. PasswordHash is empty for
// accounts created through federated sign-in.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash []byte
}

// Session is a signed-in instance of a user. Sessions are the revocation
// anchor: sign-out deletes the session and the bearer token dies with it.
type Session struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Email             string    `json:"email"`
	DeviceDisplayName string    `json:"deviceDisplayName,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
