package domain

import "time"

// Session is a server-side login session. The client only ever holds a signed
// token referencing ID.
type Session struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Role       Role      `json:"role"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
