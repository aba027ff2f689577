package models

import "time"

// PrincipalKind tells which credential table a session's username lives in.
type PrincipalKind string

const (
	PrincipalFarmer   PrincipalKind = "farmer"
	PrincipalOfficial PrincipalKind = "official"
)

// Session is the store-backed record behind an opaque session cookie.
type Session struct {
	ID          string
	Kind        PrincipalKind
	Username    string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	ValidatedAt time.Time
	Revoked     bool
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Stale reports whether the principal should be re-checked at now.
func (s *Session) Stale(now time.Time, every time.Duration) bool {
	return now.Sub(s.ValidatedAt) >= every
}
