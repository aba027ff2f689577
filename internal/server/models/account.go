// Package models defines server-side data models persisted in the database.
package models

import "github.com/dmitrijs2005/farmportal/internal/common"

// Account is a farmer login. PasswordHash holds a bcrypt hash, or
// common.OAuthPasswordSentinel for accounts created via Google sign-in.
// Profile is nil until the farmer registers profile details.
type Account struct {
	Username     string
	PasswordHash string
	Profile      *FarmerProfile
}

// External reports whether the account was created by an OAuth provider
// and therefore cannot authenticate with a local password.
func (a *Account) External() bool {
	return a.PasswordHash == common.OAuthPasswordSentinel
}

// FarmerProfile is the optional profile row keyed by the farmer id that
// scheme applications reference as farm_id.
type FarmerProfile struct {
	ID       int64
	Name     string
	DOB      string
	Gender   string
	Address  string
	District string
}
