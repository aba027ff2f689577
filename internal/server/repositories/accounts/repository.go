// Package accounts declares the storage contract for farmer accounts:
// credentials in registration_details and the optional profile in
// registration.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/farmportal/internal/server/models"
)

// Repository defines persistence operations for farmer accounts.
type Repository interface {
	// Create inserts the credentials row. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, account *models.Account) error

	// CreateProfile inserts the profile row for username. A taken farmer id
	// yields common.ErrorAlreadyExists.
	CreateProfile(ctx context.Context, username string, profile *models.FarmerProfile) error

	// GetByUsername returns the account with its profile, if any, or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
}
