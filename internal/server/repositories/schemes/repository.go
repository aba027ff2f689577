// Package schemes declares the storage contract for scheme applications
// (table new_entry).
package schemes

import (
	"context"

	"github.com/dmitrijs2005/farmportal/internal/server/models"
)

type Repository interface {
	// Create inserts a pending application and fills in its ID.
	Create(ctx context.Context, app *models.SchemeApplication) (*models.SchemeApplication, error)

	// Get returns one application joined with the farmer name, or
	// common.ErrorNotFound.
	Get(ctx context.Context, id int64) (*models.SchemeApplication, error)

	// ListAll returns every application ordered by id.
	ListAll(ctx context.Context) ([]*models.SchemeApplication, error)

	// ListByFarmID returns the applications whose farm_id equals farmID.
	ListByFarmID(ctx context.Context, farmID int64) ([]*models.SchemeApplication, error)

	// SetApproved overwrites the approval flag. Zero affected rows yields
	// common.ErrorNotFound.
	SetApproved(ctx context.Context, id int64, approved bool) error
}
