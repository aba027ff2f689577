// Package officials declares the storage contract for government officials.
package officials

import (
	"context"

	"github.com/dmitrijs2005/farmportal/internal/server/models"
)

type Repository interface {
	// Create inserts an official. A taken emp_id or username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, official *models.Official) error

	// GetByUsername returns the official or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.Official, error)

	// Exists reports whether empID or username is already registered.
	Exists(ctx context.Context, empID, username string) (bool, error)
}
