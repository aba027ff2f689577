// Package sessions declares the storage contract for login sessions.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/farmportal/internal/server/models"
)

// Repository defines operations for issuing, loading and revoking sessions.
type Repository interface {
	// Create stores a new session. ID, Kind, Username and ExpiresAt must be set.
	Create(ctx context.Context, s *models.Session) error

	// Find loads a session by id, or returns common.ErrorNotFound.
	Find(ctx context.Context, id string) (*models.Session, error)

	// Touch records that the session's principal was re-validated at at.
	Touch(ctx context.Context, id string, at time.Time) error

	// Revoke marks a session unusable. Revoking an unknown id is not an error.
	Revoke(ctx context.Context, id string) error

	// DeleteExpired removes sessions that expired before now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
