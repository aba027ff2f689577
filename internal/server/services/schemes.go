package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/repomanager"
)

// DateLayout is the accepted format of date_applied.
const DateLayout = "2006-01-02"

// SchemeService runs the scheme application workflow: farmers apply,
// officials approve or disapprove.
type SchemeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSchemeService(db *sql.DB, m repomanager.RepositoryManager) *SchemeService {
	return &SchemeService{db: db, repomanager: m}
}

// Apply records a pending application for farmID.
func (s *SchemeService) Apply(ctx context.Context, farmID int64, dateApplied, name string) (*models.SchemeApplication, error) {
	name = strings.TrimSpace(name)
	if farmID <= 0 || name == "" {
		return nil, common.ErrorValidation
	}
	if _, err := time.Parse(DateLayout, dateApplied); err != nil {
		return nil, fmt.Errorf("%w: date_applied: %v", common.ErrorValidation, err)
	}

	app, err := s.repomanager.Schemes(s.db).Create(ctx, &models.SchemeApplication{
		FarmID:      farmID,
		DateApplied: dateApplied,
		Name:        name,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: error creating application: %v", common.ErrorInternal, err)
	}

	return app, nil
}

func (s *SchemeService) Get(ctx context.Context, id int64) (*models.SchemeApplication, error) {
	app, err := s.repomanager.Schemes(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return app, nil
}

func (s *SchemeService) ListAll(ctx context.Context) ([]*models.SchemeApplication, error) {
	apps, err := s.repomanager.Schemes(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return apps, nil
}

func (s *SchemeService) ListByFarmer(ctx context.Context, farmID int64) ([]*models.SchemeApplication, error) {
	apps, err := s.repomanager.Schemes(s.db).ListByFarmID(ctx, farmID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return apps, nil
}

// Transition applies a reviewer decision. The last decision wins; an unknown
// scheme id yields common.ErrorNotFound.
func (s *SchemeService) Transition(ctx context.Context, schemeID int64, action models.SchemeAction) error {
	if !action.Valid() {
		return common.ErrorValidation
	}

	err := s.repomanager.Schemes(s.db).SetApproved(ctx, schemeID, action.Approved())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return nil
}
