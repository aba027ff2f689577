package schemes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/dbx"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
)

// selectWithFarmer is shared by every read; the profile join is optional
// because farm_id is not a foreign key.
const selectWithFarmer = `SELECT e.id, e.farm_id, e.date_applied::text, e.name, e.approved, COALESCE(r.name, '')
		 FROM new_entry e
		 LEFT JOIN registration r ON r.id = e.farm_id
		 `

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, app *models.SchemeApplication) (*models.SchemeApplication, error) {
	query :=
		`INSERT INTO new_entry (farm_id, date_applied, name)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, app.FarmID, app.DateApplied, app.Name).Scan(&app.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	app.Approved = nil
	return app, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.SchemeApplication, error) {
	query := selectWithFarmer + `WHERE e.id = $1
		 `

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return app, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.SchemeApplication, error) {
	query := selectWithFarmer + `ORDER BY e.id
		 `
	return r.list(ctx, query)
}

func (r *PostgresRepository) ListByFarmID(ctx context.Context, farmID int64) ([]*models.SchemeApplication, error) {
	query := selectWithFarmer + `WHERE e.farm_id = $1
		 ORDER BY e.id
		 `
	return r.list(ctx, query, farmID)
}

func (r *PostgresRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	query :=
		`UPDATE new_entry SET approved = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, approved, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.SchemeApplication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.SchemeApplication, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(s scanner) (*models.SchemeApplication, error) {
	var (
		app      models.SchemeApplication
		approved sql.NullBool
	)
	if err := s.Scan(&app.ID, &app.FarmID, &app.DateApplied, &app.Name, &approved, &app.FarmerName); err != nil {
		return nil, err
	}
	if approved.Valid {
		v := approved.Bool
		app.Approved = &v
	}
	return &app, nil
}
