package officials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/dbx"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, o *models.Official) error {
	query :=
		`INSERT INTO govt_registration (emp_id, username, password, dob, joined_date, profession, gender)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		o.EmpID, o.Username, o.PasswordHash, o.DOB, o.JoinedDate, o.Profession, o.Gender)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Official, error) {
	query :=
		`SELECT emp_id, username, password, dob, joined_date, profession, gender
		 FROM govt_registration
		 WHERE username = $1
		 `

	o := &models.Official{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&o.EmpID, &o.Username, &o.PasswordHash, &o.DOB, &o.JoinedDate, &o.Profession, &o.Gender)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return o, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, empID, username string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM govt_registration WHERE emp_id = $1 OR username = $2
		 )
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, empID, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
