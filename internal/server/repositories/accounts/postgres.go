package accounts

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

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) error {
	query :=
		`INSERT INTO registration_details (username, password)
		 VALUES ($1, $2)
		 `

	_, err := r.db.ExecContext(ctx, query, account.Username, account.PasswordHash)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, username string, p *models.FarmerProfile) error {
	query :=
		`INSERT INTO registration (id, username, name, dob, gender, address, district)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query, p.ID, username, p.Name, p.DOB, p.Gender, p.Address, p.District)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT d.username, d.password, r.id, r.name, r.dob, r.gender, r.address, r.district
		 FROM registration_details d
		 LEFT JOIN registration r ON r.username = d.username
		 WHERE d.username = $1
		 `

	var (
		account                              models.Account
		id                                   sql.NullInt64
		name, dob, gender, address, district sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&account.Username, &account.PasswordHash, &id, &name, &dob, &gender, &address, &district)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if id.Valid {
		account.Profile = &models.FarmerProfile{
			ID:       id.Int64,
			Name:     name.String,
			DOB:      dob.String,
			Gender:   gender.String,
			Address:  address.String,
			District: district.String,
		}
	}

	return &account, nil
}
