package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, s *models.Session) error {
	query :=
		`INSERT INTO sessions (id, kind, username, created_at, expires_at, validated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query, s.ID, string(s.Kind), s.Username, s.CreatedAt, s.ExpiresAt, s.ValidatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	query :=
		`SELECT id, kind, username, created_at, expires_at, validated_at, revoked
		 FROM sessions
		 WHERE id = $1
		 `

	var (
		s    models.Session
		kind string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &kind, &s.Username, &s.CreatedAt, &s.ExpiresAt, &s.ValidatedAt, &s.Revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.Kind = models.PrincipalKind(kind)

	return &s, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, id string, at time.Time) error {
	query :=
		`UPDATE sessions SET validated_at = $1
		 WHERE id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	query :=
		`UPDATE sessions SET revoked = true
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query :=
		`DELETE FROM sessions
		 WHERE expires_at < $1
		 `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
