package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/farmportal/internal/dbx"
	"github.com/dmitrijs2005/farmportal/internal/server/migrations"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/officials"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/schemes"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/sessions"
)

var gooseUpContext = goose.UpContext

type PostgresRepositoryManager struct {
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Officials(db dbx.DBTX) officials.Repository {
	return officials.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Schemes(db dbx.DBTX) schemes.Repository {
	return schemes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
