package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/farmportal/internal/dbx"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/officials"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/schemes"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/sessions"
)

// RepositoryManager hands out repositories bound to a database handle or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Officials(db dbx.DBTX) officials.Repository
	Schemes(db dbx.DBTX) schemes.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
