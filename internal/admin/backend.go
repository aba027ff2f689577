// Package admin implements the portal's operator CLI: schema migrations,
// provisioning government officials, and reviewing scheme applications from
// the command line.
package admin

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/farmportal/internal/server/config"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/farmportal/internal/server/services"
)

// Backend is what the commands need from the portal's storage.
type Backend interface {
	Migrate(ctx context.Context) error
	RegisterOfficial(ctx context.Context, in services.RegisterOfficialInput) (*models.Official, error)
	// ListSchemes lists one farmer's applications, or all when farmID is 0.
	ListSchemes(ctx context.Context, farmID int64) ([]*models.SchemeApplication, error)
	GetScheme(ctx context.Context, schemeID int64) (*models.SchemeApplication, error)
	Transition(ctx context.Context, schemeID int64, action models.SchemeAction) error
	Close() error
}

// Opener connects a Backend for cfg.
type Opener func(ctx context.Context, cfg *config.Config) (Backend, error)

type postgresBackend struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	auth    *services.AuthService
	schemes *services.SchemeService
}

// OpenPostgres connects to cfg.DatabaseDSN and verifies the connection.
func OpenPostgres(ctx context.Context, cfg *config.Config) (Backend, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	return &postgresBackend{
		db:      db,
		rm:      rm,
		auth:    services.NewAuthService(db, rm, cfg),
		schemes: services.NewSchemeService(db, rm),
	}, nil
}

func (b *postgresBackend) Migrate(ctx context.Context) error {
	return b.rm.RunMigrations(ctx, b.db)
}

func (b *postgresBackend) RegisterOfficial(ctx context.Context, in services.RegisterOfficialInput) (*models.Official, error) {
	return b.auth.RegisterOfficial(ctx, in)
}

func (b *postgresBackend) ListSchemes(ctx context.Context, farmID int64) ([]*models.SchemeApplication, error) {
	if farmID == 0 {
		return b.schemes.ListAll(ctx)
	}
	return b.schemes.ListByFarmer(ctx, farmID)
}

func (b *postgresBackend) GetScheme(ctx context.Context, schemeID int64) (*models.SchemeApplication, error) {
	return b.schemes.Get(ctx, schemeID)
}

func (b *postgresBackend) Transition(ctx context.Context, schemeID int64, action models.SchemeAction) error {
	return b.schemes.Transition(ctx, schemeID, action)
}

func (b *postgresBackend) Close() error {
	return b.db.Close()
}
