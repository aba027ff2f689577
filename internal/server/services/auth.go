// Package services contains server-side business logic. This file implements
// AuthService, which registers and authenticates farmers and officials,
// links Google sign-ins to accounts, and manages login sessions.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/cryptox"
	"github.com/dmitrijs2005/farmportal/internal/dbx"
	"github.com/dmitrijs2005/farmportal/internal/server/auth"
	"github.com/dmitrijs2005/farmportal/internal/server/config"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
	"github.com/dmitrijs2005/farmportal/internal/server/oauth"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/repomanager"
)

// RegisterInput is a local farmer sign-up. Profile is optional.
type RegisterInput struct {
	Username string
	Password string
	Profile  *models.FarmerProfile
}

// RegisterOfficialInput is a government official sign-up.
type RegisterOfficialInput struct {
	EmpID      string
	Username   string
	Password   string
	DOB        string
	JoinedDate string
	Profession string
	Gender     string
}

// AuthService provides identity operations:
// - Register / Login for farmers
// - RegisterOfficial / LoginOfficial for government officials
// - ResolveOAuth to find or create the account behind a Google sign-in
// - StartSession / ResolveSession / EndSession for cookie sessions
type AuthService struct {
	db                 *sql.DB
	repomanager        repomanager.RepositoryManager
	sessionSecret      []byte
	sessionTTL         time.Duration
	revalidateInterval time.Duration
	now                func() time.Time
	newSessionID       func() string
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                 db,
		repomanager:        m,
		sessionSecret:      []byte(cfg.SessionSecret),
		sessionTTL:         cfg.SessionTTL,
		revalidateInterval: cfg.SessionRevalidateInterval,
		now:                time.Now,
		newSessionID:       uuid.NewString,
	}
}

// Register creates a farmer account, and its profile when one is given, in a
// single transaction. A taken username yields common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, common.ErrorValidation
	}

	hash, err := cryptox.HashPassword([]byte(in.Password))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	account := &models.Account{Username: in.Username, PasswordHash: hash, Profile: in.Profile}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		_, err := repo.GetByUsername(ctx, in.Username)
		switch {
		case err == nil:
			return common.ErrorAlreadyExists
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		if err := repo.Create(ctx, account); err != nil {
			return err
		}
		if in.Profile != nil {
			err := repo.CreateProfile(ctx, in.Username, in.Profile)
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrorFarmerIDTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorFarmerIDTaken) {
			return nil, common.ErrorFarmerIDTaken
		}
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("%w: error creating account: %v", common.ErrorInternal, err)
	}

	return account, nil
}

// Login verifies a farmer's username and password. Unknown users and wrong
// passwords both yield common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Account, error) {
	if username == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	account, err := s.repomanager.Accounts(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if account.External() {
		return nil, common.ErrorUnauthorized
	}
	if err := cryptox.CheckPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return account, nil
}

// RegisterOfficial creates a government official. A taken employee id or
// username yields common.ErrorAlreadyExists.
func (s *AuthService) RegisterOfficial(ctx context.Context, in RegisterOfficialInput) (*models.Official, error) {
	if strings.TrimSpace(in.EmpID) == "" || strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, common.ErrorValidation
	}

	hash, err := cryptox.HashPassword([]byte(in.Password))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	official := &models.Official{
		EmpID:        in.EmpID,
		Username:     in.Username,
		PasswordHash: hash,
		DOB:          in.DOB,
		JoinedDate:   in.JoinedDate,
		Profession:   in.Profession,
		Gender:       in.Gender,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Officials(tx)

		exists, err := repo.Exists(ctx, in.EmpID, in.Username)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrorAlreadyExists
		}
		return repo.Create(ctx, official)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("%w: error creating official: %v", common.ErrorInternal, err)
	}

	return official, nil
}

// LoginOfficial verifies an official's username and password.
func (s *AuthService) LoginOfficial(ctx context.Context, username, password string) (*models.Official, error) {
	if username == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	official, err := s.repomanager.Officials(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := cryptox.CheckPassword(official.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return official, nil
}

// ResolveOAuth returns the account whose username is the profile's email,
// creating it with the OAuth password sentinel on first sign-in. Every
// failure is reported as common.ErrorUnauthorized.
func (s *AuthService) ResolveOAuth(ctx context.Context, profile *oauth.Profile) (*models.Account, error) {
	if profile == nil || strings.TrimSpace(profile.Email) == "" {
		return nil, common.ErrorUnauthorized
	}
	username := profile.Email

	var account *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		a, err := repo.GetByUsername(ctx, username)
		if err == nil {
			account = a
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		a = &models.Account{Username: username, PasswordHash: common.OAuthPasswordSentinel}
		if err := repo.Create(ctx, a); err != nil {
			return err
		}
		account = a
		return nil
	})

	// A concurrent first sign-in won the insert; the row is there now.
	if errors.Is(err, common.ErrorAlreadyExists) {
		account, err = s.repomanager.Accounts(s.db).GetByUsername(ctx, username)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: oauth account resolution: %v", common.ErrorUnauthorized, err)
	}

	return account, nil
}

// StartSession records a new session for the principal and returns the
// signed cookie value.
func (s *AuthService) StartSession(ctx context.Context, kind models.PrincipalKind, username string) (string, *models.Session, error) {
	now := s.now()
	sess := &models.Session{
		ID:          s.newSessionID(),
		Kind:        kind,
		Username:    username,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.sessionTTL),
		ValidatedAt: now,
	}

	if err := s.repomanager.Sessions(s.db).Create(ctx, sess); err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	token, err := auth.GenerateToken(sess.ID, s.sessionSecret, s.sessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return token, sess, nil
}

// ResolveSession verifies a cookie value and returns the live session.
//
// Revoked, expired and unknown sessions yield common.ErrSessionExpired. The
// principal is re-checked against the credential store when the session was
// last validated longer ago than the revalidation interval, or always when
// force is set; a principal that no longer exists revokes the session.
func (s *AuthService) ResolveSession(ctx context.Context, token string, force bool) (*models.Session, error) {
	id, err := auth.GetSessionIDFromToken(token, s.sessionSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, common.ErrInvalidToken
	}

	repo := s.repomanager.Sessions(s.db)
	sess, err := repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	now := s.now()
	if sess.Revoked || sess.Expired(now) {
		return nil, common.ErrSessionExpired
	}

	if !force && !sess.Stale(now, s.revalidateInterval) {
		return sess, nil
	}

	if err := s.principalExists(ctx, sess); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if rerr := repo.Revoke(ctx, sess.ID); rerr != nil {
				return nil, fmt.Errorf("%w: %v", common.ErrorInternal, rerr)
			}
			return nil, common.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := repo.Touch(ctx, sess.ID, now); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	sess.ValidatedAt = now

	return sess, nil
}

// EndSession revokes the session behind token. Tokens that no longer verify
// have nothing to revoke.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	id, err := auth.GetSessionIDFromToken(token, s.sessionSecret)
	if err != nil {
		return nil
	}

	if err := s.repomanager.Sessions(s.db).Revoke(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx, s.now())
}

func (s *AuthService) principalExists(ctx context.Context, sess *models.Session) error {
	switch sess.Kind {
	case models.PrincipalFarmer:
		_, err := s.repomanager.Accounts(s.db).GetByUsername(ctx, sess.Username)
		return err
	case models.PrincipalOfficial:
		_, err := s.repomanager.Officials(s.db).GetByUsername(ctx, sess.Username)
		return err
	default:
		return common.ErrorNotFound
	}
}
