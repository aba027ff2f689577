// Package http is the portal's web facade: HTML pages, form handlers, the
// Google sign-in flow, health and metrics endpoints.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/farmportal/internal/logging"
	"github.com/dmitrijs2005/farmportal/internal/server/config"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
	"github.com/dmitrijs2005/farmportal/internal/server/oauth"
	"github.com/dmitrijs2005/farmportal/internal/server/oauthstate"
	"github.com/dmitrijs2005/farmportal/internal/server/services"
)

// AuthService is the identity and session API the handlers depend on.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.Account, error)
	RegisterOfficial(ctx context.Context, in services.RegisterOfficialInput) (*models.Official, error)
	LoginOfficial(ctx context.Context, username, password string) (*models.Official, error)
	ResolveOAuth(ctx context.Context, profile *oauth.Profile) (*models.Account, error)
	StartSession(ctx context.Context, kind models.PrincipalKind, username string) (string, *models.Session, error)
	ResolveSession(ctx context.Context, token string, force bool) (*models.Session, error)
	EndSession(ctx context.Context, token string) error
}

// SchemeService is the scheme workflow API the handlers depend on.
type SchemeService interface {
	Apply(ctx context.Context, farmID int64, dateApplied, name string) (*models.SchemeApplication, error)
	ListAll(ctx context.Context) ([]*models.SchemeApplication, error)
	ListByFarmer(ctx context.Context, farmID int64) ([]*models.SchemeApplication, error)
	Transition(ctx context.Context, schemeID int64, action models.SchemeAction) error
}

// Pinger reports database reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	auth       AuthService
	schemes    SchemeService
	provider   oauth.Provider
	states     oauthstate.Store
	db         Pinger
	logger     logging.Logger
	validate   *validator.Validate
	pages      pages
	sessionTTL time.Duration
	stateTTL   time.Duration
	failureURL string
}

func NewServer(cfg *config.Config, a AuthService, s SchemeService, p oauth.Provider, st oauthstate.Store, db Pinger, l logging.Logger) (*Server, error) {
	pg, err := loadPages()
	if err != nil {
		return nil, err
	}

	return &Server{
		auth:       a,
		schemes:    s,
		provider:   p,
		states:     st,
		db:         db,
		logger:     l.With("module", "http_server"),
		validate:   validator.New(),
		pages:      pg,
		sessionTTL: cfg.SessionTTL,
		stateTTL:   cfg.OAuthStateTTL,
		failureURL: cfg.OAuthFailureURL,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	for path, page := range map[string]string{
		"/":              "index",
		"/register":      "register",
		"/login":         "login",
		"/register-govt": "register-govt",
		"/login-govt":    "login-govt",
		"/welcome":       "welcome",
		"/apply-scheme":  "apply-scheme",
	} {
		r.Get(path, s.staticPage(page))
	}

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Post("/register-govt", s.handleRegisterOfficial)
	r.Post("/login-govt", s.handleLoginOfficial)
	r.Post("/logout", s.handleLogout)

	r.Get("/schemes", s.handleFarmerSchemes)
	r.Post("/apply-scheme", s.handleApplyScheme)
	r.With(s.requireOfficial(false)).Get("/govt-schemes", s.handleGovtSchemes)
	r.With(s.requireOfficial(true)).Post("/approve-scheme", s.handleApproveScheme)

	r.Get("/auth/google", s.handleGoogleStart)
	r.Get("/auth/google/callback", s.handleGoogleCallback)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
