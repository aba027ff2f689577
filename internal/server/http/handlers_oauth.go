package http

import (
	"net/http"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/server/metrics"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
)

func (s *Server) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := common.MakeRandHexString(16)
	if err != nil {
		s.logger.Error(ctx, "error generating oauth state", "error", err)
		redirect(w, r, s.failureURL)
		return
	}
	if err := s.states.Save(ctx, state, s.stateTTL); err != nil {
		s.logger.Error(ctx, "error saving oauth state", "error", err)
		redirect(w, r, s.failureURL)
		return
	}

	setStateCookie(w, r, state, int(s.stateTTL.Seconds()))
	redirect(w, r, s.provider.AuthCodeURL(state))
}

// handleGoogleCallback finishes the sign-in. Every failure ends on the
// configured failure page.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	fail := func(reason string, err error) {
		metrics.AuthAttempts.WithLabelValues("google", "denied").Inc()
		s.logger.Warn(ctx, "google sign-in failed", "reason", reason, "error", err)
		redirect(w, r, s.failureURL)
	}

	if e := q.Get("error"); e != "" {
		fail("provider error: "+e, nil)
		return
	}

	state, code := q.Get("state"), q.Get("code")
	if state == "" || code == "" {
		fail("missing state or code", nil)
		return
	}

	c, err := r.Cookie(common.OAuthStateCookieName)
	if err != nil || c.Value != state {
		fail("state cookie mismatch", err)
		return
	}
	setStateCookie(w, r, "", -1)

	ok, err := s.states.Consume(ctx, state)
	if err != nil || !ok {
		fail("unknown state", err)
		return
	}

	profile, err := s.provider.Profile(ctx, code)
	if err != nil {
		fail("profile", err)
		return
	}

	acc, err := s.auth.ResolveOAuth(ctx, profile)
	if err != nil {
		fail("account resolution", err)
		return
	}

	token, _, err := s.auth.StartSession(ctx, models.PrincipalFarmer, acc.Username)
	if err != nil {
		fail("session", err)
		return
	}
	s.setSessionCookie(w, r, token)

	metrics.AuthAttempts.WithLabelValues("google", "ok").Inc()
	redirect(w, r, "/welcome")
}

func setStateCookie(w http.ResponseWriter, r *http.Request, state string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.OAuthStateCookieName,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
