package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/server/metrics"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
)

// observe logs each request and feeds the request metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type sessionKey struct{}

func sessionFromContext(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(sessionKey{}).(*models.Session)
	return sess
}

// requireOfficial admits requests carrying a live official session and sends
// everyone else to the official login page. With force set the official is
// re-checked against the credential store on every request.
func (s *Server) requireOfficial(force bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(common.SessionCookieName)
			if err != nil || c.Value == "" {
				redirect(w, r, "/login-govt")
				return
			}

			sess, err := s.auth.ResolveSession(r.Context(), c.Value, force)
			if err != nil {
				if errors.Is(err, common.ErrorInternal) {
					s.logger.Error(r.Context(), "session lookup failed", "error", err)
					writeText(w, http.StatusInternalServerError, "Internal server error.")
					return
				}
				clearSessionCookie(w, r)
				redirect(w, r, "/login-govt")
				return
			}
			if sess.Kind != models.PrincipalOfficial {
				redirect(w, r, "/login-govt")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
		})
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
