// Package jobs holds the portal's periodic background work.
package jobs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/farmportal/internal/logging"
	"github.com/dmitrijs2005/farmportal/internal/server/metrics"
)

const tickTimeout = 10 * time.Second

// SessionPurger deletes expired sessions and reports how many went.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// RunSessionSweeper purges expired sessions every interval until ctx is done.
func RunSessionSweeper(ctx context.Context, interval time.Duration, p SessionPurger, l logging.Logger) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	l = l.With("module", "session_sweeper")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, tickTimeout)
			n, err := p.PurgeExpiredSessions(tickCtx)
			cancel()
			if err != nil {
				l.Error(ctx, "session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				metrics.SessionsPurged.Add(float64(n))
				l.Info(ctx, "expired sessions purged", "count", n)
			}
		}
	}
}
