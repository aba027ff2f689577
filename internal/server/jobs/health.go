package jobs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/farmportal/internal/logging"
	"github.com/dmitrijs2005/farmportal/internal/server/metrics"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// RunHealthMonitor pings the database once immediately and then every
// interval, passing the outcome to each report func.
func RunHealthMonitor(ctx context.Context, interval time.Duration, db Pinger, l logging.Logger, report ...func(ok bool)) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	l = l.With("module", "health_monitor")

	var last *bool
	probe := func() {
		tickCtx, cancel := context.WithTimeout(ctx, tickTimeout)
		err := db.PingContext(tickCtx)
		cancel()

		ok := err == nil
		if ok {
			metrics.DatabaseUp.Set(1)
		} else {
			metrics.DatabaseUp.Set(0)
		}

		// log transitions only
		if last == nil || *last != ok {
			if ok {
				l.Info(ctx, "database reachable")
			} else {
				l.Warn(ctx, "database unreachable", "error", err)
			}
			last = &ok
		}

		for _, r := range report {
			r(ok)
		}
	}

	probe()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
