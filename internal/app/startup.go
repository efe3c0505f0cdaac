package app

import (
	"context"
	"time"
)

// startupCheckTimeout bounds the connectivity check run before serving.
const startupCheckTimeout = 10 * time.Second

// VerifyIntegrations pings every registered integration and logs the ones
// that are unreachable. Failures are not fatal: TABLES skips unreachable
// integrations at query time.
func (a *App) VerifyIntegrations(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
	defer cancel()

	statuses, err := a.Catalog.CheckIntegrations(ctx)
	if err != nil {
		a.logger.Warn("integration check failed", "error", err)
		return
	}
	var down int
	for _, st := range statuses {
		if !st.OK {
			down++
		}
	}
	a.logger.Info("integrations checked", "total", len(statuses), "unreachable", down)
}
