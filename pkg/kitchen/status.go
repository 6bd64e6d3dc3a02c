package kitchen

import (
	"context"
	"errors"

	apisystem "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/system"
	"github.com/mediacloud/sous-chef-kitchen/pkg/prefect"
)

// SystemStatus reports readiness of everything between the caller and
// a cooking run: this API, the engine, the work pool, and its workers.
func (c *Chef) SystemStatus(ctx context.Context) apisystem.Status {
	// the request reached us, so the first two hold by construction
	status := apisystem.Status{
		ConnectionReady: true,
		KitchenAPIReady: true,
		MaxUserFlows:    c.maxUserFlows,
	}

	if err := c.engine.Hello(ctx); err != nil {
		return status
	}
	status.PrefectReady = true

	pool, err := c.engine.GetWorkPool(ctx, c.workPool)
	if err != nil {
		if !errors.Is(err, prefect.ErrNotFound) {
			return status
		}
		// pool missing: not ready, but workers are still worth reporting
	} else {
		status.WorkPoolReady = pool.Status == prefect.WorkPoolReady
	}

	workers, err := c.engine.FindWorkers(ctx, c.workPool)
	if err != nil {
		return status
	}
	for _, w := range workers {
		if w.Status == prefect.WorkerOnline {
			status.WorkersReady = true
			break
		}
	}
	return status
}
