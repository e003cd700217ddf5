package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/bookwormhq/bookworm-backend/api/responses"
	pkgerrors "github.com/bookwormhq/bookworm-backend/pkg/errors"
	"github.com/bookwormhq/bookworm-backend/pkg/logger"
)

// Pinger is the readiness contract satisfied by the db, redis, and pubsub clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes each wired dependency. Nil pingers are skipped so the
// endpoint works in deployments that omit optional infrastructure.
func HealthReady(logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]string{}
		for name, pinger := range checks {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				status[name] = "down"
				err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").WithDetails(status)
				responses.WriteError(ctx, logg, w, err)
				return
			}
			status[name] = "up"
		}
		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
