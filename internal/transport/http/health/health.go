package health

import (
	"context"
	"net/http"
	"time"

	"github.com/you-humble/btp-quote/platform/logger"
)

// Check probes one backing dependency.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Handler answers SERVING when every check passes within timeout and
// NOT_SERVING with 503 otherwise.
func Handler(timeout time.Duration, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		status, body := http.StatusOK, "SERVING"
		for _, c := range checks {
			if err := c.Probe(ctx); err != nil {
				logger.Warn(ctx, "health check failed", logger.String("check", c.Name), logger.ErrorF(err))
				status, body = http.StatusServiceUnavailable, "NOT_SERVING"
				break
			}
		}

		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			logger.Error(r.Context(), "health check", logger.ErrorF(err))
		}
	}
}
