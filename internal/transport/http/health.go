package httptransport

import (
	"context"
	"net/http"

	"securevote/pkg/platform/httputil"
	"securevote/pkg/requestcontext"
)

// HealthCheck probes one backing service.
type HealthCheck func(ctx context.Context) error

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	components := make(map[string]string, len(h.healthChecks))
	for name, check := range h.healthChecks {
		if err := check(r.Context()); err != nil {
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	body := map[string]any{
		"status": "ok",
		"time":   requestcontext.Now(r.Context()),
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(components) > 0 {
		body["components"] = components
	}
	httputil.WriteJSON(w, status, body)
}
