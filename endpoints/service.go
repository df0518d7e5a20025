package endpoints

import (
	"net/http"

	"github.com/haneulab/goal-report-service/services"
)

// ServiceHandler provides a status report for health checks.
func ServiceHandler(serviceName, version string, metrics *services.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"service": serviceName,
			"version": version,
			"status":  "OK",
			"metrics": metrics.Snapshot(),
		})
	}
}
