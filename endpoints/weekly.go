package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"

	"github.com/haneulab/goal-report-service/internal/lock"
	"github.com/haneulab/goal-report-service/internal/weekly"
	"github.com/haneulab/goal-report-service/services"
)

// WeeklySummaryHandler serves get-or-update-weekly-summary for the week
// selected by the offset path variable (0 current, negative past).
func WeeklySummaryHandler(store *weekly.Store, metrics *services.Metrics, logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		offset, err := strconv.Atoi(mux.Vars(r)["offset"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid week offset")
			return
		}

		content, source, err := store.GetOrCompute(r.Context(), offset)
		if err != nil {
			logger.Error("failed to serve weekly summary", "offset", offset, "error", err)
			status := http.StatusBadGateway
			if errors.Is(err, lock.ErrTimeout) {
				status = http.StatusServiceUnavailable
			}
			writeError(w, status, err.Error())
			return
		}

		metrics.MarkWeeklyServed()
		writeJSON(w, http.StatusOK, map[string]string{
			"content": content,
			"source":  string(source),
		})
	}
}
