package endpoints

import (
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/haneulab/goal-report-service/internal/summary"
	"github.com/haneulab/goal-report-service/services"
)

// TodayReportHandler builds and returns today's Markdown report.
func TodayReportHandler(reporter *summary.DailyReporter, metrics *services.Metrics, logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		content, err := reporter.BuildToday(r.Context())
		if err != nil {
			logger.Error("failed to build today report", "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		metrics.MarkReportBuilt()
		writeJSON(w, http.StatusOK, map[string]string{"content": content})
	}
}
