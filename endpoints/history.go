package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/haneulab/goal-report-service/internal/history"
	"github.com/haneulab/goal-report-service/services"
	"github.com/haneulab/goal-report-service/types"
)

// RecordHistoryRequest is the record-history payload.
type RecordHistoryRequest struct {
	Content string `json:"content"`
}

// HistoryHandler routes daily-history requests: POST records, GET lists.
func HistoryHandler(log *history.Log, metrics *services.Metrics, logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			recordHistory(log, metrics, logger, w, r)
		case http.MethodGet:
			listHistory(log, metrics, logger, w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func recordHistory(log *history.Log, metrics *services.Metrics, logger hclog.Logger, w http.ResponseWriter, r *http.Request) {
	var req RecordHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	overwrote, err := log.Record(r.Context(), req.Content)
	if err != nil {
		logger.Error("failed to record daily history", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "❌ failed to record daily history: " + err.Error(),
		})
		return
	}

	metrics.MarkHistoryWrite()
	message := "✅ daily history recorded"
	if overwrote {
		message = "✅ daily history overwritten for today"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func listHistory(log *history.Log, metrics *services.Metrics, logger hclog.Logger, w http.ResponseWriter, r *http.Request) {
	entries, err := log.List(r.Context())
	if err != nil {
		logger.Error("failed to read daily history", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.MarkHistoryRead()
	if entries == nil {
		entries = []types.DailyHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
