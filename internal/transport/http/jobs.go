package http

import (
	"context"
	"net/http"

	"github.com/HexHunters/Tickr-sub001/internal/app"
)

// CompletionRunner triggers one sweep over ended published events.
type CompletionRunner interface {
	Run(ctx context.Context) (app.CompletionReport, error)
}

// HandleCompleteEvents serves POST /jobs/complete-events for manual
// out-of-schedule recovery runs.
func HandleCompleteEvents(svc CompletionRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		report, err := svc.Run(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
