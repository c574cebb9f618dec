package httpadapter

import (
	"net/http"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

func (rt *Router) askAssistant(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req struct {
		Question      string `json:"question"`
		RelatedCaseID string `json:"related_case_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	exchange, err := rt.assistant.Ask(r.Context(), user, req.Question, req.RelatedCaseID)
	if err != nil {
		if domain.IsKind(err, domain.ErrQuotaExceeded) {
			rt.metrics.RecordQuotaDenied(serviceName, "assistant")
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exchange)
}
