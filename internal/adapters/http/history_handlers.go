package httpadapter

import (
	"net/http"
	"strconv"
)

func pagination(r *http.Request) (limit, skip int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	return limit, skip
}

func (rt *Router) historyAnalyses(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	limit, skip := pagination(r)

	items, total, err := rt.history.Analyses(r.Context(), user, limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": items, "total": total, "limit": limit, "skip": skip})
}

func (rt *Router) historyImages(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	limit, skip := pagination(r)

	items, total, err := rt.history.ImageScans(r.Context(), user, limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"forensics": items, "total": total, "limit": limit, "skip": skip})
}

func (rt *Router) historyAssistant(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	limit, skip := pagination(r)

	items, total, err := rt.history.AssistantExchanges(r.Context(), user, limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": items, "total": total, "limit": limit, "skip": skip})
}

func (rt *Router) dashboardStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	stats, err := rt.dashboard.Stats(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
