package httpadapter

import (
	"net/http"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

func (rt *Router) adminOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := rt.admin.Overview(r.Context(), userFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (rt *Router) adminUsers(w http.ResponseWriter, r *http.Request) {
	limit, skip := pagination(r)
	query := r.URL.Query().Get("query")

	users, total, err := rt.admin.Users(r.Context(), userFromContext(r.Context()), query, limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": users, "total": total})
}

func (rt *Router) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch domain.AdminUserPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	updated, err := rt.admin.UpdateUser(r.Context(), userFromContext(r.Context()), r.PathValue("user_id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (rt *Router) adminAuditTrail(w http.ResponseWriter, r *http.Request) {
	limit, _ := pagination(r)

	entries, err := rt.admin.AuditTrail(r.Context(), userFromContext(r.Context()), r.PathValue("user_id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (rt *Router) adminExport(w http.ResponseWriter, r *http.Request) {
	workbook, err := rt.admin.Export(r.Context(), userFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	filename := "nexodify_backoffice_" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}
