package httpadapter

import (
	"net/http"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrForbidden):
		return http.StatusForbidden
	case domain.IsKind(err, domain.ErrQuotaExceeded):
		return http.StatusForbidden
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorPayload keeps internal error chains out of responses. Quota
// rejections carry the bilingual upgrade hint the frontend renders.
func errorPayload(err error) map[string]string {
	if domain.IsKind(err, domain.ErrQuotaExceeded) {
		return map[string]string{
			"error":      "QUOTA_EXCEEDED",
			"message_it": "Quota esaurita. Aggiorna il tuo piano per continuare.",
			"message_en": "Quota exhausted. Upgrade your plan to continue.",
		}
	}

	switch mapErrorToHTTPStatus(err) {
	case http.StatusBadRequest:
		return map[string]string{"error": err.Error()}
	case http.StatusUnauthorized:
		return map[string]string{"error": "authentication required"}
	case http.StatusForbidden:
		return map[string]string{"error": "forbidden"}
	case http.StatusNotFound:
		return map[string]string{"error": "not found"}
	case http.StatusServiceUnavailable:
		return map[string]string{"error": "temporarily unavailable, retry shortly"}
	default:
		return map[string]string{"error": "internal error"}
	}
}
