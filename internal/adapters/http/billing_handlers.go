package httpadapter

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

func (rt *Router) createCheckout(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req struct {
		PlanID    string `json:"plan_id"`
		OriginURL string `json:"origin_url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.OriginURL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "origin_url is required"})
		return
	}

	session, err := rt.billing.CreateCheckout(r.Context(), user, req.PlanID, req.OriginURL, rt.webhookURL(r))
	if err != nil {
		rt.metrics.RecordCheckoutEvent(serviceName, "create_failed")
		writeError(w, err)
		return
	}

	rt.metrics.RecordCheckoutEvent(serviceName, "created")
	writeJSON(w, http.StatusOK, map[string]string{
		"session_id":   session.SessionID,
		"checkout_url": session.URL,
	})
}

func (rt *Router) checkoutStatus(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	session, err := rt.billing.CheckoutStatus(r.Context(), user, r.PathValue("session_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if session.PaymentStatus == "paid" {
		rt.metrics.RecordCheckoutEvent(serviceName, "paid")
	}
	writeJSON(w, http.StatusOK, session)
}

func (rt *Router) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable payload"})
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := rt.billing.HandleWebhook(r.Context(), payload, signature); err != nil {
		rt.metrics.RecordCheckoutEvent(serviceName, "webhook_rejected")
		writeError(w, err)
		return
	}

	rt.metrics.RecordCheckoutEvent(serviceName, "webhook_applied")
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// webhookURL points the processor back at this deployment.
func (rt *Router) webhookURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/api/webhook/stripe", scheme, r.Host)
}
