package httpadapter

import (
	"net/http"
	"strings"
)

// login exchanges the hosted-OAuth session id from the X-Session-ID
// header for a local session cookie.
func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	brokerSessionID := strings.TrimSpace(r.Header.Get("X-Session-ID"))

	user, session, err := rt.auth.Login(r.Context(), brokerSessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.SessionToken,
		Path:     "/",
		MaxAge:   rt.sessionMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user":          user,
		"session_token": session.SessionToken,
	})
}

func (rt *Router) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}

func (rt *Router) logout(w http.ResponseWriter, r *http.Request) {
	if err := rt.auth.Logout(r.Context(), sessionToken(r)); err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
