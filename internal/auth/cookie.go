package auth

import (
	"net/http"
	"time"
)

// SetSessionCookie writes the session token. Production cookies are cross-site (SameSite=None, Secure).
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, production bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   production,
		SameSite: sameSite(production),
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
	})
}

func ClearSessionCookie(w http.ResponseWriter, production bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   production,
		SameSite: sameSite(production),
		MaxAge:   -1,
	})
}

func sameSite(production bool) http.SameSite {
	if production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}
