package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

const (
	// csrfCookieName is the cookie holding the CSRF token.
	csrfCookieName = "tp_csrf"

	// csrfFieldName is the form field / header carrying the token back.
	csrfFieldName  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"

	// csrfTokenLength is the byte length of the random token.
	csrfTokenLength = 32
)

// CSRF implements double-submit-cookie CSRF protection. Safe methods
// (GET, HEAD, OPTIONS) receive a token cookie if one isn't set; unsafe
// methods must echo the cookie value back in a form field or header.
func CSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				if _, err := r.Cookie(csrfCookieName); err != nil {
					token, err := generateCSRFToken()
					if err != nil {
						http.Error(w, "Internal Server Error", http.StatusInternalServerError)
						return
					}
					http.SetCookie(w, &http.Cookie{
						Name:     csrfCookieName,
						Value:    token,
						Path:     "/",
						Secure:   secure,
						SameSite: http.SameSiteLaxMode,
					})
					// Make the fresh token visible to this request's templates.
					r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
				}
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(csrfCookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "CSRF token missing", http.StatusForbidden)
				return
			}

			submitted := r.Header.Get(csrfHeaderName)
			if submitted == "" {
				submitted = r.FormValue(csrfFieldName)
			}

			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(submitted)) != 1 {
				http.Error(w, "CSRF token mismatch", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFToken returns the CSRF token from the request cookie, or an
// empty string if none is set. Templates embed it in forms.
func GetCSRFToken(r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
