package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// Store is the session store for the SSO authorization flow. It holds only
// the short-lived state parameter issued before redirecting to the IdP.
var Store *sessions.CookieStore

// SessionName is the name of the SSO session cookie.
const SessionName = "sso-session"

// SessionKeyState is the session key holding the SSO state parameter.
const SessionKeyState = "state"

// InitSessionStore initializes the cookie-based session store for the SSO
// flow. The secret can be any passphrase - it is SHA-256 hashed to derive a
// 32-byte signing key, and must be consistent across restarts and replicas.
//
// The session has a short TTL since it only needs to survive the redirect
// round trip to the identity provider.
func InitSessionStore(secret string) {
	key := sha256.Sum256([]byte(secret))

	Store = sessions.NewCookieStore(key[:])
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// GetSession retrieves the SSO session from the request, creating a new one
// if absent.
func GetSession(r *http.Request) (*sessions.Session, error) {
	return Store.Get(r, SessionName)
}

// SaveSession saves the session to the response.
func SaveSession(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	return session.Save(r, w)
}
