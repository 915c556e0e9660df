package auth

import (
	"context"
	"errors"
	"net/http"

	"taskmanager/internal/logging"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "session_id"

const contextKeyUserID = "user_id"

// UserIDFromContext returns the current user ID set by LoadSession.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// LoadSession resolves the session cookie, if any, and stores the user ID in
// the context. A resolved session gets its inactivity window restarted.
// Requests without a valid session continue anonymously.
func LoadSession(sessions *Store, log logging.Logger) gin.HandlerFunc {
	return loadSession(sessions.GetUserID, log)
}

// PeekSession is LoadSession without the expiry refresh, for read-only status checks.
func PeekSession(sessions *Store, log logging.Logger) gin.HandlerFunc {
	return loadSession(sessions.Peek, log)
}

func loadSession(lookup func(ctx context.Context, id string) (int64, error), log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}
		userID, err := lookup(c.Request.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				log.Error(c.Request.Context(), "session lookup failed", "error", err)
			}
			c.Next()
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

// RequireSession aborts with 401 unless LoadSession attached a user.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserIDFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// SetSessionCookie writes the session cookie. It has no Max-Age: expiry is
// enforced server-side by the sliding TTL.
func SetSessionCookie(c *gin.Context, id string, secure bool) {
	c.SetSameSite(sameSite(secure))
	c.SetCookie(SessionCookieName, id, 0, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(sameSite(secure))
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

// Cross-site credentialed requests need SameSite=None, which browsers only accept with Secure.
func sameSite(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
