package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName holds the admin session token.
const CookieName = "admin_token"

const contextKeySession = "admin_session"

// FromContext returns the session set by RequireSession.
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(contextKeySession)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*Session)
	return sess, ok && sess != nil
}

// RequireSession returns a middleware that checks for a valid session cookie
// and puts the session in the context. If missing or invalid, responds with 401.
func RequireSession(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)
		if err != nil || id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		sess, err := sessions.Get(c.Request.Context(), id)
		if errors.Is(err, ErrNoSession) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		c.Set(contextKeySession, sess)
		c.Next()
	}
}

// SetCookie writes the session cookie, HttpOnly and scoped to the site.
func SetCookie(c *gin.Context, sess *Session, ttlSeconds int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, sess.ID, ttlSeconds, "/", "", secure, true)
}

// ClearCookie expires the session cookie.
func ClearCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
