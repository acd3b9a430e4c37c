package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studentcatalog/catalog-web/pkg/logger"
)

// SessionKey is the gin context key holding the session id.
const SessionKey = "session"

// Sessions is the minimal interface the middleware depends on.
type Sessions interface {
	Issue(id string) (string, error)
	Verify(raw string) (string, error)
	TTL() time.Duration
}

// SessionMiddleware resolves the browser session from cookie, minting a
// new session when the cookie is absent or fails verification.
func SessionMiddleware(s Sessions, cookie string, newID func() string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(cookie); err == nil && raw != "" {
			if id, err := s.Verify(raw); err == nil {
				c.Set(SessionKey, id)
				c.Next()
				return
			}
			logger.Debugf("session: discarding invalid cookie from %s", c.ClientIP())
		}

		id := newID()
		tok, err := s.Issue(id)
		if err != nil {
			logger.Errorf("session: issue token: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie, tok, int(s.TTL().Seconds()), "/", "", secure, true)
		c.Set(SessionKey, id)
		c.Next()
	}
}

// SessionID returns the session id set by SessionMiddleware, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
