package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/menu-admin/services"
	"github.com/yeremiapane/menu-admin/utils"
)

const (
	SessionCookieName = "menu_admin_session"
	sessionContextKey = "session"
)

// SessionMiddleware resumes the browser's session from its signed cookie, or
// starts a new one, and re-issues the cookie so it slides with activity.
func SessionMiddleware(store *services.SessionStore, secret []byte, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sid string
		if raw, err := c.Cookie(SessionCookieName); err == nil && raw != "" {
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				utils.InfoLogger.WithField("ip", c.ClientIP()).Debug("discarding invalid session cookie")
			} else {
				sid = claims.SessionID
			}
		}

		sess, created := store.GetOrCreate(sid)
		if created {
			utils.InfoLogger.WithField("session_id", sess.ID).Debug("session started")
		}

		token, err := utils.GenerateSessionToken(secret, sess.ID, ttl)
		if err != nil {
			utils.ErrorLogger.WithError(err).Error("failed to sign session cookie")
			utils.RespondError(c, http.StatusInternalServerError, err)
			c.Abort()
			return
		}
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(ttl / time.Second),
			HttpOnly: true,
			Secure:   c.Request.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session SessionMiddleware attached to c.
func CurrentSession(c *gin.Context) *services.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*services.Session)
	return sess
}
