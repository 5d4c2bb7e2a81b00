package server

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/auth"
	"github.com/fekuna/omnipos-stock-app/internal/httpio"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request once it has been served.
func RequestLogger(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request", fields...)
			return
		}
		log.Debug("request", fields...)
	}
}

// Readiness answers 503 until the gate opens.
func Readiness(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.Ready() {
			httpio.Localized(c, http.StatusServiceUnavailable, "NotReady")
			return
		}
		c.Next()
	}
}

// Guard applies the route groups' access rules. Refused GETs are redirected
// with 303; other methods get an error status and the target in Location.
// Requests that pass through move the navigator and, on protected routes,
// carry the signed-in user on their context.
func Guard(session *auth.Session, nav *auth.Navigator) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		st := session.State()

		if target := auth.Redirect(path, st.IsAuthenticated()); target != "" {
			if c.Request.Method == http.MethodGet {
				c.Redirect(http.StatusSeeOther, target)
				c.Abort()
				return
			}
			c.Header("Location", target)
			if auth.AccessOf(path) == auth.Protected {
				httpio.Localized(c, http.StatusUnauthorized, "Unauthenticated")
			} else {
				httpio.Localized(c, http.StatusForbidden, "AlreadyAuthenticated")
			}
			return
		}

		if c.Request.Method == http.MethodGet && nav != nil {
			nav.Navigate(path)
		}
		if auth.AccessOf(path) == auth.Protected && st.User != nil {
			c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), st.User))
		}
		c.Next()
	}
}
