package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/session"
)

const sessionKey = "session"

type TokenParser interface {
	Parse(raw string) (session.Context, error)
}

type PermissionChecker interface {
	Allowed(ctx context.Context, sess session.Context, module string, action model.Action) (bool, error)
}

// Auth requires a valid bearer token and stores the resulting session on the gin context.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token ausente"})
			return
		}

		sess, err := parser.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func MustSession(c *gin.Context) (session.Context, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return session.Context{}, false
	}
	sess, ok := value.(session.Context)
	if !ok || !sess.Authenticated() {
		return session.Context{}, false
	}
	return sess, true
}

// RequirePermission blocks the request unless the session holds action on module.
// Routes without this middleware are not gated.
func RequirePermission(checker PermissionChecker, module string, action model.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := MustSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sessão ausente"})
			return
		}

		allowed, err := checker.Allowed(c.Request.Context(), sess, module, action)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":  "permission denied",
				"modulo": module,
				"acao":   action,
			})
			return
		}
		c.Next()
	}
}
