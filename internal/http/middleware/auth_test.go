package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/session"
)

type fakeParser struct {
	sess session.Context
	err  error
}

func (p fakeParser) Parse(raw string) (session.Context, error) {
	if raw != "good" {
		return session.Context{}, errors.New("bad token")
	}
	return p.sess, p.err
}

type fakeChecker struct {
	allowed bool
	err     error
	module  string
	action  model.Action
}

func (c *fakeChecker) Allowed(ctx context.Context, sess session.Context, module string, action model.Action) (bool, error) {
	c.module, c.action = module, action
	return c.allowed, c.err
}

func newTestEngine(parser TokenParser, checker PermissionChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(parser))
	router.GET("/contratos", RequirePermission(checker, model.ModuleContracts, model.ActionView), func(c *gin.Context) {
		sess, ok := MustSession(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, sess.UserName())
	})
	return router
}

func serve(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/contratos", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	router := newTestEngine(fakeParser{}, &fakeChecker{allowed: true})

	require.Equal(t, http.StatusUnauthorized, serve(router, "").Code)
	require.Equal(t, http.StatusUnauthorized, serve(router, "forged").Code)
}

func TestRequirePermission(t *testing.T) {
	sess := session.New(uuid.New(), "Ana Lima", "ana@transvia.com.br", false)

	checker := &fakeChecker{allowed: false}
	rec := serve(newTestEngine(fakeParser{sess: sess}, checker), "good")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, model.ModuleContracts, checker.module)
	require.Equal(t, model.ActionView, checker.action)

	rec = serve(newTestEngine(fakeParser{sess: sess}, &fakeChecker{allowed: true}), "good")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Ana Lima", rec.Body.String())

	rec = serve(newTestEngine(fakeParser{sess: sess}, &fakeChecker{err: errors.New("db down")}), "good")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
