package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	userID string
	err    error
}

func (s stubValidator) ValidateToken(string) (string, error) {
	return s.userID, s.err
}

func setupAuthRouter(v TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(v), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})
	return r
}

func TestAuthMiddlewareSetsUserID(t *testing.T) {
	r := setupAuthRouter(stubValidator{userID: "u-1"})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", w.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	cases := map[string]struct {
		header string
		v      stubValidator
	}{
		"missing":   {header: "", v: stubValidator{userID: "u"}},
		"malformed": {header: "Token abc", v: stubValidator{userID: "u"}},
		"invalid":   {header: "Bearer abc", v: stubValidator{err: errors.New("bad")}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := setupAuthRouter(tc.v)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
