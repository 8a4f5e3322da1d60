package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aicody-snippets/core/internal/pkg/jwt"
)

func authTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c).Hex())
	})
	return r
}

func signed(t *testing.T, id primitive.ObjectID) string {
	t.Helper()
	jwt.SetSecret("middleware-test-secret")
	token, err := jwt.Sign(id.Hex(), time.Hour)
	require.NoError(t, err)
	return token
}

func get(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	uid := primitive.NewObjectID()

	t.Run("valid bearer token passes", func(t *testing.T) {
		w := get(authTestRouter(Auth()), "/whoami", "Bearer "+signed(t, uid))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uid.Hex(), w.Body.String())
	})

	t.Run("bare token without scheme passes", func(t *testing.T) {
		w := get(authTestRouter(Auth()), "/whoami", signed(t, uid))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("token via query parameter passes", func(t *testing.T) {
		w := get(authTestRouter(Auth()), "/whoami?token="+signed(t, uid), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		w := get(authTestRouter(Auth()), "/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		w := get(authTestRouter(Auth()), "/whoami", "Bearer nonsense")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret is 401", func(t *testing.T) {
		jwt.SetSecret("other-secret")
		token, err := jwt.Sign(uid.Hex(), time.Hour)
		require.NoError(t, err)
		jwt.SetSecret("middleware-test-secret")

		w := get(authTestRouter(Auth()), "/whoami", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	uid := primitive.NewObjectID()

	t.Run("valid token sets the user", func(t *testing.T) {
		w := get(authTestRouter(OptionalAuth()), "/whoami", "Bearer "+signed(t, uid))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uid.Hex(), w.Body.String())
	})

	t.Run("missing token still passes, anonymously", func(t *testing.T) {
		w := get(authTestRouter(OptionalAuth()), "/whoami", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, primitive.NilObjectID.Hex(), w.Body.String())
	})

	t.Run("invalid token is treated as anonymous", func(t *testing.T) {
		w := get(authTestRouter(OptionalAuth()), "/whoami", "Bearer junk")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, primitive.NilObjectID.Hex(), w.Body.String())
	})
}

func TestNormalizeToken(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"  ":             "",
		"abc":            "abc",
		"Bearer abc":     "abc",
		"bearer abc":     "abc",
		"  Bearer  abc ": "abc",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeToken(in), "%q", in)
	}
}
