package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/Payphone-Digital/chirpy/internal/dto"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	identity *dto.Identity
	err      error
}

func (s stubVerifier) VerifyAccessToken(string) (*dto.Identity, error) {
	return s.identity, s.err
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"missing", "", "", false},
		{"other scheme", "Basic dXNlcjpwYXNz", "", false},
		{"lowercase scheme", "bearer abc", "", false},
		{"empty token", "Bearer ", "", false},
		{"blank token", "Bearer    ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set(constants.HeaderAuthorization, tt.header)
			}

			got, ok := BearerToken(c)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func protectedEngine(verifier AccessTokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/private", NewJWTMiddleware(verifier).RequireAccessToken(), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		ctxUserID, _ := ctxutil.GetUserIDUint(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"ok": ok, "id": user.ID, "email": user.Email, "ctx_id": ctxUserID})
	})
	return r
}

func TestRequireAccessToken(t *testing.T) {
	valid := stubVerifier{identity: &dto.Identity{ID: 7, Email: "a@b.co"}}

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(constants.HeaderAuthorization, "Bearer token")
		protectedEngine(valid).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["ok"])
		assert.Equal(t, float64(7), body["id"])
		assert.Equal(t, "a@b.co", body["email"])
		assert.Equal(t, float64(7), body["ctx_id"])
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		protectedEngine(valid).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.CodeInvalidAccessToken, decode(t, w)["err"])
	})

	t.Run("rejected token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(constants.HeaderAuthorization, "Bearer expired")
		protectedEngine(stubVerifier{err: jwt.ErrTokenExpired}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decode(t, w)
		assert.Equal(t, apperrors.CodeInvalidAccessToken, body["err"])
		assert.Equal(t, "invalid access token", body["msg"])
	})

	t.Run("unexpected verifier failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(constants.HeaderAuthorization, "Bearer token")
		protectedEngine(stubVerifier{err: errors.New("boom")}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperrors.CodeInternal, decode(t, w)["err"])
	})
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", apperrors.ErrInvalidEmail, http.StatusBadRequest, apperrors.CodeInvalidEmail, "invalid email format"},
		{"conflict", apperrors.ErrEmailRegistered, http.StatusConflict, apperrors.CodeEmailRegistered, "given email is already registered."},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, apperrors.CodeNotFound, "resource is not found"},
		{"wrapped internal hides cause", apperrors.WrapError(apperrors.ErrInternal, errors.New("db down")), http.StatusInternalServerError, apperrors.CodeInternal, "internal server error"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/", func(c *gin.Context) {
				_ = c.Error(tt.err)
				c.Abort()
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.wantCode, body["err"])
			assert.Equal(t, tt.wantMsg, body["msg"])
			assert.NotContains(t, body, "ok")
			assert.NotContains(t, body, "ts")
		})
	}
}

func TestErrorHandler_ForbiddenEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(apperrors.ErrForbidden)
		c.Abort()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, apperrors.CodeForbidden, body["err"])
	assert.Equal(t, false, body["ok"])
	assert.Greater(t, body["ts"], float64(0))
}

func TestContextMiddleware_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(ContextMiddleware("api"))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetRequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderXRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(constants.HeaderXRequestID))
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.CodeInternal, decode(t, w)["err"])
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
