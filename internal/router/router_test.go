package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/chirpy/config"
	"github.com/Payphone-Digital/chirpy/internal/constants"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	"github.com/Payphone-Digital/chirpy/internal/handler"
	"github.com/Payphone-Digital/chirpy/internal/middleware"
	"github.com/Payphone-Digital/chirpy/internal/repository"
	"github.com/Payphone-Digital/chirpy/internal/service"
	"github.com/Payphone-Digital/chirpy/pkg/database"
	"github.com/Payphone-Digital/chirpy/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		App:      config.AppConfig{Environment: constants.EnvProduction},
		Database: config.DatabaseConfig{MaxOpenConns: 1},
		JWT: config.JWTConfig{
			AccessSecret:   "access-secret",
			RefreshSecret:  "refresh-secret",
			AccessTokenTTL: 5 * time.Minute,
		},
	}

	db, err := database.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })
	require.NoError(t, database.AutoMigrate(db))

	cache := redis.NewDisabledClient()
	jwtService := service.NewJWTService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)
	sessionService := service.NewSessionService(
		repository.NewSessionRepository(db, cache, nil, time.Hour),
		service.NewBcryptHasher(bcrypt.MinCost),
		jwtService,
		cfg.JWT.AccessTokenTTL,
	)
	chirpService := service.NewChirpService(repository.NewChirpRepository(db))

	return NewRouter(
		handler.NewSessionHandler(sessionService),
		handler.NewChirpHandler(chirpService),
		handler.NewHealthHandler(db, cache),
		middleware.NewJWTMiddleware(jwtService),
		cfg,
	).SetupRoutes()
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

func (a apiClient) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var out map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (a apiClient) list(token string) (int, []map[string]interface{}) {
	a.t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/chirps", nil)
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var out []map[string]interface{}
	if w.Code == http.StatusOK {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (a apiClient) registerAndLogin(name, email string) (access, refresh string) {
	a.t.Helper()

	status, _ := a.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(a.t, http.StatusOK, status)

	status, body := a.do(http.MethodPost, "/api/session", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(a.t, http.StatusOK, status)
	return body["access_token"].(string), body["refresh_token"].(string)
}

func TestSessionFlow(t *testing.T) {
	api := apiClient{t: t, engine: newTestServer(t)}

	status, body := api.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": "Alice", "email": "alice@mail.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "alice@mail.com", body["email"])
	assert.NotZero(t, body["id"])
	assert.NotContains(t, body, "password")

	status, body = api.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": "Alice Again", "email": "alice@mail.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apperrors.CodeEmailRegistered, body["err"])

	status, body = api.do(http.MethodPost, "/api/session", "", map[string]string{
		"email": "alice@mail.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeInvalidCreds, body["err"])

	status, body = api.do(http.MethodPost, "/api/session", "", map[string]string{
		"email": "alice@mail.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice", body["name"])
	access := body["access_token"].(string)
	refresh := body["refresh_token"].(string)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	status, body = api.do(http.MethodPut, "/api/session", refresh, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])

	status, body = api.do(http.MethodPut, "/api/session", access, nil)
	assert.Equal(t, http.StatusUnauthorized, status, "access token is not a refresh token")
	assert.Equal(t, apperrors.CodeInvalidRefresh, body["err"])

	status, body = api.do(http.MethodPut, "/api/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeInvalidRefresh, body["err"])
}

func TestRegister_ValidationOrder(t *testing.T) {
	api := apiClient{t: t, engine: newTestServer(t)}

	tests := []struct {
		name string
		body interface{}
		want string
	}{
		{"undecodable body", "{not json", apperrors.CodeInvalidEmail},
		{"bad email first", map[string]string{"name": "x", "email": "nope", "password": "x"}, apperrors.CodeInvalidEmail},
		{"then name", map[string]string{"name": "x", "email": "a@b.co", "password": "x"}, apperrors.CodeInvalidName},
		{"then password", map[string]string{"name": "Alice", "email": "a@b.co", "password": "short"}, apperrors.CodeInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.do(http.MethodPost, "/api/users", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.want, body["err"])
		})
	}
}

func TestChirpLifecycle(t *testing.T) {
	api := apiClient{t: t, engine: newTestServer(t)}
	alice, _ := api.registerAndLogin("Alice", "alice@mail.com")
	bob, _ := api.registerAndLogin("Bobby", "bob@mail.com")

	status, list := api.list(alice)
	require.Equal(t, http.StatusOK, status)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	status, created := api.do(http.MethodPost, "/api/chirps", alice, map[string]string{"message": "hello chirpy world"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hello chirpy world", created["message"])
	author := created["author"].(map[string]interface{})
	assert.Equal(t, "Alice", author["name"])
	assert.Equal(t, "alice@mail.com", author["email"])
	path := fmt.Sprintf("/api/chirps/%v", created["id"])

	status, got := api.do(http.MethodGet, path, bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created, got)

	status, body := api.do(http.MethodPut, path, bob, map[string]string{"message": "hijacked message"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, body["err"])
	assert.Equal(t, false, body["ok"])
	assert.NotNil(t, body["ts"])

	status, edited := api.do(http.MethodPut, path, alice, map[string]string{"message": "edited message text"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "edited message text", edited["message"])
	assert.Equal(t, created["created_at"], edited["created_at"])

	status, body = api.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, body["err"])

	status, body = api.do(http.MethodDelete, path, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.IsType(t, float64(0), body["id"], "deleted id is a JSON number")
	assert.Equal(t, created["id"], body["id"])

	status, body = api.do(http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeNotFound, body["err"])

	status, body = api.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeNotFound, body["err"])
}

func TestChirps_RequireAccessToken(t *testing.T) {
	api := apiClient{t: t, engine: newTestServer(t)}
	_, refresh := api.registerAndLogin("Alice", "alice@mail.com")

	status, body := api.do(http.MethodGet, "/api/chirps/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeInvalidAccessToken, body["err"])

	status, body = api.do(http.MethodPost, "/api/chirps", refresh, map[string]string{"message": "hello chirpy world"})
	assert.Equal(t, http.StatusUnauthorized, status, "refresh token is not an access token")
	assert.Equal(t, apperrors.CodeInvalidAccessToken, body["err"])
}

func TestChirps_BadInput(t *testing.T) {
	api := apiClient{t: t, engine: newTestServer(t)}
	alice, _ := api.registerAndLogin("Alice", "alice@mail.com")

	status, body := api.do(http.MethodPost, "/api/chirps", alice, map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeInvalidMessage, body["err"])
	assert.Equal(t, "the message must not empty", body["msg"])

	status, body = api.do(http.MethodPost, "/api/chirps", alice, map[string]string{"message": "too short"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "the message should between 10 and 250 characters", body["msg"])

	for _, id := range []string{"abc", "0", "-1"} {
		status, body = api.do(http.MethodGet, "/api/chirps/"+id, alice, nil)
		assert.Equal(t, http.StatusNotFound, status, id)
		assert.Equal(t, apperrors.CodeNotFound, body["err"], id)
	}
}

func TestHealth(t *testing.T) {
	api := apiClient{t: t, engine: newTestServer(t)}

	status, body := api.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "disabled", checks["redis"].(map[string]interface{})["status"])
}
