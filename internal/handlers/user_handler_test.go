package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bekarys2104/Task_Planner/internal/config"
	"github.com/Bekarys2104/Task_Planner/internal/database"
	"github.com/Bekarys2104/Task_Planner/internal/repository"
	"github.com/Bekarys2104/Task_Planner/internal/services"
	jwtutil "github.com/Bekarys2104/Task_Planner/pkg/jwt"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
	"github.com/Bekarys2104/Task_Planner/pkg/middleware"
)

func newAuthRouter(t *testing.T) *mux.Router {
	t.Helper()
	logger.InitLogger()

	cfg := &config.Config{
		DBPath:      filepath.Join(t.TempDir(), "planner.db"),
		JWTSecret:   testSecret,
		TokenExpiry: time.Hour,
	}
	db, err := database.ConnectDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userService := services.NewUserService(repository.NewUserRepository(db))
	userHandler := NewUserHandler(userService, cfg)

	router := mux.NewRouter()
	router.HandleFunc("/api/auth/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/api/auth/login", userHandler.LoginUserHandler).Methods("POST")

	protected := router.PathPrefix("/api/auth").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protected.HandleFunc("/me", userHandler.GetMeHandler).Methods("GET")

	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	admin.Use(middleware.RequireRole("admin"))
	admin.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")

	return router
}

func postJSON(t *testing.T, router *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegister_Returns201WithoutPassword(t *testing.T) {
	router := newAuthRouter(t)

	rec := postJSON(t, router, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret123")
	assert.NotContains(t, rec.Body.String(), "hashed_password")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotEmpty(t, body["id"])
}

func TestRegister_DuplicateEmailIs422(t *testing.T) {
	router := newAuthRouter(t)

	first := postJSON(t, router, "/api/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, router, "/api/auth/register", map[string]string{
		"username": "clone", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, second.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "email", body["field"])
}

func TestLogin_ReturnsWorkingToken(t *testing.T) {
	router := newAuthRouter(t)

	postJSON(t, router, "/api/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	})

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	// The token opens the protected profile route.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code)
	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &profile))
	assert.Equal(t, body.User.ID, profile["id"])
}

func TestLogin_WrongPasswordIs401(t *testing.T) {
	router := newAuthRouter(t)

	postJSON(t, router, "/api/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	})

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminUsers_RequiresAdminRole(t *testing.T) {
	router := newAuthRouter(t)

	rec := postJSON(t, router, "/api/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	userID := registered["id"].(string)

	userToken, err := jwtutil.GenerateToken(userID, "alice@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)
	adminToken, err := jwtutil.GenerateToken(userID, "alice@example.com", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	asUser := httptest.NewRecorder()
	router.ServeHTTP(asUser, req)
	assert.Equal(t, http.StatusForbidden, asUser.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	asAdmin := httptest.NewRecorder()
	router.ServeHTTP(asAdmin, req)
	require.Equal(t, http.StatusOK, asAdmin.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(asAdmin.Body.Bytes(), &users))
	assert.Len(t, users, 1)
}
