package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func sessionRouter(t *testing.T, adminHash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewAuthHandler(adminHash)
	router.POST("/api/v1/auth/session", handler.CreateSession)
	router.POST("/api/v1/auth/refresh", handler.RefreshSession)
	return router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateSession(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hub-password"), bcrypt.MinCost)
	require.NoError(t, err)
	router := sessionRouter(t, string(hash))

	w := postJSON(router, "/api/v1/auth/session", gin.H{"password": "hub-password"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, "Admin User", resp.Data.Name)
	assert.Equal(t, "Admin", resp.Data.Role)
}

func TestCreateSessionCustomName(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hub-password"), bcrypt.MinCost)
	require.NoError(t, err)
	router := sessionRouter(t, string(hash))

	w := postJSON(router, "/api/v1/auth/session", gin.H{"name": "Ravi", "password": "hub-password"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ravi", resp.Data.Name)
}

func TestCreateSessionWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hub-password"), bcrypt.MinCost)
	require.NoError(t, err)
	router := sessionRouter(t, string(hash))

	w := postJSON(router, "/api/v1/auth/session", gin.H{"password": "guess"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateSessionNotConfigured(t *testing.T) {
	router := sessionRouter(t, "")

	w := postJSON(router, "/api/v1/auth/session", gin.H{"password": "anything"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreateSessionMissingPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hub-password"), bcrypt.MinCost)
	require.NoError(t, err)
	router := sessionRouter(t, string(hash))

	w := postJSON(router, "/api/v1/auth/session", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshSessionRejectsGarbage(t *testing.T) {
	router := sessionRouter(t, "")

	w := postJSON(router, "/api/v1/auth/refresh", gin.H{"token": "not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
