package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"mediform-service/internal/middleware"
	"mediform-service/internal/models"
)

func newSessionRouter() *gin.Engine {
	router := setupTestRouter()
	router.Use(middleware.Session(testSecret))
	handler := NewSessionHandler(testSecret)
	router.GET("/api/v1/session", handler.GetSession)
	router.POST("/api/v1/session/switch", handler.SwitchRole)
	return router
}

func TestGetSession_DefaultsToStaff(t *testing.T) {
	router := newSessionRouter()

	req, _ := http.NewRequest("GET", "/api/v1/session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleStaff, resp.User.Role)
	assert.Equal(t, "staff1", resp.User.ID)
}

func TestSwitchRole_IssuesUsableToken(t *testing.T) {
	router := newSessionRouter()

	body, _ := json.Marshal(map[string]string{"role": "APPROVER"})
	req, _ := http.NewRequest("POST", "/api/v1/session/switch", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleApprover, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	// The issued token resolves back to the approver on the next request.
	next, _ := http.NewRequest("GET", "/api/v1/session", nil)
	next.Header.Set("Authorization", "Bearer "+resp.Token)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, next)

	var resp2 struct {
		User models.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))
	assert.Equal(t, "doc1", resp2.User.ID)
}

func TestSwitchRole_CaseInsensitive(t *testing.T) {
	router := newSessionRouter()

	body, _ := json.Marshal(map[string]string{"role": "admin"})
	req, _ := http.NewRequest("POST", "/api/v1/session/switch", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSwitchRole_UnknownRole(t *testing.T) {
	router := newSessionRouter()

	body, _ := json.Marshal(map[string]string{"role": "SUPERUSER"})
	req, _ := http.NewRequest("POST", "/api/v1/session/switch", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
