package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mediform-service/internal/middleware"
	"mediform-service/internal/seeders"
)

// SessionHandler exposes the demo identity switch. There is no real login:
// each role maps to a fixed demo user and switching issues a fresh token.
type SessionHandler struct {
	secret []byte
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(secret []byte) *SessionHandler {
	return &SessionHandler{secret: secret}
}

// GetSession returns the acting user for the current request
// @Summary Get current session user
// @Tags Session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

type switchRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SwitchRole switches the session to the demo user holding the given role
// @Summary Switch demo role
// @Tags Session
// @Accept json
// @Produce json
// @Param request body switchRoleRequest true "Target role"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/switch [post]
func (h *SessionHandler) SwitchRole(c *gin.Context) {
	var req switchRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := seeders.UserForRole(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	token, err := middleware.IssueToken(h.secret, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}
