package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caselink/analytics-backend-go/internal/middleware"
	"github.com/caselink/analytics-backend-go/pkg/response"
)

// AuthHandler issues bearer tokens.
type AuthHandler struct {
	secret string
}

// NewAuthHandler creates the handler.
func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{secret: secret}
}

type tokenRequest struct {
	BadgeID string `json:"badgeId" binding:"required"`
}

// Token handles POST /auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "badgeId: required")
		return
	}
	token, err := middleware.IssueToken(h.secret, req.BadgeID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "expiresIn": int(middleware.TokenTTL.Seconds())})
}
