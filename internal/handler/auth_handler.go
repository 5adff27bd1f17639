package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sjcbulldog/xerodb/internal/middleware"
	"github.com/sjcbulldog/xerodb/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
}

// IssueToken mints a token for an externally-verified identity.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, 40000, err.Error())
		return
	}
	pair, err := h.auth.IssueToken(c.Request.Context(), req.Username)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, pair)
}

type refreshRequest struct {
	Token string `json:"token" binding:"required"`
}

// Refresh re-issues a token from a still-valid one.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, 40000, err.Error())
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, pair)
}

// Me returns the identity resolved from the bearer token.
func (h *AuthHandler) Me(c *gin.Context) {
	Success(c, middleware.CurrentUser(c))
}
