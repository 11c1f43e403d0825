package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/interfaces/http/response"
	"nft-market.backend/internal/usecases"
)

// AuthHandler handles wallet connect and session endpoints
type AuthHandler struct {
	authUsecase *usecases.AuthUsecase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// ListProviders lists the configured social login providers
// GET /api/v1/auth/providers
func (h *AuthHandler) ListProviders(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"providers": h.authUsecase.LoginProviders(),
	})
}

// Connect verifies a social login token and opens a wallet session
// POST /api/v1/auth/connect
func (h *AuthHandler) Connect(c *gin.Context) {
	var input entities.ConnectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	session, err := h.authUsecase.Connect(c.Request.Context(), input.Provider, input.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// GetSession returns the account behind a session id
// GET /api/v1/auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		response.Error(c, domainerrors.BadRequest("X-Session-ID header is required"))
		return
	}

	session, err := h.authUsecase.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Refresh token is required"))
		return
	}

	pair, err := h.authUsecase.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, pair)
}

// Logout destroys the session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Session id is required"))
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), input.SessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Logged out",
	})
}
