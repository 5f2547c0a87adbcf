package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"venturepath-backend/models"
	"venturepath-backend/service"
)

// AccountHandler handles HTTP requests for the account lifecycle
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Login handles POST /api/account/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.accountService.Login(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LOGIN_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// Logout handles POST /api/account/logout
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.accountService.Logout(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "LOGOUT_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"logged_out": true},
	})
}

// GetAccount handles GET /api/account
func (h *AccountHandler) GetAccount(c *gin.Context) {
	user, err := h.accountService.Current(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "SESSION_LOAD_FAILED", err.Error())
		return
	}
	if user == nil {
		respondError(c, http.StatusUnauthorized, "AUTH_REQUIRED", "not logged in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// Upgrade handles POST /api/account/upgrade
func (h *AccountHandler) Upgrade(c *gin.Context) {
	user, err := h.accountService.UpgradeToPro(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			respondError(c, http.StatusUnauthorized, "AUTH_REQUIRED", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "UPGRADE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// SaveIdeaRequest represents the request body for saving an idea
type SaveIdeaRequest struct {
	Idea models.BusinessIdea `json:"idea" binding:"required"`
}

// SaveIdea handles POST /api/account/ideas
func (h *AccountHandler) SaveIdea(c *gin.Context) {
	var req SaveIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.accountService.SaveIdea(c.Request.Context(), req.Idea)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			respondError(c, http.StatusUnauthorized, "AUTH_REQUIRED", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "SAVE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// DeleteSavedIdea handles DELETE /api/account/ideas/:id
func (h *AccountHandler) DeleteSavedIdea(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid saved idea ID format")
		return
	}

	user, err := h.accountService.DeleteSavedIdea(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			respondError(c, http.StatusUnauthorized, "AUTH_REQUIRED", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "DELETE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}
