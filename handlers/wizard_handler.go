package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"venturepath-backend/models"
	"venturepath-backend/service"
	"venturepath-backend/session"
	"venturepath-backend/wizard"
)

// WizardHandler handles HTTP requests for wizard sessions
type WizardHandler struct {
	registry       *Registry
	accountService *service.AccountService
	sessionStore   session.Store
	generator      wizard.IdeaGenerator
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(registry *Registry, accountService *service.AccountService, sessionStore session.Store, generator wizard.IdeaGenerator) *WizardHandler {
	return &WizardHandler{
		registry:       registry,
		accountService: accountService,
		sessionStore:   sessionStore,
		generator:      generator,
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// wizardState is the session snapshot returned by most wizard endpoints.
func wizardState(sess *wizardSession) gin.H {
	return gin.H{
		"id":      sess.ID,
		"step":    sess.Controller.Step(),
		"phase":   sess.Controller.Phase(),
		"profile": sess.Controller.Profile(),
	}
}

func (h *WizardHandler) lookup(c *gin.Context) (*wizardSession, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID format")
		return nil, false
	}

	sess, ok := h.registry.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Wizard session not found")
		return nil, false
	}
	return sess, true
}

// CreateSession handles POST /api/wizard
func (h *WizardHandler) CreateSession(c *gin.Context) {
	// Each session gets its own gate so a guest's free pass is scoped to it.
	gate := service.NewUsageGate(service.GateWithSessionStore(h.sessionStore))
	ctrl := wizard.NewController(gate, h.generator)
	sess := h.registry.Add(ctrl)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    wizardState(sess),
	})
}

// GetSession handles GET /api/wizard/:id
func (h *WizardHandler) GetSession(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wizardState(sess),
	})
}

// SetFieldRequest represents the request body for a profile field update
type SetFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// SetField handles PUT /api/wizard/:id/profile
func (h *WizardHandler) SetField(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := sess.Controller.SetField(wizard.Field(req.Field), req.Value); err != nil {
		code := "INVALID_VALUE"
		switch {
		case errors.Is(err, wizard.ErrUnknownField):
			code = "UNKNOWN_FIELD"
		case errors.Is(err, wizard.ErrFieldNotApplicable):
			code = "FIELD_NOT_APPLICABLE"
		}
		respondError(c, http.StatusBadRequest, code, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wizardState(sess),
	})
}

// Next handles POST /api/wizard/:id/next
func (h *WizardHandler) Next(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := sess.Controller.Next(); err != nil {
		switch {
		case errors.Is(err, wizard.ErrStepIncomplete):
			respondError(c, http.StatusBadRequest, "STEP_INCOMPLETE", err.Error())
		case errors.Is(err, wizard.ErrAwaitingSubmit):
			respondError(c, http.StatusConflict, "AWAITING_SUBMIT", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "NEXT_FAILED", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wizardState(sess),
	})
}

// Back handles POST /api/wizard/:id/back
func (h *WizardHandler) Back(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	sess.Controller.Back()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wizardState(sess),
	})
}

// SubmitRequest represents the request body for submit and regenerate
type SubmitRequest struct {
	Language string `json:"language"`
}

// Submit handles POST /api/wizard/:id/submit
func (h *WizardHandler) Submit(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	var req SubmitRequest
	// Body is optional; language defaults to English.
	_ = c.ShouldBindJSON(&req)
	lang := models.ParseLanguage(req.Language)

	user, err := h.accountService.Current(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "SESSION_LOAD_FAILED", err.Error())
		return
	}

	ideas, err := sess.Controller.Submit(c.Request.Context(), user, lang)
	if err != nil {
		h.respondGenerationError(c, sess, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"phase": sess.Controller.Phase(),
			"ideas": ideas,
		},
	})
}

// Regenerate handles POST /api/wizard/:id/regenerate
func (h *WizardHandler) Regenerate(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	var req SubmitRequest
	_ = c.ShouldBindJSON(&req)
	lang := models.ParseLanguage(req.Language)

	user, err := h.accountService.Current(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "SESSION_LOAD_FAILED", err.Error())
		return
	}

	ideas, err := sess.Controller.Regenerate(c.Request.Context(), user, lang)
	if err != nil {
		h.respondGenerationError(c, sess, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"phase": sess.Controller.Phase(),
			"ideas": ideas,
		},
	})
}

// DeleteSession handles DELETE /api/wizard/:id. An in-flight generation is
// canceled before the session is dropped.
func (h *WizardHandler) DeleteSession(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	sess.Controller.Cancel()
	h.registry.Remove(sess.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// respondGenerationError maps submit and regenerate failures onto HTTP
// statuses. The phase in the payload lets the client render the blocked
// upgrade screen without a follow-up request.
func (h *WizardHandler) respondGenerationError(c *gin.Context, sess *wizardSession, err error) {
	switch {
	case errors.Is(err, wizard.ErrAuthRequired):
		respondError(c, http.StatusUnauthorized, "AUTH_REQUIRED", err.Error())
	case errors.Is(err, wizard.ErrUpgradeRequired):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPGRADE_REQUIRED",
				"message": err.Error(),
			},
			"data": gin.H{"phase": sess.Controller.Phase()},
		})
	case errors.Is(err, wizard.ErrSubmitInFlight):
		respondError(c, http.StatusConflict, "SUBMIT_IN_FLIGHT", err.Error())
	case errors.Is(err, wizard.ErrNotOnFinalStep):
		respondError(c, http.StatusBadRequest, "NOT_ON_FINAL_STEP", err.Error())
	case errors.Is(err, wizard.ErrStepIncomplete):
		respondError(c, http.StatusBadRequest, "STEP_INCOMPLETE", err.Error())
	case errors.Is(err, wizard.ErrNoReport):
		respondError(c, http.StatusConflict, "NO_REPORT", err.Error())
	case errors.Is(err, models.ErrInvalidAmount):
		respondError(c, http.StatusBadRequest, "INVALID_AMOUNT", err.Error())
	case errors.Is(err, wizard.ErrGenerationFailed):
		respondError(c, http.StatusBadGateway, "GENERATION_FAILED", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "SUBMIT_FAILED", err.Error())
	}
}
