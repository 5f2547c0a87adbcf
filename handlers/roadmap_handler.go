package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"venturepath-backend/models"
	"venturepath-backend/service"
	"venturepath-backend/storage"
	"venturepath-backend/wizard"
)

// RoadmapHandler handles roadmap generation, export, and consultation
type RoadmapHandler struct {
	registry          *Registry
	generationService *service.GenerationService
	exportStorage     storage.ExportStorage
}

// NewRoadmapHandler creates a new roadmap handler
func NewRoadmapHandler(registry *Registry, generationService *service.GenerationService, exportStorage storage.ExportStorage) *RoadmapHandler {
	return &RoadmapHandler{
		registry:          registry,
		generationService: generationService,
		exportStorage:     exportStorage,
	}
}

// findIdea resolves an idea from a session's generated report.
func (h *RoadmapHandler) findIdea(c *gin.Context, sessionID, ideaID string) (*wizardSession, *models.BusinessIdea, bool) {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID format")
		return nil, nil, false
	}
	iid, err := uuid.Parse(ideaID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid idea ID format")
		return nil, nil, false
	}

	sess, ok := h.registry.Get(sid)
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Wizard session not found")
		return nil, nil, false
	}

	ideas, err := sess.Controller.Ideas()
	if err != nil {
		if errors.Is(err, wizard.ErrNoReport) {
			respondError(c, http.StatusConflict, "NO_REPORT", err.Error())
			return nil, nil, false
		}
		respondError(c, http.StatusInternalServerError, "REPORT_LOAD_FAILED", err.Error())
		return nil, nil, false
	}

	for i := range ideas {
		if ideas[i].ID == iid {
			return sess, &ideas[i], true
		}
	}

	respondError(c, http.StatusNotFound, "NOT_FOUND", "Idea not found in report")
	return nil, nil, false
}

// RoadmapRequest represents the request body for roadmap generation
type RoadmapRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	IdeaID    string `json:"idea_id" binding:"required"`
	Language  string `json:"language"`
}

// GenerateRoadmap handles POST /api/roadmap
func (h *RoadmapHandler) GenerateRoadmap(c *gin.Context) {
	var req RoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sess, idea, ok := h.findIdea(c, req.SessionID, req.IdeaID)
	if !ok {
		return
	}

	roadmap, err := h.generationService.GenerateRoadmap(
		c.Request.Context(), *idea, sess.Controller.Profile(), models.ParseLanguage(req.Language))
	if err != nil {
		respondError(c, http.StatusBadGateway, "GENERATION_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"idea_id": idea.ID,
			"roadmap": roadmap,
		},
	})
}

// ExportRequest represents the request body for a roadmap export
type ExportRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	IdeaID    string `json:"idea_id" binding:"required"`
	Roadmap   string `json:"roadmap" binding:"required"`
}

// ExportRoadmap handles POST /api/roadmap/export
func (h *RoadmapHandler) ExportRoadmap(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	_, idea, ok := h.findIdea(c, req.SessionID, req.IdeaID)
	if !ok {
		return
	}

	key, err := h.exportStorage.Put(
		c.Request.Context(), uuid.New(), idea.Title, strings.NewReader(req.Roadmap))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"key": key},
	})
}

// GetExport handles GET /api/exports/*key
func (h *RoadmapHandler) GetExport(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "export key is required")
		return
	}

	reader, err := h.exportStorage.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "EXPORT_READ_FAILED", err.Error())
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", data)
}

// ConsultRequest represents the request body for a consultation turn
type ConsultRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	IdeaID    string `json:"idea_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Language  string `json:"language"`
}

// Consult handles POST /api/consult
func (h *RoadmapHandler) Consult(c *gin.Context) {
	var req ConsultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sess, idea, ok := h.findIdea(c, req.SessionID, req.IdeaID)
	if !ok {
		return
	}

	history := sess.history(idea.ID)

	reply, err := h.generationService.Consult(
		c.Request.Context(), history, req.Message, *idea,
		sess.Controller.Profile(), models.ParseLanguage(req.Language))
	if err != nil {
		respondError(c, http.StatusBadGateway, "GENERATION_FAILED", err.Error())
		return
	}

	sess.appendChat(idea.ID, req.Message, reply)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reply":   reply,
			"history": sess.history(idea.ID),
		},
	})
}
