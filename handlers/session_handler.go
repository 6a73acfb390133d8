package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/redmercy-dev/MotionsAssistant/models"
	"github.com/redmercy-dev/MotionsAssistant/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUploadSize caps one uploaded case document
const maxUploadSize = 20 * 1024 * 1024 // 20MB

// SessionHandler handles HTTP requests for drafting sessions
type SessionHandler struct {
	sessionService *service.SessionService
	orchestrator   *service.OrchestratorService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService, orchestrator *service.OrchestratorService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		orchestrator:   orchestrator,
	}
}

// CreateSessionRequest represents the request body for creating a session
type CreateSessionRequest struct {
	MotionType   string  `json:"motion_type" binding:"required"`
	Jurisdiction *string `json:"jurisdiction"`
	Chapter      *string `json:"chapter"`
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	motion, err := models.ParseMotionType(req.MotionType)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_MOTION_TYPE", err.Error())
		return
	}

	result, err := h.sessionService.CreateSession(c.Request.Context(), service.CreateSessionRequest{
		MotionType:   motion,
		Jurisdiction: req.Jurisdiction,
		Chapter:      req.Chapter,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			respondError(c, http.StatusConflict, "NOT_CONFIGURED",
				"Configure the knowledge stores and drafting agent before starting a session")
			return
		}
		respondError(c, http.StatusInternalServerError, "CREATE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Session,
	})
}

// GetSession handles GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.sessionService.GetSession(c.Request.Context(), service.GetSessionRequest{ID: id})
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "GET_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Session,
	})
}

// ListTurns handles GET /api/sessions/:id/turns
func (h *SessionHandler) ListTurns(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.sessionService.ListTurns(c.Request.Context(), service.ListTurnsRequest{SessionID: id})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Turns,
	})
}

// PostMessage handles POST /api/sessions/:id/messages. The body is multipart:
// an optional "message" text field plus zero or more "files" parts.
func (h *SessionHandler) PostMessage(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FORM", "Expected multipart form data")
		return
	}

	message := c.PostForm("message")

	var uploads []service.TurnUpload
	for _, fileHeader := range form.File["files"] {
		if fileHeader.Size > maxUploadSize {
			respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
				fmt.Sprintf("%s exceeds the %dMB limit", fileHeader.Filename, maxUploadSize/(1024*1024)))
			return
		}
		if _, err := models.DocumentKindFromFilename(fileHeader.Filename); err != nil {
			respondError(c, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", err.Error())
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "READ_FAILED", err.Error())
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respondError(c, http.StatusInternalServerError, "READ_FAILED", err.Error())
			return
		}

		uploads = append(uploads, service.TurnUpload{Filename: fileHeader.Filename, Data: data})
	}

	if message == "" && len(uploads) == 0 {
		respondError(c, http.StatusBadRequest, "EMPTY_TURN", "Provide a message, a document, or both")
		return
	}

	result, err := h.orchestrator.HandleTurn(c.Request.Context(), service.HandleTurnRequest{
		SessionID: id,
		Message:   message,
		Uploads:   uploads,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
		case errors.Is(err, service.ErrNotConfigured):
			respondError(c, http.StatusConflict, "NOT_CONFIGURED",
				"Configure the knowledge stores and drafting agent before starting")
		default:
			respondError(c, http.StatusInternalServerError, "TURN_FAILED", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"session": result.Session,
			"reply":   result.Reply,
			"draft":   result.Draft,
		},
	})
}

// CorrectVariableRequest represents the request body for a variable
// correction
type CorrectVariableRequest struct {
	Value string `json:"value" binding:"required"`
}

// CorrectVariable handles PUT /api/sessions/:id/variables/:name
func (h *SessionHandler) CorrectVariable(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req CorrectVariableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.orchestrator.CorrectVariable(c.Request.Context(), service.CorrectVariableRequest{
		SessionID: id,
		Name:      c.Param("name"),
		Value:     req.Value,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
		case errors.Is(err, service.ErrUnknownVariable):
			respondError(c, http.StatusBadRequest, "UNKNOWN_VARIABLE", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "CORRECTION_FAILED", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"session": result.Session,
			"draft":   result.Draft,
		},
	})
}

// ClearChat handles POST /api/sessions/:id/clear
func (h *SessionHandler) ClearChat(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.sessionService.ClearChat(c.Request.Context(), service.ClearChatRequest{SessionID: id})
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "CLEAR_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Session,
	})
}

// GetDraft handles GET /api/sessions/:id/draft. Query params: part=motion
// (default) or part=order selects which text; format=download returns it as
// a plain-text attachment.
func (h *SessionHandler) GetDraft(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.sessionService.GetDraft(c.Request.Context(), service.GetDraftRequest{SessionID: id})
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			respondError(c, http.StatusNotFound, "DRAFT_NOT_FOUND", "No draft produced yet")
			return
		}
		respondError(c, http.StatusInternalServerError, "GET_FAILED", err.Error())
		return
	}

	if c.Query("format") == "download" {
		text := result.Draft.MotionText
		name := "motion.txt"
		if c.Query("part") == "order" {
			text = result.Draft.ProposedOrderText
			name = "proposed-order.txt"
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Draft,
	})
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "Invalid session id format")
		return uuid.Nil, false
	}
	return id, true
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
