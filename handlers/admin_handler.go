package handlers

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/redmercy-dev/MotionsAssistant/models"
	"github.com/redmercy-dev/MotionsAssistant/service"
	"github.com/redmercy-dev/MotionsAssistant/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KnowledgeAdmin manages the vendor-side knowledge stores
type KnowledgeAdmin interface {
	CreateStore(ctx context.Context, motion models.MotionType) (string, error)
	AttachKnowledgeFile(ctx context.Context, storeID, filename string, data []byte) (string, error)
}

// AdminHandler handles workspace configuration and knowledge-base uploads
type AdminHandler struct {
	configs        service.ConfigStore
	knowledge      KnowledgeAdmin
	sessionService *service.SessionService
	files          storage.Storage
	caseFiles      service.CaseFileStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(configs service.ConfigStore, knowledge KnowledgeAdmin, sessionService *service.SessionService, files storage.Storage, caseFiles service.CaseFileStore) *AdminHandler {
	return &AdminHandler{
		configs:        configs,
		knowledge:      knowledge,
		sessionService: sessionService,
		files:          files,
		caseFiles:      caseFiles,
	}
}

// GetConfig handles GET /api/admin/config
func (h *AdminHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configs.Get(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "GET_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"config":     cfg,
			"configured": cfg.Configured(),
		},
	})
}

// UpdateConfigRequest represents the request body for updating workspace
// configuration. Absent fields keep their current values.
type UpdateConfigRequest struct {
	VectorStores    map[string]string `json:"vector_stores"`
	DraftingAgentID *string           `json:"drafting_agent_id"`
}

// UpdateConfig handles PUT /api/admin/config
func (h *AdminHandler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, err := h.configs.Get(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "GET_FAILED", err.Error())
		return
	}
	if cfg.VectorStores == nil {
		cfg.VectorStores = models.VectorStoreIDs{}
	}

	for slug, storeID := range req.VectorStores {
		motion, err := models.ParseMotionType(slug)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_MOTION_TYPE", err.Error())
			return
		}
		cfg.VectorStores[motion] = storeID
	}
	if req.DraftingAgentID != nil {
		cfg.DraftingAgentID = *req.DraftingAgentID
	}
	cfg.UpdatedAt = time.Now()

	if err := h.configs.Save(c.Request.Context(), cfg); err != nil {
		respondError(c, http.StatusInternalServerError, "SAVE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"config":     cfg,
			"configured": cfg.Configured(),
		},
	})
}

// UploadKnowledge handles POST /api/admin/knowledge. The body is multipart:
// a "motion_type" field plus one "file" part. The motion's store is created
// on first upload and recorded in the workspace config.
func (h *AdminHandler) UploadKnowledge(c *gin.Context) {
	motion, err := models.ParseMotionType(c.PostForm("motion_type"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_MOTION_TYPE", err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "NO_FILE", "A knowledge document is required")
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

	ctx := c.Request.Context()
	cfg, err := h.configs.Get(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "GET_FAILED", err.Error())
		return
	}
	if cfg.VectorStores == nil {
		cfg.VectorStores = models.VectorStoreIDs{}
	}

	storeID, ok := cfg.StoreFor(motion)
	if !ok {
		storeID, err = h.knowledge.CreateStore(ctx, motion)
		if err != nil {
			respondError(c, http.StatusBadGateway, "STORE_CREATE_FAILED", err.Error())
			return
		}
		cfg.VectorStores[motion] = storeID
		cfg.UpdatedAt = time.Now()
		if err := h.configs.Save(ctx, cfg); err != nil {
			respondError(c, http.StatusInternalServerError, "SAVE_FAILED", err.Error())
			return
		}
	}

	fileID, err := h.knowledge.AttachKnowledgeFile(ctx, storeID, fileHeader.Filename, data)
	if err != nil {
		respondError(c, http.StatusBadGateway, "ATTACH_FAILED", err.Error())
		return
	}

	h.archiveKnowledgeFile(ctx, fileHeader.Filename, data)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"store_id": storeID,
			"file_id":  fileID,
		},
	})
}

// archiveKnowledgeFile keeps a workspace copy of the uploaded reference
// document. The vendor store is authoritative; failures here only log.
func (h *AdminHandler) archiveKnowledgeFile(ctx context.Context, filename string, data []byte) {
	if h.files == nil {
		return
	}

	kind, err := models.DocumentKindFromFilename(filename)
	if err != nil {
		log.Printf("Warning: knowledge file %s not archived: %v", filename, err)
		return
	}

	record := &models.CaseFile{
		ID:       uuid.New(),
		Filename: filename,
		Kind:     kind,
		Size:     int64(len(data)),
	}
	record.StoragePath, err = h.files.Upload(ctx, record.ID, filename, bytes.NewReader(data))
	if err != nil {
		log.Printf("Warning: knowledge file %s not archived: %v", filename, err)
		return
	}
	if h.caseFiles != nil {
		if err := h.caseFiles.Create(ctx, record); err != nil {
			log.Printf("Warning: knowledge file %s archive record failed: %v", filename, err)
		}
	}
}

// ResetWorkspace handles POST /api/admin/reset. Every session, uploaded case
// file and the workspace configuration is discarded.
func (h *AdminHandler) ResetWorkspace(c *gin.Context) {
	_, err := h.sessionService.ResetWorkspace(c.Request.Context(), service.ResetWorkspaceRequest{})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RESET_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
