package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/redmercy-dev/MotionsAssistant/service"
	"github.com/redmercy-dev/MotionsAssistant/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FileHandler serves uploaded case documents back to the client
type FileHandler struct {
	caseFiles service.CaseFileStore
	files     storage.Storage
}

// NewFileHandler creates a new file handler
func NewFileHandler(caseFiles service.CaseFileStore, files storage.Storage) *FileHandler {
	return &FileHandler{
		caseFiles: caseFiles,
		files:     files,
	}
}

// GetFile handles GET /api/files/:id
func (h *FileHandler) GetFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_ID", "Invalid file id format")
		return
	}

	file, err := h.caseFiles.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "GET_FAILED", err.Error())
		return
	}

	rc, err := h.files.Download(c.Request.Context(), file.StoragePath)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DOWNLOAD_FAILED", err.Error())
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Content-Type", file.Kind.MimeType())
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		// Headers are already written; nothing more to send.
		_ = c.Error(err)
	}
}
