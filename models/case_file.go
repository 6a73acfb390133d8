package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentKind is the declared kind of an uploaded case document
type DocumentKind string

const (
	DocPDF  DocumentKind = "pdf"
	DocDOCX DocumentKind = "docx"
	DocTXT  DocumentKind = "txt"
)

// DocumentKindFromFilename infers the document kind from a filename
func DocumentKindFromFilename(filename string) (DocumentKind, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return DocPDF, nil
	case strings.HasSuffix(lower, ".docx"):
		return DocDOCX, nil
	case strings.HasSuffix(lower, ".txt"):
		return DocTXT, nil
	}
	return "", fmt.Errorf("unsupported document type: %s", filename)
}

// MimeType returns the MIME type for the document kind
func (k DocumentKind) MimeType() string {
	switch k {
	case DocPDF:
		return "application/pdf"
	case DocDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case DocTXT:
		return "text/plain"
	}
	return "application/octet-stream"
}

// CaseFile represents an uploaded case document
type CaseFile struct {
	ID          uuid.UUID    `json:"id"`
	SessionID   *uuid.UUID   `json:"session_id,omitempty"`
	Filename    string       `json:"filename"`
	Kind        DocumentKind `json:"kind"`
	Size        int64        `json:"size"`
	StoragePath string       `json:"storage_path"`
	CreatedAt   time.Time    `json:"created_at"`
}
