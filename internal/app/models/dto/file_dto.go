package dto

import (
	"time"

	"github.com/yigit/internhub/internal/app/models"
)

// FileResponse describes a stored file and where to download it
type FileResponse struct {
	Name       string    `json:"name" example:"transcript.pdf"`
	URL        string    `json:"url" example:"http://localhost:8080/api/v1/files/documents/7f1c9a0e.pdf"`
	Size       int64     `json:"size" example:"204800"`
	MimeType   string    `json:"mimeType" example:"application/pdf"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// URLFunc turns a stored path into a download URL
type URLFunc func(path string) string

// NewFileResponse returns nil when no file is referenced
func NewFileResponse(ref models.FileRef, url URLFunc) *FileResponse {
	if ref.IsZero() {
		return nil
	}
	resp := &FileResponse{
		Name:       ref.Name,
		Size:       ref.Size,
		MimeType:   ref.MimeType,
		UploadedAt: ref.UploadedAt,
	}
	if url != nil {
		resp.URL = url(ref.Path)
	}
	return resp
}
