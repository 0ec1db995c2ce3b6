package filestorage

import (
	"errors"
	"mime/multipart"

	"github.com/yigit/internhub/internal/app/models"
)

// Category is the subdirectory a file is stored under
type Category string

const (
	CategoryDocuments Category = "documents"
	CategoryTasks     Category = "tasks"
	CategoryResponses Category = "responses"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryDocuments, CategoryTasks, CategoryResponses:
		return true
	}
	return false
}

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedFile    = errors.New("file type is not allowed")
	ErrInvalidFilePath    = errors.New("invalid file path")
	ErrStoredFileNotFound = errors.New("stored file not found")
)

// FileStorage stores uploads and hands back a models.FileRef. Only the
// reference is persisted by callers.
type FileStorage interface {
	// Save stores an upload under category
	Save(fileHeader *multipart.FileHeader, category Category) (models.FileRef, error)

	// Resolve maps a stored path such as "documents/x.pdf" to a filesystem path
	Resolve(path string) (string, error)

	// Delete removes a stored file; missing files are not an error
	Delete(path string) error

	// URL returns the public download URL of a stored path
	URL(path string) string
}
