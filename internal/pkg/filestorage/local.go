package filestorage

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/logger"
)

var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true,
	".ppt": true, ".pptx": true, ".xls": true, ".xlsx": true,
	".png": true, ".jpg": true, ".jpeg": true, ".zip": true,
}

// LocalStorage saves files under basePath/<category>/<uuid><ext>.
type LocalStorage struct {
	basePath string
	baseURL  string
	maxBytes int64
}

// NewLocalStorage creates basePath if needed. baseURL prefixes download URLs;
// maxBytes <= 0 disables the size check.
func NewLocalStorage(basePath, baseURL string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

// Save copies the upload into its category directory
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, category Category) (models.FileRef, error) {
	if fileHeader == nil {
		return models.FileRef{}, nil
	}
	if !category.Valid() {
		return models.FileRef{}, ErrInvalidFilePath
	}
	if ls.maxBytes > 0 && fileHeader.Size > ls.maxBytes {
		return models.FileRef{}, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return models.FileRef{}, ErrUnsupportedFile
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return models.FileRef{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(ls.basePath, string(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.FileRef{}, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return models.FileRef{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return models.FileRef{}, fmt.Errorf("failed to save file content: %w", err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			mimeType = guessed
		}
	}

	ref := models.FileRef{
		Name:       filepath.Base(fileHeader.Filename),
		Path:       path.Join(string(category), name),
		Size:       written,
		MimeType:   mimeType,
		UploadedAt: time.Now().UTC(),
	}
	logger.Info().Str("filename", ref.Name).Str("path", ref.Path).Int64("size", written).Msg("File saved")
	return ref, nil
}

// Resolve validates a stored path and returns where it lives on disk
func (ls *LocalStorage) Resolve(stored string) (string, error) {
	category, name, ok := strings.Cut(stored, "/")
	if !ok || !Category(category).Valid() {
		return "", ErrInvalidFilePath
	}
	if name == "" || name != filepath.Base(name) || name == ".." || name == "." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidFilePath
	}

	full := filepath.Join(ls.basePath, category, name)
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return "", ErrStoredFileNotFound
		}
		return "", err
	}
	return full, nil
}

// Delete removes a stored file
func (ls *LocalStorage) Delete(stored string) error {
	if stored == "" {
		return nil
	}
	full, err := ls.Resolve(stored)
	if err == ErrStoredFileNotFound {
		logger.Warn().Str("path", stored).Msg("File to delete does not exist")
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		logger.Error().Err(err).Str("path", full).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL builds the download URL served by the files route
func (ls *LocalStorage) URL(stored string) string {
	if stored == "" {
		return ""
	}
	return ls.baseURL + "/api/v1/files/" + stored
}
