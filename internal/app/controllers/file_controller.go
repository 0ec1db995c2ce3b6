package controllers

import (
	"context"
	"errors"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/domain/workflow"
	"github.com/yigit/internhub/internal/middleware"
	"github.com/yigit/internhub/internal/pkg/filestorage"
)

// FileAuthorizer decides whether an actor may read a stored path
type FileAuthorizer interface {
	AuthorizeFile(ctx context.Context, actor workflow.Actor, stored string) error
}

// FileAuthorizerFunc adapts a function to FileAuthorizer
type FileAuthorizerFunc func(ctx context.Context, actor workflow.Actor, stored string) error

func (f FileAuthorizerFunc) AuthorizeFile(ctx context.Context, actor workflow.Actor, stored string) error {
	return f(ctx, actor, stored)
}

// FileController serves stored uploads to the users allowed to see them
type FileController struct {
	storage filestorage.FileStorage
	access  map[filestorage.Category]FileAuthorizer
	logger  zerolog.Logger
}

// NewFileController creates a new FileController. documents are checked
// against applications, tasks and responses against tasks.
func NewFileController(storage filestorage.FileStorage, documents, tasks FileAuthorizer, logger zerolog.Logger) *FileController {
	return &FileController{
		storage: storage,
		access: map[filestorage.Category]FileAuthorizer{
			filestorage.CategoryDocuments: documents,
			filestorage.CategoryTasks:     tasks,
			filestorage.CategoryResponses: tasks,
		},
		logger: logger,
	}
}

// Download godoc
// @Summary Download a stored file
// @Tags files
// @Produce octet-stream
// @Security BearerAuth
// @Param category path string true "Category" Enums(documents, tasks, responses)
// @Param name path string true "Stored file name"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /files/{category}/{name} [get]
func (c *FileController) Download(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	category := filestorage.Category(ctx.Param("category"))
	stored := path.Join(string(category), ctx.Param("name"))
	if !category.Valid() {
		c.logger.Warn().Str("path", stored).Msg("Rejected file request")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid file path"),
		))
		return
	}
	if err := c.access[category].AuthorizeFile(ctx.Request.Context(), actor, stored); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	full, err := c.storage.Resolve(stored)
	switch {
	case errors.Is(err, filestorage.ErrStoredFileNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "File not found"),
		))
		return
	case err != nil:
		c.logger.Warn().Err(err).Str("path", stored).Msg("Rejected file request")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid file path"),
		))
		return
	}
	ctx.File(full)
}
