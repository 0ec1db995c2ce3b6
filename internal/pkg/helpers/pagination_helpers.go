package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/internhub/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// PageRequest is a parsed, 1-based page request
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the number of rows to skip
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// ParsePaginationParams reads page and size from the query string, falling
// back to defaults on missing or malformed values
func ParsePaginationParams(c *gin.Context) PageRequest {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return PageRequest{Page: page, Size: size}
}

// NewPaginationInfo builds the pagination block of a listing response
func NewPaginationInfo(totalItems int64, req PageRequest) dto.PaginationInfo {
	size := req.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := req.Page
	if page < 1 {
		page = DefaultPage
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}
