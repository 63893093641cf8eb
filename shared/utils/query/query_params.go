package query

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PageParams represents pagination parameters
type PageParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParsePageParams extracts pagination parameters from the Gin context.
func ParsePageParams(c *gin.Context) PageParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	return PageParams{Page: page, PageSize: pageSize}
}

// ApplyPagination applies pagination to a GORM query
func ApplyPagination(query *gorm.DB, params PageParams) *gorm.DB {
	offset := (params.Page - 1) * params.PageSize
	return query.Offset(offset).Limit(params.PageSize)
}

// BuildPaginationResponse creates pagination metadata
func BuildPaginationResponse(params PageParams, total int64) PaginationResponse {
	totalPages := (total + int64(params.PageSize) - 1) / int64(params.PageSize)
	return PaginationResponse{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < int(totalPages),
		HasPrev:    params.Page > 1,
	}
}
