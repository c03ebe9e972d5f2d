package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListParams are the standardized list-endpoint query parameters.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortField string
	SortOrder string
}

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// ParseListParams extracts standardized list parameters from a request.
func ParseListParams(c *gin.Context) ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	sortOrder := c.DefaultQuery("sortOrder", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return ListParams{
		Page:      page,
		Limit:     limit,
		Search:    c.Query("search"),
		SortField: c.DefaultQuery("sortBy", "created_at"),
		SortOrder: sortOrder,
	}
}

// ApplySearch applies a case-insensitive substring search over the given
// columns.
func ApplySearch(dbQuery *gorm.DB, search string, searchFields []string) *gorm.DB {
	if search == "" || len(searchFields) == 0 {
		return dbQuery
	}

	conditions := make([]string, len(searchFields))
	args := make([]interface{}, len(searchFields))
	for i, field := range searchFields {
		conditions[i] = fmt.Sprintf("%s ILIKE ?", field)
		args[i] = "%" + search + "%"
	}
	return dbQuery.Where(strings.Join(conditions, " OR "), args...)
}

// ApplySort orders by an allow-listed column, defaulting to recency.
func ApplySort(dbQuery *gorm.DB, params ListParams, allowedSortFields map[string]string) *gorm.DB {
	if dbField, allowed := allowedSortFields[params.SortField]; allowed {
		return dbQuery.Order(fmt.Sprintf("%s %s", dbField, strings.ToUpper(params.SortOrder)))
	}
	return dbQuery.Order("created_at DESC")
}

// ApplyPagination applies offset pagination.
func ApplyPagination(dbQuery *gorm.DB, params ListParams) *gorm.DB {
	offset := (params.Page - 1) * params.Limit
	return dbQuery.Offset(offset).Limit(params.Limit)
}

// BuildPaginationResponse creates pagination metadata
func BuildPaginationResponse(params ListParams, total int64) PaginationResponse {
	totalPages := (total + int64(params.Limit) - 1) / int64(params.Limit)
	return PaginationResponse{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < int(totalPages),
		HasPrev:    params.Page > 1,
	}
}
