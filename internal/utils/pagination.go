package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/constants"
)

// sortColumns maps accepted sortBy fields to database columns.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"created_at":  "created_at",
	"updatedAt":   "updated_at",
	"updated_at":  "updated_at",
	"description": "description",
	"completed":   "completed",
}

// DefaultSortColumn orders tasks by insertion time.
const DefaultSortColumn = "created_at"

// ListParams holds the filter, pagination and sort options of a task listing
type ListParams struct {
	Completed  *bool
	Limit      int
	Skip       int
	SortColumn string
	Desc       bool
}

// GetListParams extracts listing options from the query string.
//
//	?completed=true&limit=10&skip=20&sortBy=createdAt:desc
//
// completed=true selects completed tasks, any other value selects open ones.
// Invalid limit/skip values are ignored; limit is capped at MaxPageSize.
func GetListParams(c *gin.Context) (ListParams, error) {
	params := ListParams{SortColumn: DefaultSortColumn}

	if raw, ok := c.GetQuery("completed"); ok {
		completed := raw == "true"
		params.Completed = &completed
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		if limit > constants.MaxPageSize {
			limit = constants.MaxPageSize
		}
		params.Limit = limit
	}
	if skip, err := strconv.Atoi(c.Query("skip")); err == nil && skip > 0 {
		params.Skip = skip
	}

	if sortBy := c.Query("sortBy"); sortBy != "" {
		field, direction, _ := strings.Cut(sortBy, ":")
		column, ok := sortColumns[field]
		if !ok {
			return ListParams{}, fmt.Errorf("cannot sort by %q", field)
		}
		params.SortColumn = column
		params.Desc = direction == "desc"
	}

	return params, nil
}
