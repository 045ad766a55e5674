package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithQuery(query string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/tasks?"+query, nil)
	return c
}

func TestGetListParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		completed *bool
		limit     int
		skip      int
		column    string
		desc      bool
	}{
		{name: "defaults", query: "", column: "created_at"},
		{name: "completed true", query: "completed=true", completed: boolPtr(true), column: "created_at"},
		{name: "completed other value", query: "completed=yes", completed: boolPtr(false), column: "created_at"},
		{name: "limit and skip", query: "limit=2&skip=4", limit: 2, skip: 4, column: "created_at"},
		{name: "invalid numbers ignored", query: "limit=abc&skip=-3", column: "created_at"},
		{name: "limit capped", query: "limit=5000", limit: 100, column: "created_at"},
		{name: "sort desc", query: "sortBy=createdAt:desc", column: "created_at", desc: true},
		{name: "sort asc", query: "sortBy=description:asc", column: "description"},
		{name: "sort without direction", query: "sortBy=completed", column: "completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := GetListParams(contextWithQuery(tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.completed, params.Completed)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.skip, params.Skip)
			assert.Equal(t, tt.column, params.SortColumn)
			assert.Equal(t, tt.desc, params.Desc)
		})
	}
}

func TestGetListParams_UnknownSortField(t *testing.T) {
	_, err := GetListParams(contextWithQuery("sortBy=password:desc"))
	require.Error(t, err)
}

func boolPtr(b bool) *bool { return &b }
