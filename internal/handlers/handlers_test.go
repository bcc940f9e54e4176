package handlers

import (
	"net/http/httptest"
	"testing"

	"restaurant_site/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "Yes", " yes "} {
		assert.True(t, truthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "maybe", "on"} {
		assert.False(t, truthy(v), v)
	}
}

func TestMediaURL(t *testing.T) {
	tests := []struct {
		prefix, ref, want string
	}{
		{"/media/", "menu_items/soup_1.jpg", "/media/menu_items/soup_1.jpg"},
		{"/media", "/restaurant/logo.png", "/media/restaurant/logo.png"},
		{"/media/", "https://res.cloudinary.com/demo/image/upload/x.jpg", "https://res.cloudinary.com/demo/image/upload/x.jpg"},
		{"/media/", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MediaURL(tt.prefix, tt.ref))
	}
}

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/admin/things?"+rawQuery, nil)
	return c
}

func TestListQuery(t *testing.T) {
	list := listSpec{
		searchFields: []string{"name"},
		filters: map[string]filterKind{
			"category":     filterString,
			"is_available": filterBool,
			"rating":       filterInt,
		},
	}

	q, err := listQuery(queryContext("search=soup&page=2&limit=5&category=main&is_available=no&rating=4"), list)
	require.NoError(t, err)
	assert.Equal(t, "soup", q.Search)
	assert.Equal(t, []string{"name"}, q.SearchFields)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, map[string]interface{}{"category": "main", "is_available": false, "rating": 4}, q.Filters)

	q, err = listQuery(queryContext(""), list)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, repository.DefaultPageSize, q.Limit)
	assert.Empty(t, q.Filters)

	for _, raw := range []string{"page=0", "limit=abc", "is_available=perhaps", "rating=high"} {
		_, err := listQuery(queryContext(raw), list)
		assert.Error(t, err, raw)
	}
}
