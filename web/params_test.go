package web

import (
	"net/http/httptest"
	"testing"

	"github.com/commstack/portal/model"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestParamsFromRequestDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/communities", nil)

	params := ParamsFromRequest(r)

	assert.Equal(t, PAGE_DEFAULT, params.Page)
	assert.Equal(t, PER_PAGE_DEFAULT, params.PerPage)
	assert.Empty(t, params.SortType)
	assert.Zero(t, params.FromDate)
	assert.Zero(t, params.ToDate)
}

func TestParamsFromRequestPaging(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/communities?page=3&per_page=20", nil)
	params := ParamsFromRequest(r)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 20, params.PerPage)

	r = httptest.NewRequest("GET", "/api/v1/communities?page=-1&per_page=0", nil)
	params = ParamsFromRequest(r)
	assert.Equal(t, PAGE_DEFAULT, params.Page)
	assert.Equal(t, PER_PAGE_DEFAULT, params.PerPage)

	r = httptest.NewRequest("GET", "/api/v1/communities?per_page=5000", nil)
	params = ParamsFromRequest(r)
	assert.Equal(t, PER_PAGE_MAXIMUM, params.PerPage)

	r = httptest.NewRequest("GET", "/api/v1/communities?page=abc&per_page=abc", nil)
	params = ParamsFromRequest(r)
	assert.Equal(t, PAGE_DEFAULT, params.Page)
	assert.Equal(t, PER_PAGE_DEFAULT, params.PerPage)
}

func TestParamsFromRequestQueryFilters(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/posts?sort=creation&from_date=100&to_date=200", nil)
	params := ParamsFromRequest(r)
	assert.Equal(t, model.POST_SORT_TYPE_CREATION, params.SortType)
	assert.Equal(t, int64(100), params.FromDate)
	assert.Equal(t, int64(200), params.ToDate)

	// unknown sort values are dropped rather than passed through
	r = httptest.NewRequest("GET", "/api/v1/posts?sort=alphabetical&from_date=-5", nil)
	params = ParamsFromRequest(r)
	assert.Empty(t, params.SortType)
	assert.Zero(t, params.FromDate)
}

func TestParamsFromRequestRouteVars(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/communities/slug/gophers/posts/news/release-notes", nil)
	r = mux.SetURLVars(r, map[string]string{
		"community_slug": "gophers",
		"post_type":      "news",
		"post_slug":      "release-notes",
	})

	params := ParamsFromRequest(r)
	assert.Equal(t, "gophers", params.CommunitySlug)
	assert.Equal(t, "news", params.PostType)
	assert.Equal(t, "release-notes", params.PostSlug)
}
