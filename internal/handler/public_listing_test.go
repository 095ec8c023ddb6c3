package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julin-realestate/realestate-api/internal/model"
)

type pageBody struct {
	Properties []model.Listing `json:"properties"`
	NextCursor *string         `json:"nextCursor"`
}

func decodePage(t *testing.T, body string) pageBody {
	t.Helper()
	var p pageBody
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestListPropertiesPaginates(t *testing.T) {
	f := newFixture(
		listing("e", 50, model.StatusAvailable),
		listing("d", 40, model.StatusSold),
		listing("c", 30, model.StatusAvailable),
		listing("b", 20, model.StatusAvailable),
		listing("a", 10, model.StatusAvailable),
	)

	rec := do(f.public.ListProperties, http.MethodGet, "/api/properties?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodePage(t, rec.Body.String())
	require.Len(t, first.Properties, 2)
	assert.Equal(t, "e", first.Properties[0].ID)
	assert.Equal(t, "c", first.Properties[1].ID)
	require.NotNil(t, first.NextCursor)

	rec = do(f.public.ListProperties, http.MethodGet,
		"/api/properties?limit=2&cursor="+url.QueryEscape(*first.NextCursor), "")
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodePage(t, rec.Body.String())
	require.Len(t, second.Properties, 2)
	assert.Equal(t, "b", second.Properties[0].ID)
	assert.Equal(t, "a", second.Properties[1].ID)
	assert.Nil(t, second.NextCursor)
	assert.Contains(t, rec.Body.String(), `"nextCursor":null`)
}

func TestListPropertiesRejectsMalformedQuery(t *testing.T) {
	f := newFixture()

	rec := do(f.public.ListProperties, http.MethodGet, "/api/properties?cursor=yesterday&minPrice=-4&type=castle", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Fields, "cursor")
	assert.Contains(t, body.Fields, "minPrice")
	assert.Contains(t, body.Fields, "type")
}

func TestListPropertiesEmptyIsArray(t *testing.T) {
	f := newFixture()

	rec := do(f.public.ListProperties, http.MethodGet, "/api/properties", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"properties":[],"nextCursor":null}`, rec.Body.String())
}

func TestListPropertiesHidesStoreErrors(t *testing.T) {
	f := newFixture()
	f.listings.err = errBoom

	rec := do(f.public.ListProperties, http.MethodGet, "/api/properties", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"request failed"}`, rec.Body.String())
}

func TestGetPropertyOnlyAvailable(t *testing.T) {
	f := newFixture(listing("a", 1, model.StatusAvailable), listing("b", 2, model.StatusDraft))

	rec := do(f.public.GetProperty, http.MethodGet, "/api/properties/plot-a", "", withParam("slug", "plot-a"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"plot-a"`)

	rec = do(f.public.GetProperty, http.MethodGet, "/api/properties/plot-b", "", withParam("slug", "plot-b"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLatestProperties(t *testing.T) {
	f := newFixture(listing("b", 2, model.StatusAvailable), listing("a", 1, model.StatusAvailable))

	rec := do(f.public.LatestProperties, http.MethodGet, "/api/properties/latest?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `"slug"`))

	rec = do(f.public.LatestProperties, http.MethodGet, "/api/properties/latest?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicBlogHidesDrafts(t *testing.T) {
	f := newFixture()
	f.posts.posts = []*model.BlogPost{
		{ID: "1", Slug: "buying-land-in-kenya", Title: "Buying land", Published: true},
		{ID: "2", Slug: "draft-post", Title: "Draft", Published: false},
	}

	rec := do(f.public.ListPosts, http.MethodGet, "/api/blog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "buying-land-in-kenya")
	assert.NotContains(t, rec.Body.String(), "draft-post")

	rec = do(f.public.GetPost, http.MethodGet, "/api/blog/draft-post", "", withParam("slug", "draft-post"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSitemap(t *testing.T) {
	f := newFixture(listing("a", 1, model.StatusAvailable), listing("b", 2, model.StatusSold))
	f.posts.posts = []*model.BlogPost{{ID: "1", Slug: "title-deeds-explained", Published: true, UpdatedAt: t0}}

	rec := do(f.public.Sitemap("https://julin.co.ke/"), http.MethodGet, "/sitemap.xml", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://julin.co.ke/</loc>")
	assert.Contains(t, body, "<loc>https://julin.co.ke/properties</loc>")
	assert.Contains(t, body, "<loc>https://julin.co.ke/properties/plot-a</loc>")
	assert.NotContains(t, body, "plot-b")
	assert.Contains(t, body, "<loc>https://julin.co.ke/blog/title-deeds-explained</loc>")
	assert.Contains(t, body, "<lastmod>2026-03-01T08:01:00Z</lastmod>")
}
