package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julin-realestate/realestate-api/internal/model"
)

func TestBuildAvailableQueryNoFilters(t *testing.T) {
	q, args := buildAvailableQuery(ListingQuery{Limit: 11})

	assert.Contains(t, q, "WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ?")
	assert.Equal(t, []any{"available", 11}, args)
}

func TestBuildAvailableQueryAllFilters(t *testing.T) {
	minP, maxP := 500000.0, 2500000.0
	before := time.Date(2026, 3, 1, 8, 30, 0, 123456000, time.FixedZone("EAT", 3*3600))

	q, args := buildAvailableQuery(ListingQuery{
		Filter: ListingFilter{County: "Kajiado", Type: model.TypeLand, MinPrice: &minP, MaxPrice: &maxP},
		Before: &before,
		Limit:  6,
	})

	where := q[strings.Index(q, "WHERE"):]
	assert.Equal(t,
		"WHERE status = ? AND county = ? AND property_type = ? AND price >= ? AND price <= ? AND created_at < ? ORDER BY created_at DESC, id DESC LIMIT ?",
		where)
	assert.Equal(t, []any{"available", "Kajiado", "land", 500000.0, 2500000.0, before.UTC(), 6}, args)
}

func TestBuildAvailableQueryUnlimited(t *testing.T) {
	q, args := buildAvailableQuery(ListingQuery{Filter: ListingFilter{County: "Nairobi"}})

	assert.NotContains(t, q, "LIMIT")
	assert.Equal(t, []any{"available", "Nairobi"}, args)
}
