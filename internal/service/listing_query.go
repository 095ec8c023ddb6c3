package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/repository"
)

const (
	DefaultPageSize   = 10
	MaxPageSize       = 50
	DefaultLatestSize = 6
)

// ClampLimit maps a requested page size onto [1, max].  Non-positive values
// fall back to def.
func ClampLimit(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// EncodeCursor renders the page boundary handed to clients.
func EncodeCursor(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// DecodeCursor parses a cursor produced by EncodeCursor.
func DecodeCursor(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, model.NewValidationError("cursor", "must be an RFC 3339 timestamp")
	}
	return t.UTC(), nil
}

// ListParams is a parsed public listing query.
type ListParams struct {
	Filter repository.ListingFilter
	Cursor *time.Time
	Limit  int
}

// RawListParams holds the query string values exactly as received.
type RawListParams struct {
	County   string
	Type     string
	MinPrice string
	MaxPrice string
	Cursor   string
	Limit    string
}

// ParseListParams validates raw query values.  Every malformed value is
// reported in a single *model.ValidationError.
func ParseListParams(raw RawListParams) (ListParams, error) {
	var (
		p  ListParams
		ve = &model.ValidationError{}
	)

	p.Filter.County = strings.TrimSpace(raw.County)
	if t := strings.TrimSpace(raw.Type); t != "" {
		lt := model.ListingType(strings.ToLower(t))
		if !lt.Valid() {
			ve.Add("type", "must be one of: land, house, apartment, commercial, vehicle, other")
		}
		p.Filter.Type = lt
	}

	parsePrice := func(field, s string) *float64 {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			ve.Add(field, "must be a non-negative number")
			return nil
		}
		return &v
	}
	p.Filter.MinPrice = parsePrice("minPrice", raw.MinPrice)
	p.Filter.MaxPrice = parsePrice("maxPrice", raw.MaxPrice)

	if s := strings.TrimSpace(raw.Cursor); s != "" {
		t, err := DecodeCursor(s)
		if err != nil {
			ve.Add("cursor", "must be an RFC 3339 timestamp")
		} else {
			p.Cursor = &t
		}
	}

	if s := strings.TrimSpace(raw.Limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			ve.Add("limit", "must be an integer")
		}
		p.Limit = n
	}

	if len(ve.Fields) > 0 {
		return ListParams{}, ve
	}
	return p, nil
}
