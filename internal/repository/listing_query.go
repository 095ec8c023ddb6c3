package repository

import (
	"strings"
	"time"

	"github.com/julin-realestate/realestate-api/internal/model"
)

// ListingFilter narrows the public listing read.  Empty fields apply no predicate.
type ListingFilter struct {
	County   string
	Type     model.ListingType
	MinPrice *float64
	MaxPrice *float64
}

// ListingQuery requests one page of available listings, newest first.
type ListingQuery struct {
	Filter ListingFilter
	Before *time.Time // only rows created strictly before this instant
	Limit  int        // rows to fetch; zero means no limit
}

const listingColumns = `id, slug, title, description, property_type, status, price, currency,
	county, town, area, latitude, longitude, images, is_featured, meta_title, meta_description,
	created_at, updated_at`

// buildAvailableQuery renders q as SQL plus positional args.  Status is
// always pinned to available; the id tiebreak keeps ordering stable for rows
// that share a timestamp.
func buildAvailableQuery(q ListingQuery) (string, []any) {
	where := []string{"status = ?"}
	args := []any{string(model.StatusAvailable)}

	if q.Filter.County != "" {
		where = append(where, "county = ?")
		args = append(args, q.Filter.County)
	}
	if q.Filter.Type != "" {
		where = append(where, "property_type = ?")
		args = append(args, string(q.Filter.Type))
	}
	if q.Filter.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *q.Filter.MinPrice)
	}
	if q.Filter.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *q.Filter.MaxPrice)
	}
	if q.Before != nil {
		where = append(where, "created_at < ?")
		args = append(args, q.Before.UTC())
	}

	query := "SELECT " + listingColumns + " FROM properties WHERE " +
		strings.Join(where, " AND ") + " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}
	return query, args
}
