package repository

// This file defines the listing repository.  Listings live in the
// `properties` table; images are stored as a JSON array so their order and
// duplicates survive a round trip.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julin-realestate/realestate-api/internal/model"
)

// ListingRepo encapsulates all queries against the properties table.  The
// public reader is built on the read-only pool and the admin writer on the
// writer pool; both use this type.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo constructs a ListingRepo with the provided DB handle.
func NewListingRepo(db *sql.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(s rowScanner) (*model.Listing, error) {
	var (
		l        model.Listing
		typ      string
		status   string
		lat, lng sql.NullFloat64
		images   []byte
	)
	err := s.Scan(&l.ID, &l.Slug, &l.Title, &l.Description, &typ, &status, &l.Price, &l.Currency,
		&l.County, &l.Town, &l.Area, &lat, &lng, &images, &l.IsFeatured, &l.MetaTitle, &l.MetaDescription,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Type = model.ListingType(typ)
	l.Status = model.ListingStatus(status)
	if lat.Valid && lng.Valid {
		l.Coordinates = &model.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	l.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &l.Images); err != nil {
			return nil, fmt.Errorf("decode images of %s: %w", l.ID, err)
		}
	}
	return &l, nil
}

func (r *ListingRepo) queryListings(ctx context.Context, q string, args ...any) ([]*model.Listing, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// QueryAvailable returns available listings matching q, newest first.
func (r *ListingRepo) QueryAvailable(ctx context.Context, q ListingQuery) ([]*model.Listing, error) {
	query, args := buildAvailableQuery(q)
	return r.queryListings(ctx, query, args...)
}

// ListAll returns every listing regardless of status, newest first.
func (r *ListingRepo) ListAll(ctx context.Context) ([]*model.Listing, error) {
	return r.queryListings(ctx, "SELECT "+listingColumns+" FROM properties ORDER BY created_at DESC, id DESC")
}

// GetByID fetches a listing in any status.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+listingColumns+" FROM properties WHERE id = ?", id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	return l, err
}

// GetAvailableBySlug fetches a listing by slug only while it is available.
func (r *ListingRepo) GetAvailableBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM properties WHERE slug = ? AND status = ?",
		slug, string(model.StatusAvailable))
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	return l, err
}

func coordinateArgs(c *model.Coordinates) (any, any) {
	if c == nil {
		return nil, nil
	}
	return c.Lat, c.Lng
}

// Create inserts l.  The caller assigns the id and timestamps.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	images, err := json.Marshal(l.Images)
	if err != nil {
		return err
	}
	lat, lng := coordinateArgs(l.Coordinates)
	const q = `INSERT INTO properties (id, slug, title, description, property_type, status, price, currency,
		county, town, area, latitude, longitude, images, is_featured, meta_title, meta_description,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q, l.ID, l.Slug, l.Title, l.Description, string(l.Type), string(l.Status),
		l.Price, l.Currency, l.County, l.Town, l.Area, lat, lng, images, l.IsFeatured, l.MetaTitle,
		l.MetaDescription, l.CreatedAt.UTC(), l.UpdatedAt.UTC())
	if isDuplicateKey(err) {
		return ErrSlugTaken
	}
	return err
}

// Update overwrites every mutable column of the row identified by l.ID.
// It returns ErrListingNotFound when no row matches.
func (r *ListingRepo) Update(ctx context.Context, l *model.Listing) error {
	images, err := json.Marshal(l.Images)
	if err != nil {
		return err
	}
	lat, lng := coordinateArgs(l.Coordinates)
	const q = `UPDATE properties SET slug = ?, title = ?, description = ?, property_type = ?, status = ?,
		price = ?, currency = ?, county = ?, town = ?, area = ?, latitude = ?, longitude = ?, images = ?,
		is_featured = ?, meta_title = ?, meta_description = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, l.Slug, l.Title, l.Description, string(l.Type), string(l.Status),
		l.Price, l.Currency, l.County, l.Town, l.Area, lat, lng, images, l.IsFeatured, l.MetaTitle,
		l.MetaDescription, l.UpdatedAt.UTC(), l.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlugTaken
		}
		return err
	}
	return expectOne(res, ErrListingNotFound)
}

// SetStatus changes only the status column.  Soft delete uses it to move a
// listing back to draft.
func (r *ListingRepo) SetStatus(ctx context.Context, id string, status model.ListingStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE properties SET status = ?, updated_at = ? WHERE id = ?", string(status), at.UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrListingNotFound)
}

// Delete removes the row permanently.  Leads pointing at it are removed by
// the foreign key cascade.
func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrListingNotFound)
}

// CountByStatus returns how many listings are in each status.  Statuses with
// no rows are reported as zero.
func (r *ListingRepo) CountByStatus(ctx context.Context) (map[model.ListingStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM properties GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.ListingStatus]int, len(model.ListingStatuses))
	for _, s := range model.ListingStatuses {
		out[s] = 0
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[model.ListingStatus(status)] = n
	}
	return out, rows.Err()
}

// expectOne maps a zero-row write to notFound.  The DSN sets
// clientFoundRows so an update that changes nothing still counts its match.
func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
