// Package service holds the business rules between handlers and repositories:
// the listing query engine, listing lifecycle, blog, leads and the chatbot.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/repository"
	"github.com/julin-realestate/realestate-api/internal/storage"
)

// ErrUnavailable marks an optional collaborator that is not configured.
var ErrUnavailable = errors.New("unavailable")

// ListingReader is the read side used by the public surface.
type ListingReader interface {
	QueryAvailable(ctx context.Context, q repository.ListingQuery) ([]*model.Listing, error)
	GetAvailableBySlug(ctx context.Context, slug string) (*model.Listing, error)
}

// ListingStore is full access to listings.
type ListingStore interface {
	ListAll(ctx context.Context) ([]*model.Listing, error)
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Create(ctx context.Context, l *model.Listing) error
	Update(ctx context.Context, l *model.Listing) error
	SetStatus(ctx context.Context, id string, status model.ListingStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[model.ListingStatus]int, error)
}

// ImageStore uploads inline images and returns their public URL.
type ImageStore interface {
	UploadDataURL(ctx context.Context, dataURL, folder string) (string, error)
}

// Page is one page of the public listing feed.
type Page struct {
	Properties []*model.Listing `json:"properties"`
	NextCursor *string          `json:"nextCursor"`
}

// PublicReader answers public listing reads.  It only ever sees available
// listings and is meant to sit on the read-only pool.
type PublicReader struct {
	repo ListingReader
}

func NewPublicReader(repo ListingReader) *PublicReader {
	return &PublicReader{repo: repo}
}

// List returns one page of available listings, newest first.  It fetches one
// row beyond the page size to learn whether another page exists; the cursor
// is the creation time of the last row returned, so the next page starts
// right after it.  The cursor carries no id: rows sharing that timestamp
// which did not fit on the page are skipped.
func (r *PublicReader) List(ctx context.Context, p ListParams) (Page, error) {
	limit := ClampLimit(p.Limit, DefaultPageSize, MaxPageSize)
	rows, err := r.repo.QueryAvailable(ctx, repository.ListingQuery{
		Filter: p.Filter,
		Before: p.Cursor,
		Limit:  limit + 1,
	})
	if err != nil {
		return Page{}, fmt.Errorf("query available listings: %w", err)
	}

	page := Page{Properties: rows}
	if len(rows) > limit {
		page.Properties = rows[:limit]
		next := EncodeCursor(rows[limit-1].CreatedAt)
		page.NextCursor = &next
	}
	return page, nil
}

// Latest returns the newest n available listings for the home page.
func (r *PublicReader) Latest(ctx context.Context, n int) ([]*model.Listing, error) {
	rows, err := r.repo.QueryAvailable(ctx, repository.ListingQuery{
		Limit: ClampLimit(n, DefaultLatestSize, MaxPageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("query latest listings: %w", err)
	}
	return rows, nil
}

// BySlug returns an available listing or repository.ErrListingNotFound.
func (r *PublicReader) BySlug(ctx context.Context, slug string) (*model.Listing, error) {
	l, err := r.repo.GetAvailableBySlug(ctx, slug)
	if err != nil && !errors.Is(err, repository.ErrListingNotFound) {
		return nil, fmt.Errorf("get listing %q: %w", slug, err)
	}
	return l, err
}

// AllAvailable returns the whole available inventory, unpaginated.
func (r *PublicReader) AllAvailable(ctx context.Context) ([]*model.Listing, error) {
	rows, err := r.repo.QueryAvailable(ctx, repository.ListingQuery{})
	if err != nil {
		return nil, fmt.Errorf("query available listings: %w", err)
	}
	return rows, nil
}

// AdminWriter has full access to listings on the writer pool.  Callers are
// expected to have passed the admin guard.
type AdminWriter struct {
	repo   ListingStore
	images ImageStore
	log    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewAdminWriter builds the writer.  images may be nil, in which case inline
// data URL images are rejected as unavailable.
func NewAdminWriter(repo ListingStore, images ImageStore, log *zap.Logger) *AdminWriter {
	return &AdminWriter{
		repo:   repo,
		images: images,
		log:    log,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:  uuid.NewString,
	}
}

// ListAll returns every listing in any status, newest first.
func (w *AdminWriter) ListAll(ctx context.Context) ([]*model.Listing, error) {
	rows, err := w.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return rows, nil
}

func (w *AdminWriter) Get(ctx context.Context, id string) (*model.Listing, error) {
	l, err := w.repo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrListingNotFound) {
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	return l, err
}

// Create validates in, uploads inline images and stores a new listing.
func (w *AdminWriter) Create(ctx context.Context, in model.ListingInput) (*model.Listing, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	images, err := resolveImages(ctx, w.images, in.Images, "properties")
	if err != nil {
		return nil, err
	}

	l := in.Listing()
	l.Images = images
	l.ID = w.newID()
	l.CreatedAt = w.now()
	l.UpdatedAt = l.CreatedAt
	if err := w.repo.Create(ctx, &l); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create listing: %w", err)
	}
	w.log.Info("listing created", zap.String("id", l.ID), zap.String("slug", l.Slug))
	return &l, nil
}

// Update merges patch into the stored listing.  The merged record must pass
// the create rules, and a status change must follow the transition table.
func (w *AdminWriter) Update(ctx context.Context, id string, patch model.ListingPatch) (*model.Listing, error) {
	current, err := w.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := patch.Apply(*current)
	if err := merged.Input().Validate(); err != nil {
		return nil, err
	}
	if merged.Status != current.Status {
		if err := model.CheckTransition(current.Status, merged.Status); err != nil {
			return nil, err
		}
	}
	if patch.Images != nil {
		if merged.Images, err = resolveImages(ctx, w.images, merged.Images, "properties"); err != nil {
			return nil, err
		}
	}

	merged.UpdatedAt = w.now()
	if err := w.repo.Update(ctx, &merged); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) || errors.Is(err, repository.ErrListingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update listing %s: %w", id, err)
	}
	if merged.Status != current.Status {
		w.log.Info("listing status changed", zap.String("id", id),
			zap.String("from", string(current.Status)), zap.String("to", string(merged.Status)))
	}
	return &merged, nil
}

// SoftDelete hides a listing by moving it to draft.  It is an administrative
// override and does not consult the transition table.
func (w *AdminWriter) SoftDelete(ctx context.Context, id string) error {
	err := w.repo.SetStatus(ctx, id, model.StatusDraft, w.now())
	if err != nil && !errors.Is(err, repository.ErrListingNotFound) {
		return fmt.Errorf("soft delete listing %s: %w", id, err)
	}
	if err == nil {
		w.log.Info("listing moved to draft", zap.String("id", id))
	}
	return err
}

// HardDelete removes the row and, through the foreign key, its leads.
func (w *AdminWriter) HardDelete(ctx context.Context, id string) error {
	err := w.repo.Delete(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrListingNotFound) {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	if err == nil {
		w.log.Warn("listing permanently deleted", zap.String("id", id))
	}
	return err
}

func (w *AdminWriter) CountByStatus(ctx context.Context) (map[model.ListingStatus]int, error) {
	counts, err := w.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	return counts, nil
}

// resolveImages replaces data URL entries with uploaded URLs, keeping order.
func resolveImages(ctx context.Context, store ImageStore, images []string, folder string) ([]string, error) {
	out := make([]string, len(images))
	for i, img := range images {
		if !storage.IsDataURL(img) {
			out[i] = img
			continue
		}
		if store == nil {
			return nil, fmt.Errorf("image storage %w", ErrUnavailable)
		}
		u, err := store.UploadDataURL(ctx, img, folder)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidImage) {
				return nil, model.NewValidationError(fmt.Sprintf("images[%d]", i), err.Error())
			}
			return nil, fmt.Errorf("upload image %d: %w", i, err)
		}
		out[i] = u
	}
	return out, nil
}
