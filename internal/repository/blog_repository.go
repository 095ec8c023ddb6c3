package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/julin-realestate/realestate-api/internal/model"
)

// BlogRepo encapsulates queries against the blog_posts table.
type BlogRepo struct {
	db *sql.DB
}

func NewBlogRepo(db *sql.DB) *BlogRepo {
	return &BlogRepo{db: db}
}

const blogColumns = "id, title, slug, content, cover_image, published, created_at, updated_at"

func scanPost(s rowScanner) (*model.BlogPost, error) {
	var p model.BlogPost
	if err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.CoverImage, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *BlogRepo) queryPosts(ctx context.Context, q string, args ...any) ([]*model.BlogPost, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *BlogRepo) getOne(ctx context.Context, q string, args ...any) (*model.BlogPost, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	return p, err
}

// ListPublished returns published posts, newest first.
func (r *BlogRepo) ListPublished(ctx context.Context) ([]*model.BlogPost, error) {
	return r.queryPosts(ctx, "SELECT "+blogColumns+" FROM blog_posts WHERE published = TRUE ORDER BY created_at DESC")
}

// ListAll returns drafts and published posts, newest first.
func (r *BlogRepo) ListAll(ctx context.Context) ([]*model.BlogPost, error) {
	return r.queryPosts(ctx, "SELECT "+blogColumns+" FROM blog_posts ORDER BY created_at DESC")
}

// GetPublishedBySlug hides unpublished posts behind ErrPostNotFound.
func (r *BlogRepo) GetPublishedBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	return r.getOne(ctx, "SELECT "+blogColumns+" FROM blog_posts WHERE slug = ? AND published = TRUE", slug)
}

func (r *BlogRepo) GetByID(ctx context.Context, id string) (*model.BlogPost, error) {
	return r.getOne(ctx, "SELECT "+blogColumns+" FROM blog_posts WHERE id = ?", id)
}

func (r *BlogRepo) Create(ctx context.Context, p *model.BlogPost) error {
	const q = `INSERT INTO blog_posts (id, title, slug, content, cover_image, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Title, p.Slug, p.Content, p.CoverImage, p.Published,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if isDuplicateKey(err) {
		return ErrSlugTaken
	}
	return err
}

func (r *BlogRepo) Update(ctx context.Context, p *model.BlogPost) error {
	const q = `UPDATE blog_posts SET title = ?, slug = ?, content = ?, cover_image = ?, published = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Title, p.Slug, p.Content, p.CoverImage, p.Published, p.UpdatedAt.UTC(), p.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlugTaken
		}
		return err
	}
	return expectOne(res, ErrPostNotFound)
}

// SetPublished flips the published flag without touching the content.
func (r *BlogRepo) SetPublished(ctx context.Context, id string, published bool, at time.Time) error {
	res, err := r.db.ExecContext(ctx, "UPDATE blog_posts SET published = ?, updated_at = ? WHERE id = ?", published, at.UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrPostNotFound)
}

func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM blog_posts WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrPostNotFound)
}

// Count returns the number of posts, published or not.
func (r *BlogRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blog_posts").Scan(&n)
	return n, err
}
