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

type BlogStore interface {
	ListPublished(ctx context.Context) ([]*model.BlogPost, error)
	ListAll(ctx context.Context) ([]*model.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	GetByID(ctx context.Context, id string) (*model.BlogPost, error)
	Create(ctx context.Context, p *model.BlogPost) error
	Update(ctx context.Context, p *model.BlogPost) error
	SetPublished(ctx context.Context, id string, published bool, at time.Time) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// BlogService manages blog posts.  Public callers only see published posts.
type BlogService struct {
	repo   BlogStore
	images ImageStore
	log    *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewBlogService(repo BlogStore, images ImageStore, log *zap.Logger) *BlogService {
	return &BlogService{
		repo:   repo,
		images: images,
		log:    log,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:  uuid.NewString,
	}
}

// passNotFound wraps err unless it is the not-found sentinel.
func passNotFound(err error, format string, args ...any) error {
	if err == nil || errors.Is(err, repository.ErrPostNotFound) || errors.Is(err, repository.ErrSlugTaken) {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func (s *BlogService) ListPublished(ctx context.Context) ([]*model.BlogPost, error) {
	posts, err := s.repo.ListPublished(ctx)
	return posts, passNotFound(err, "list published posts")
}

func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	p, err := s.repo.GetPublishedBySlug(ctx, slug)
	return p, passNotFound(err, "get post %q", slug)
}

func (s *BlogService) ListAll(ctx context.Context) ([]*model.BlogPost, error) {
	posts, err := s.repo.ListAll(ctx)
	return posts, passNotFound(err, "list posts")
}

func (s *BlogService) Get(ctx context.Context, id string) (*model.BlogPost, error) {
	p, err := s.repo.GetByID(ctx, id)
	return p, passNotFound(err, "get post %s", id)
}

func (s *BlogService) resolveCover(ctx context.Context, cover string) (string, error) {
	if cover == "" || !storage.IsDataURL(cover) {
		return cover, nil
	}
	urls, err := resolveImages(ctx, s.images, []string{cover}, "blog")
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			return "", model.NewValidationError("cover_image", ve.Fields["images[0]"])
		}
		return "", err
	}
	return urls[0], nil
}

func (s *BlogService) Create(ctx context.Context, in model.BlogInput) (*model.BlogPost, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	cover, err := s.resolveCover(ctx, in.CoverImage)
	if err != nil {
		return nil, err
	}

	p := in.Post()
	p.CoverImage = cover
	p.ID = s.newID()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, passNotFound(err, "create post")
	}
	s.log.Info("blog post created", zap.String("id", p.ID), zap.String("slug", p.Slug))
	return &p, nil
}

func (s *BlogService) Update(ctx context.Context, id string, patch model.BlogPatch) (*model.BlogPost, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := patch.Apply(*current)
	if err := merged.Input().Validate(); err != nil {
		return nil, err
	}
	if merged.CoverImage, err = s.resolveCover(ctx, merged.CoverImage); err != nil {
		return nil, err
	}
	merged.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &merged); err != nil {
		return nil, passNotFound(err, "update post %s", id)
	}
	return &merged, nil
}

func (s *BlogService) SetPublished(ctx context.Context, id string, published bool) error {
	return passNotFound(s.repo.SetPublished(ctx, id, published, s.now()), "publish post %s", id)
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	return passNotFound(s.repo.Delete(ctx, id), "delete post %s", id)
}

func (s *BlogService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	return n, passNotFound(err, "count posts")
}
