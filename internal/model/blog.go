package model

import (
	"strings"
	"time"
)

// BlogPost is an article shown on the public blog once published.
type BlogPost struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"` // HTML or Markdown, rendered by the client
	CoverImage string    `json:"cover_image,omitempty"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BlogInput is the payload for creating a post.  CoverImage may be a data URL;
// it is uploaded and replaced before the post is stored.
type BlogInput struct {
	Title      string `json:"title" validate:"required,min=5"`
	Slug       string `json:"slug" validate:"required,min=5,slug"`
	Content    string `json:"content" validate:"required,min=20"`
	CoverImage string `json:"cover_image" validate:"omitempty,url"`
	Published  bool   `json:"published"`
}

func (in *BlogInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Content = strings.TrimSpace(in.Content)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
}

func (in BlogInput) Validate() error {
	ve, err := checkStruct(in)
	if err != nil {
		return err
	}
	return ve.orNil()
}

// Post builds an unsaved BlogPost.
func (in BlogInput) Post() BlogPost {
	return BlogPost{
		Title:      in.Title,
		Slug:       in.Slug,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		Published:  in.Published,
	}
}

// BlogPatch is a partial update of a post.
type BlogPatch struct {
	Title      *string `json:"title"`
	Slug       *string `json:"slug"`
	Content    *string `json:"content"`
	CoverImage *string `json:"cover_image"`
	Published  *bool   `json:"published"`
}

// Apply writes the present fields over p and returns the result.
func (bp BlogPatch) Apply(p BlogPost) BlogPost {
	if bp.Title != nil {
		p.Title = strings.TrimSpace(*bp.Title)
	}
	if bp.Slug != nil {
		p.Slug = strings.TrimSpace(*bp.Slug)
	}
	if bp.Content != nil {
		p.Content = strings.TrimSpace(*bp.Content)
	}
	if bp.CoverImage != nil {
		p.CoverImage = strings.TrimSpace(*bp.CoverImage)
	}
	if bp.Published != nil {
		p.Published = *bp.Published
	}
	return p
}

// Input lets a merged post be validated with the create rules.
func (p BlogPost) Input() BlogInput {
	return BlogInput{Title: p.Title, Slug: p.Slug, Content: p.Content, CoverImage: p.CoverImage, Published: p.Published}
}
