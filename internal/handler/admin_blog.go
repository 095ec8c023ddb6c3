package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/julin-realestate/realestate-api/internal/model"
)

// ListPosts handles GET /api/admin/blog, drafts included.
func (h *AdminHandler) ListPosts(c echo.Context) error {
	posts, err := h.Blog.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// CreatePost handles POST /api/admin/blog.
func (h *AdminHandler) CreatePost(c echo.Context) error {
	var in model.BlogInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Blog.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdatePost handles PATCH and PUT /api/admin/blog/:id.
func (h *AdminHandler) UpdatePost(c echo.Context) error {
	var patch model.BlogPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Blog.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// PublishPost handles POST /api/admin/blog/:id/publish with body {published}.
func (h *AdminHandler) PublishPost(c echo.Context) error {
	var body struct {
		Published *bool `json:"published"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Published == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": map[string]string{"published": "is required"},
		})
	}
	if err := h.Blog.SetPublished(c.Request().Context(), c.Param("id"), *body.Published); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "published": *body.Published})
}

// DeletePost handles DELETE /api/admin/blog/:id.
func (h *AdminHandler) DeletePost(c echo.Context) error {
	if err := h.Blog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
