package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

type PostHandler struct {
	svc ports.PostService
}

func NewPostHandler(svc ports.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// List returns every post, oldest first.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}   postResponse
// @Failure      500  {object}  errorResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]postResponse, 0, len(posts))
	for i := range posts {
		resp = append(resp, toPostResponse(&posts[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns a single post.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Create publishes a post under the authenticated author.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	author, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.svc.Create(c.Request().Context(), ports.CreatePostInput{
		Author:  author,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	metrics.PostWritesTotal.WithLabelValues(string(domain.ActionCreated)).Inc()
	return c.JSON(http.StatusCreated, createdResponse{Message: "post created successfully", ID: post.ID})
}

// Update replaces the title and content of a post owned by the caller.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Post ID"
// @Param        body  body      postRequest  true  "Post"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	author, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err = h.svc.Update(c.Request().Context(), ports.UpdatePostInput{
		ID:      c.Param("id"),
		Author:  author,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	metrics.PostWritesTotal.WithLabelValues(string(domain.ActionUpdated)).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "post updated successfully"})
}

// Delete removes a post owned by the caller.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	author, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), author); err != nil {
		return err
	}

	metrics.PostWritesTotal.WithLabelValues(string(domain.ActionDeleted)).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted successfully"})
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
