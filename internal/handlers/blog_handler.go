package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/plumekit/plume-backend/internal/models"
	"github.com/plumekit/plume-backend/internal/repositories"
	"github.com/plumekit/plume-backend/internal/services"
)

// BlogHandler handles blog CRUD HTTP requests
type BlogHandler struct {
	blogRepository repositories.BlogRepository
	cascader       *services.Cascader
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogRepo repositories.BlogRepository, cascader *services.Cascader) *BlogHandler {
	return &BlogHandler{
		blogRepository: blogRepo,
		cascader:       cascader,
	}
}

// RegisterBlogRoutes registers blog-related routes
func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group) {
	g.POST("/blogs", h.CreateBlog)
	g.GET("/blogs", h.GetAllBlogs)
	g.GET("/blogs/:id", h.GetBlog)
	g.PUT("/blogs/:id", h.UpdateBlog)
	g.DELETE("/blogs/:id", h.DeleteBlog)
}

// CreateBlog creates a new blog owned by the authenticated user
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog := &models.Blog{
		UserID:         currentUserID,
		Name:           req.Name,
		Description:    req.Description,
		PostingEnabled: true,
	}
	if req.PostingEnabled != nil {
		blog.PostingEnabled = *req.PostingEnabled
	}

	if err := h.blogRepository.CreateBlog(blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, blog)
}

// GetAllBlogs lists every blog
func (h *BlogHandler) GetAllBlogs(c echo.Context) error {
	blogs, err := h.blogRepository.GetAllBlogs()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, blogs)
}

// GetBlog returns a single blog by id
func (h *BlogHandler) GetBlog(c echo.Context) error {
	blogID, err := parseBlogID(c)
	if err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(blogID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, blog)
}

// UpdateBlog updates a blog; only the owner may do so
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	blogID, err := parseBlogID(c)
	if err != nil {
		return err
	}

	var req models.UpdateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(blogID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if blog.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the blog owner can update it")
	}

	if req.Name != "" {
		blog.Name = req.Name
	}
	if req.Description != "" {
		blog.Description = req.Description
	}
	if req.PostingEnabled != nil {
		blog.PostingEnabled = *req.PostingEnabled
	}

	if err := h.blogRepository.UpdateBlog(blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, blog)
}

// DeleteBlog removes a blog with its posts, subscriptions and per-post rows
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	blogID, err := parseBlogID(c)
	if err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(blogID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if blog.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the blog owner can delete it")
	}

	if err := h.cascader.DeleteBlog(c.Request().Context(), blogID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func parseBlogID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid blog ID")
	}
	return uint(id), nil
}
