package handlers

import (
	"github.com/anonto42/quillpress/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler handles bookmark HTTP requests
type BookmarkHandler struct {
	bookmarks *services.BookmarkService
}

func NewBookmarkHandler(bookmarks *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.GET("/bookmarks", h.GetBookmarks)
	g.POST("/bookmarks/:id", h.AddBookmark)
	g.DELETE("/bookmarks/:id", h.RemoveBookmark)
	g.GET("/bookmarks/:id/check", h.CheckBookmark)
}

func (h *BookmarkHandler) AddBookmark(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}

	if _, err := h.bookmarks.Add(c.Request().Context(), userID, postID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"bookmarked": true})
}

func (h *BookmarkHandler) RemoveBookmark(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}

	if _, err := h.bookmarks.Remove(c.Request().Context(), userID, postID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"bookmarked": false})
}

func (h *BookmarkHandler) CheckBookmark(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}

	bookmarked, err := h.bookmarks.IsBookmarked(c.Request().Context(), userID, postID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"bookmarked": bookmarked})
}

// GetBookmarks lists the caller's bookmarked posts
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)

	posts, err := h.bookmarks.List(c.Request().Context(), userID, page, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"bookmarks": posts, "page": page, "limit": limit})
}
