package handlers

import (
	"net/http"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ClapHandler handles HTTP requests for post and comment claps
type ClapHandler struct {
	engagement *services.EngagementService
}

func NewClapHandler(engagement *services.EngagementService) *ClapHandler {
	return &ClapHandler{engagement: engagement}
}

// RegisterClapRoutes registers clap routes. limit wraps the write routes.
func (h *ClapHandler) RegisterClapRoutes(g *echo.Group, limit ...echo.MiddlewareFunc) {
	g.POST("/posts/:id/claps", h.ApplyClaps, limit...)
	g.DELETE("/posts/:id/claps", h.RemoveClaps)
	g.GET("/posts/:id/claps/count", h.GetClapsCount)
	g.GET("/posts/:id/claps/list", h.ListClappers)
	g.GET("/posts/:id/claps/user", h.GetUserClaps)
	g.POST("/comments/:id/clap", h.ClapComment, limit...)
}

// ApplyClaps adds claps to a post. An empty body claps once.
func (h *ClapHandler) ApplyClaps(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}

	var req models.ApplyClapsRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
	}
	if req.Count == 0 {
		req.Count = 1
	}

	count, err := h.engagement.ApplyClaps(c.Request().Context(), postID, userID, req.Count)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"post_id": postID, "user_claps": count})
}

func (h *ClapHandler) RemoveClaps(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}

	if _, err := h.engagement.RemoveClaps(c.Request().Context(), postID, userID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"post_id": postID, "user_claps": 0})
}

func (h *ClapHandler) GetClapsCount(c echo.Context) error {
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}

	total, err := h.engagement.GetClapsCount(c.Request().Context(), postID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"post_id": postID, "claps_count": total})
}

func (h *ClapHandler) ListClappers(c echo.Context) error {
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}

	clappers, err := h.engagement.ListClappers(c.Request().Context(), postID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"clappers": clappers})
}

func (h *ClapHandler) GetUserClaps(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}

	count, err := h.engagement.GetUserClaps(c.Request().Context(), postID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"post_id": postID, "user_claps": count})
}

func (h *ClapHandler) ClapComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	commentID, err := parseIDParam(c, "id", "comment")
	if err != nil {
		return err
	}

	comment, err := h.engagement.ClapComment(c.Request().Context(), commentID, userID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"comment_id": comment.ID, "claps_count": comment.ClapsCount})
}
