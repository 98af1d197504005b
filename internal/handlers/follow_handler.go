package handlers

import (
	"github.com/anonto42/quillpress/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests for users and topics
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes. Follower lists and
// counts are public; everything about the caller's own edges needs auth.
func (h *FollowHandler) RegisterFollowRoutes(public, protected *echo.Group) {
	public.GET("/follow/users/:id/followers", h.GetFollowers)
	public.GET("/follow/users/:id/following", h.GetFollowing)
	public.GET("/follow/users/:id/counts", h.GetFollowCounts)

	protected.POST("/follow/users/:id", h.FollowUser)
	protected.DELETE("/follow/users/:id", h.UnfollowUser)
	protected.GET("/follow/users/:id/check", h.CheckFollowing)

	protected.GET("/follow/topics/me", h.GetFollowedTopics)
	protected.POST("/follow/topics/:id", h.FollowTopic)
	protected.DELETE("/follow/topics/:id", h.UnfollowTopic)
	protected.GET("/follow/topics/:id/check", h.CheckFollowingTopic)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	if _, err := h.follows.FollowUser(c.Request().Context(), currentUserID, targetID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"following": true})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	if _, err := h.follows.UnfollowUser(c.Request().Context(), currentUserID, targetID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"following": false})
}

func (h *FollowHandler) CheckFollowing(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	following, err := h.follows.IsFollowing(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"following": following})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}
	page, limit := pageParams(c)

	users, err := h.follows.GetFollowers(c.Request().Context(), userID, page, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"followers": users})
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}
	page, limit := pageParams(c)

	users, err := h.follows.GetFollowing(c.Request().Context(), userID, page, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"following": users})
}

func (h *FollowHandler) GetFollowCounts(c echo.Context) error {
	userID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}

	counts, err := h.follows.GetFollowCounts(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, counts)
}

// FollowTopic subscribes the caller to a topic
func (h *FollowHandler) FollowTopic(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	topicID, err := parseIDParam(c, "id", "topic")
	if err != nil {
		return err
	}

	if _, err := h.follows.FollowTopic(c.Request().Context(), currentUserID, topicID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"following": true})
}

func (h *FollowHandler) UnfollowTopic(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	topicID, err := parseIDParam(c, "id", "topic")
	if err != nil {
		return err
	}

	if _, err := h.follows.UnfollowTopic(c.Request().Context(), currentUserID, topicID); err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"following": false})
}

func (h *FollowHandler) CheckFollowingTopic(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	topicID, err := parseIDParam(c, "id", "topic")
	if err != nil {
		return err
	}

	following, err := h.follows.IsFollowingTopic(c.Request().Context(), currentUserID, topicID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"following": following})
}

func (h *FollowHandler) GetFollowedTopics(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	topics, err := h.follows.GetFollowedTopics(c.Request().Context(), currentUserID)
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"topics": topics})
}
