package handlers

import (
	"net/http"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// TopicHandler serves the topic catalogue
type TopicHandler struct {
	topics *services.TopicService
}

func NewTopicHandler(topics *services.TopicService) *TopicHandler {
	return &TopicHandler{topics: topics}
}

// RegisterTopicRoutes puts the catalogue reads on public and topic creation
// on protected.
func (h *TopicHandler) RegisterTopicRoutes(public, protected *echo.Group) {
	public.GET("/topics", h.ListTopics)
	public.GET("/topics/:slug", h.GetTopicBySlug)
	protected.POST("/topics", h.CreateTopic)
}

func (h *TopicHandler) ListTopics(c echo.Context) error {
	topics, err := h.topics.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, echo.Map{"topics": topics})
}

func (h *TopicHandler) GetTopicBySlug(c echo.Context) error {
	topic, err := h.topics.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}
	return ok(c, topic)
}

// CreateTopic adds a topic; the slug is derived from the name
func (h *TopicHandler) CreateTopic(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	var req models.CreateTopicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	topic, err := h.topics.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": topic})
}
