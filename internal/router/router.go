package router

import (
	"github.com/anonto42/quillpress/backend/internal/handlers"
	"github.com/anonto42/quillpress/backend/internal/repositories"
	"github.com/anonto42/quillpress/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Services bundles the service layer built over one store.
type Services struct {
	Engagement    *services.EngagementService
	Notifications *services.NotificationService
	Follows       *services.FollowService
	Comments      *services.CommentService
	Bookmarks     *services.BookmarkService
	Topics        *services.TopicService
}

// NewServices builds every service over store.
func NewServices(store repositories.Store, opts services.Options) *Services {
	notifications := services.NewNotificationService(store, opts)
	return &Services{
		Engagement:    services.NewEngagementService(store, opts),
		Notifications: notifications,
		Follows:       services.NewFollowService(store, notifications, opts),
		Comments:      services.NewCommentService(store, notifications, opts),
		Bookmarks:     services.NewBookmarkService(store, opts),
		Topics:        services.NewTopicService(store, opts),
	}
}

// SetupRoutes configures all application routes. auth guards /api/v1 and
// clapLimit wraps the clap write routes.
func SetupRoutes(e *echo.Echo, svc *Services, auth, clapLimit echo.MiddlewareFunc, log *logrus.Entry) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")
	api.GET("/health", handlers.HealthCheck)

	protected := api.Group("", auth)

	handlers.NewClapHandler(svc.Engagement).RegisterClapRoutes(protected, clapLimit)
	log.Debug("Clap routes configured.")

	handlers.NewCommentHandler(svc.Comments).RegisterCommentRoutes(protected)
	log.Debug("Comment routes configured.")

	handlers.NewFollowHandler(svc.Follows).RegisterFollowRoutes(api, protected)
	log.Debug("Follow routes configured.")

	handlers.NewTopicHandler(svc.Topics).RegisterTopicRoutes(api, protected)
	log.Debug("Topic routes configured.")

	handlers.NewNotificationHandler(svc.Notifications).RegisterNotificationRoutes(protected)
	log.Debug("Notification routes configured.")

	handlers.NewBookmarkHandler(svc.Bookmarks).RegisterBookmarkRoutes(protected)
	log.Debug("Bookmark routes configured.")

	log.Info("All routes configured.")
}
