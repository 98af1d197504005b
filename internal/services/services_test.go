package services

import (
	"context"
	"io"
	"testing"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories/memory"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store         *memory.Store
	engagement    *EngagementService
	notifications *NotificationService
	follows       *FollowService
	comments      *CommentService
	bookmarks     *BookmarkService
}

func testOptions() Options {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return Options{Logger: logrus.NewEntry(logger)}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	opts := testOptions()

	store := memory.New()
	notifications := NewNotificationService(store, opts)
	return &fixture{
		store:         store,
		engagement:    NewEngagementService(store, opts),
		notifications: notifications,
		follows:       NewFollowService(store, notifications, opts),
		comments:      NewCommentService(store, notifications, opts),
		bookmarks:     NewBookmarkService(store, opts),
	}
}

func (f *fixture) user(t *testing.T, name string) uint {
	t.Helper()
	u := models.User{Username: name, DisplayName: name}
	require.NoError(t, f.store.Users().CreateUser(context.Background(), &u))
	return u.ID
}

func (f *fixture) post(t *testing.T, ownerID uint) uint {
	t.Helper()
	p := models.Post{UserID: ownerID, Title: "A post", Status: models.PostStatusPublished}
	require.NoError(t, f.store.Posts().CreatePost(context.Background(), &p))
	return p.ID
}

func (f *fixture) topic(t *testing.T, slug string) uint {
	t.Helper()
	topic := models.Topic{Name: slug, Slug: slug}
	require.NoError(t, f.store.Topics().CreateTopic(context.Background(), &topic))
	return topic.ID
}

func (f *fixture) inbox(t *testing.T, userID uint) []models.Notification {
	t.Helper()
	list, err := f.notifications.List(context.Background(), userID, 1, 50, false)
	require.NoError(t, err)
	return list
}
