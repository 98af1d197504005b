package repositories

import (
	"context"
	"time"

	"github.com/anonto42/quillpress/backend/internal/models"
	"gorm.io/gorm"
)

// Store groups the per-entity repositories over one storage handle.
// Transaction runs fn against a Store bound to a single transaction; fn's
// error rolls it back and is returned unchanged.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Claps() ClapRepository
	Comments() CommentRepository
	Follows() FollowRepository
	Topics() TopicRepository
	Bookmarks() BookmarkRepository
	Notifications() NotificationRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetCompactByIDs(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error)
}

// PostRepository covers the post fields this service owns: existence, owner
// and the denormalized counters. Writers that recompute a counter take the
// post row with GetPostForUpdate before touching its detail rows, so
// recomputes on one post run one after another.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPostForUpdate(ctx context.Context, id uint) (*models.Post, error)
	GetTitlesByIDs(ctx context.Context, ids []uint) (map[uint]string, error)
	SetClapsCount(ctx context.Context, postID uint, total int64) error
	SetCommentsCount(ctx context.Context, postID uint, total int64) error
}

// ClapRepository defines the interface for per-user post claps.
// GetClapForUpdate returns nil, nil when the user has not clapped.
type ClapRepository interface {
	GetClapForUpdate(ctx context.Context, postID, userID uint) (*models.Clap, error)
	CreateClap(ctx context.Context, clap *models.Clap) error
	UpdateClapCount(ctx context.Context, clapID uint, count int) error
	DeleteClap(ctx context.Context, postID, userID uint) (bool, error)
	GetUserClaps(ctx context.Context, postID, userID uint) (int, error)
	SumByPost(ctx context.Context, postID uint) (int64, error)
	ListClappers(ctx context.Context, postID uint) ([]models.Clapper, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetTopLevelByPostID(ctx context.Context, postID uint, page Page) ([]models.Comment, error)
	GetRepliesByParentIDs(ctx context.Context, parentIDs []uint) (map[uint][]models.Comment, error)
	UpdateContent(ctx context.Context, id, userID uint, content string) (*models.Comment, error)
	DeleteThread(ctx context.Context, id uint) (int64, error)
	CountByPostID(ctx context.Context, postID uint) (int64, error)
	IncrementClaps(ctx context.Context, id uint) (*models.Comment, error)
}

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint, page Page) ([]models.FollowedUser, error)
	GetFollowing(ctx context.Context, userID uint, page Page) ([]models.FollowedUser, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
}

// TopicRepository defines the interface for topics and their subscriptions.
// GetTopicForUpdate locks the topic row for the followers_count recompute.
type TopicRepository interface {
	CreateTopic(ctx context.Context, topic *models.Topic) error
	GetTopicByID(ctx context.Context, id uint) (*models.Topic, error)
	GetTopicForUpdate(ctx context.Context, id uint) (*models.Topic, error)
	GetTopicBySlug(ctx context.Context, slug string) (*models.Topic, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
	CreateTopicFollow(ctx context.Context, follow *models.TopicFollow) error
	DeleteTopicFollow(ctx context.Context, userID, topicID uint) (bool, error)
	IsFollowingTopic(ctx context.Context, userID, topicID uint) (bool, error)
	CountFollowers(ctx context.Context, topicID uint) (int64, error)
	SetFollowersCount(ctx context.Context, topicID uint, total int64) error
	GetFollowedTopics(ctx context.Context, userID uint) ([]models.Topic, error)
}

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, postID uint) (bool, error)
	IsBookmarked(ctx context.Context, userID, postID uint) (bool, error)
	GetBookmarksByUser(ctx context.Context, userID uint, page Page) ([]models.BookmarkedPost, error)
}

// NotificationRepository defines the interface for notification operations.
// Every recipient-facing method is scoped by recipient id.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByRecipientID(ctx context.Context, recipientID uint, page Page, unreadOnly bool) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, recipientID uint) (bool, error)
	MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type postgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a Store backed by gorm. The handle should be
// opened with TranslateError so unique violations surface as ErrDuplicate.
func NewPostgresStore(db *gorm.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Users() UserRepository {
	return NewPostgresUserRepository(s.db)
}

func (s *postgresStore) Posts() PostRepository {
	return NewPostgresPostRepository(s.db)
}

func (s *postgresStore) Claps() ClapRepository {
	return NewPostgresClapRepository(s.db)
}

func (s *postgresStore) Comments() CommentRepository {
	return NewPostgresCommentRepository(s.db)
}

func (s *postgresStore) Follows() FollowRepository {
	return NewPostgresFollowRepository(s.db)
}

func (s *postgresStore) Topics() TopicRepository {
	return NewPostgresTopicRepository(s.db)
}

func (s *postgresStore) Bookmarks() BookmarkRepository {
	return NewPostgresBookmarkRepository(s.db)
}

func (s *postgresStore) Notifications() NotificationRepository {
	return NewPostgresNotificationRepository(s.db)
}

func (s *postgresStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&postgresStore{db: tx})
	})
}
