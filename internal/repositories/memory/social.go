package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
)

var errSelfFollow = errors.New("check constraint chk_no_self_follow violated")

func newestFirst(ai, bi time.Time, aid, bid uint) bool {
	if !ai.Equal(bi) {
		return ai.After(bi)
	}
	return aid > bid
}

type followRepo struct{ s *Store }

func (r followRepo) find(followerID, followingID uint) (models.Follow, bool) {
	for _, f := range r.s.st.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return f, true
		}
	}
	return models.Follow{}, false
}

func (r followRepo) CreateFollow(ctx context.Context, follow *models.Follow) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if follow.FollowerID == follow.FollowingID {
		return errSelfFollow
	}
	if _, ok := r.find(follow.FollowerID, follow.FollowingID); ok {
		return repositories.ErrDuplicate
	}
	follow.ID = r.s.st.newID()
	r.s.stamp(&follow.CreatedAt)
	r.s.st.follows[follow.ID] = *follow
	return nil
}

func (r followRepo) DeleteFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	f, ok := r.find(followerID, followingID)
	if !ok {
		return false, nil
	}
	delete(r.s.st.follows, f.ID)
	return true, nil
}

func (r followRepo) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	_, ok := r.find(followerID, followingID)
	return ok, nil
}

func (r followRepo) GetFollowers(ctx context.Context, userID uint, page repositories.Page) ([]models.FollowedUser, error) {
	return r.listEdges(ctx, page, func(f models.Follow) (uint, bool) {
		return f.FollowerID, f.FollowingID == userID
	})
}

func (r followRepo) GetFollowing(ctx context.Context, userID uint, page repositories.Page) ([]models.FollowedUser, error) {
	return r.listEdges(ctx, page, func(f models.Follow) (uint, bool) {
		return f.FollowingID, f.FollowerID == userID
	})
}

// listEdges selects edges with match and returns the user on the other end.
func (r followRepo) listEdges(ctx context.Context, page repositories.Page, match func(models.Follow) (uint, bool)) ([]models.FollowedUser, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var edges []models.Follow
	for _, f := range r.s.st.follows {
		other, ok := match(f)
		if !ok {
			continue
		}
		if _, exists := r.s.st.users[other]; exists {
			edges = append(edges, f)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		return newestFirst(edges[i].CreatedAt, edges[j].CreatedAt, edges[i].ID, edges[j].ID)
	})
	edges = repositories.Window(edges, page)

	users := make([]models.FollowedUser, len(edges))
	for i, f := range edges {
		other, _ := match(f)
		u := r.s.st.users[other]
		users[i] = models.FollowedUser{UserCompact: compact(u), Bio: u.Bio, FollowedAt: f.CreatedAt}
	}
	return users, nil
}

func (r followRepo) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, func(f models.Follow) bool { return f.FollowingID == userID })
}

func (r followRepo) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, func(f models.Follow) bool { return f.FollowerID == userID })
}

func (r followRepo) count(ctx context.Context, match func(models.Follow) bool) (int64, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for _, f := range r.s.st.follows {
		if match(f) {
			n++
		}
	}
	return n, nil
}

type topicRepo struct{ s *Store }

func (r topicRepo) CreateTopic(ctx context.Context, topic *models.Topic) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	for _, t := range r.s.st.topics {
		if t.Slug == topic.Slug {
			return repositories.ErrDuplicate
		}
	}
	topic.ID = r.s.st.newID()
	r.s.stamp(&topic.CreatedAt)
	r.s.st.topics[topic.ID] = *topic
	return nil
}

func (r topicRepo) GetTopicByID(ctx context.Context, id uint) (*models.Topic, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, ok := r.s.st.topics[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (r topicRepo) GetTopicForUpdate(ctx context.Context, id uint) (*models.Topic, error) {
	return r.GetTopicByID(ctx, id)
}

func (r topicRepo) GetTopicBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, t := range r.s.st.topics {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r topicRepo) ListTopics(ctx context.Context) ([]models.Topic, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	topics := make([]models.Topic, 0, len(r.s.st.topics))
	for _, t := range r.s.st.topics {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].FollowersCount != topics[j].FollowersCount {
			return topics[i].FollowersCount > topics[j].FollowersCount
		}
		return topics[i].ID < topics[j].ID
	})
	return topics, nil
}

func (r topicRepo) find(userID, topicID uint) (models.TopicFollow, bool) {
	for _, f := range r.s.st.topicFollows {
		if f.UserID == userID && f.TopicID == topicID {
			return f, true
		}
	}
	return models.TopicFollow{}, false
}

func (r topicRepo) CreateTopicFollow(ctx context.Context, follow *models.TopicFollow) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := r.find(follow.UserID, follow.TopicID); ok {
		return repositories.ErrDuplicate
	}
	follow.ID = r.s.st.newID()
	r.s.stamp(&follow.CreatedAt)
	r.s.st.topicFollows[follow.ID] = *follow
	return nil
}

func (r topicRepo) DeleteTopicFollow(ctx context.Context, userID, topicID uint) (bool, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	f, ok := r.find(userID, topicID)
	if !ok {
		return false, nil
	}
	delete(r.s.st.topicFollows, f.ID)
	return true, nil
}

func (r topicRepo) IsFollowingTopic(ctx context.Context, userID, topicID uint) (bool, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	_, ok := r.find(userID, topicID)
	return ok, nil
}

func (r topicRepo) CountFollowers(ctx context.Context, topicID uint) (int64, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for _, f := range r.s.st.topicFollows {
		if f.TopicID == topicID {
			n++
		}
	}
	return n, nil
}

func (r topicRepo) SetFollowersCount(ctx context.Context, topicID uint, total int64) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	t, ok := r.s.st.topics[topicID]
	if !ok {
		return repositories.ErrNotFound
	}
	t.FollowersCount = total
	r.s.st.topics[topicID] = t
	return nil
}

func (r topicRepo) GetFollowedTopics(ctx context.Context, userID uint) ([]models.Topic, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var topics []models.Topic
	for _, f := range r.s.st.topicFollows {
		if f.UserID != userID {
			continue
		}
		if t, ok := r.s.st.topics[f.TopicID]; ok {
			topics = append(topics, t)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics, nil
}

type bookmarkRepo struct{ s *Store }

func (r bookmarkRepo) find(userID, postID uint) (models.Bookmark, bool) {
	for _, b := range r.s.st.bookmarks {
		if b.UserID == userID && b.PostID == postID {
			return b, true
		}
	}
	return models.Bookmark{}, false
}

func (r bookmarkRepo) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := r.find(bookmark.UserID, bookmark.PostID); ok {
		return repositories.ErrDuplicate
	}
	bookmark.ID = r.s.st.newID()
	r.s.stamp(&bookmark.CreatedAt)
	r.s.st.bookmarks[bookmark.ID] = *bookmark
	return nil
}

func (r bookmarkRepo) DeleteBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	b, ok := r.find(userID, postID)
	if !ok {
		return false, nil
	}
	delete(r.s.st.bookmarks, b.ID)
	return true, nil
}

func (r bookmarkRepo) IsBookmarked(ctx context.Context, userID, postID uint) (bool, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	_, ok := r.find(userID, postID)
	return ok, nil
}

func (r bookmarkRepo) GetBookmarksByUser(ctx context.Context, userID uint, page repositories.Page) ([]models.BookmarkedPost, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var marks []models.Bookmark
	for _, b := range r.s.st.bookmarks {
		if b.UserID != userID {
			continue
		}
		if _, ok := r.s.st.posts[b.PostID]; ok {
			marks = append(marks, b)
		}
	}
	sort.Slice(marks, func(i, j int) bool {
		return newestFirst(marks[i].CreatedAt, marks[j].CreatedAt, marks[i].ID, marks[j].ID)
	})
	marks = repositories.Window(marks, page)

	posts := make([]models.BookmarkedPost, len(marks))
	for i, b := range marks {
		posts[i] = models.BookmarkedPost{Post: r.s.st.posts[b.PostID], BookmarkedAt: b.CreatedAt}
	}
	return posts, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) CreateNotification(ctx context.Context, notification *models.Notification) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	notification.ID = r.s.st.newID()
	r.s.stamp(&notification.CreatedAt)
	r.s.st.notifications[notification.ID] = *notification
	return nil
}

func (r notificationRepo) GetByRecipientID(ctx context.Context, recipientID uint, page repositories.Page, unreadOnly bool) ([]models.Notification, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var list []models.Notification
	for _, n := range r.s.st.notifications {
		if n.UserID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		return newestFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID)
	})
	return repositories.Window(list, page), nil
}

func (r notificationRepo) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var count int64
	for _, n := range r.s.st.notifications {
		if n.UserID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r notificationRepo) MarkAsRead(ctx context.Context, notificationID, recipientID uint) (bool, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	n, ok := r.s.st.notifications[notificationID]
	if !ok || n.UserID != recipientID {
		return false, nil
	}
	n.IsRead = true
	r.s.st.notifications[notificationID] = n
	return true, nil
}

func (r notificationRepo) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var changed int64
	for id, n := range r.s.st.notifications {
		if n.UserID == recipientID && !n.IsRead {
			n.IsRead = true
			r.s.st.notifications[id] = n
			changed++
		}
	}
	return changed, nil
}

func (r notificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var removed int64
	for id, n := range r.s.st.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(r.s.st.notifications, id)
			removed++
		}
	}
	return removed, nil
}
