// Package memory is an in-process implementation of repositories.Store used
// for local development and tests. It mirrors the relational store's unique
// and check constraints and its transaction semantics.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
)

type state struct {
	nextID        uint
	users         map[uint]models.User
	posts         map[uint]models.Post
	claps         map[uint]models.Clap
	comments      map[uint]models.Comment
	follows       map[uint]models.Follow
	topics        map[uint]models.Topic
	topicFollows  map[uint]models.TopicFollow
	bookmarks     map[uint]models.Bookmark
	notifications map[uint]models.Notification
}

func newState() *state {
	return &state{
		users:         make(map[uint]models.User),
		posts:         make(map[uint]models.Post),
		claps:         make(map[uint]models.Clap),
		comments:      make(map[uint]models.Comment),
		follows:       make(map[uint]models.Follow),
		topics:        make(map[uint]models.Topic),
		topicFollows:  make(map[uint]models.TopicFollow),
		bookmarks:     make(map[uint]models.Bookmark),
		notifications: make(map[uint]models.Notification),
	}
}

func cloneMap[T any](m map[uint]T) map[uint]T {
	out := make(map[uint]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *state) clone() *state {
	return &state{
		nextID:        st.nextID,
		users:         cloneMap(st.users),
		posts:         cloneMap(st.posts),
		claps:         cloneMap(st.claps),
		comments:      cloneMap(st.comments),
		follows:       cloneMap(st.follows),
		topics:        cloneMap(st.topics),
		topicFollows:  cloneMap(st.topicFollows),
		bookmarks:     cloneMap(st.bookmarks),
		notifications: cloneMap(st.notifications),
	}
}

func (st *state) newID() uint {
	st.nextID++
	return st.nextID
}

// Store implements repositories.Store in memory.
type Store struct {
	mu   *sync.Mutex
	st   *state
	inTx bool
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		mu:  &sync.Mutex{},
		st:  newState(),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock takes the store mutex unless the caller already holds it through
// Transaction, and returns the matching release.
func (s *Store) lock(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.inTx {
		return func() {}, nil
	}
	s.mu.Lock()
	return s.mu.Unlock, nil
}

// Transaction runs fn against a copy of the current state and commits the
// copy only when fn succeeds. Transactions are serialised.
func (s *Store) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	work := s.st.clone()
	tx := &Store{mu: s.mu, st: work, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	*s.st = *work
	return nil
}

func (s *Store) Users() repositories.UserRepository {
	return userRepo{s}
}

func (s *Store) Posts() repositories.PostRepository {
	return postRepo{s}
}

func (s *Store) Claps() repositories.ClapRepository {
	return clapRepo{s}
}

func (s *Store) Comments() repositories.CommentRepository {
	return commentRepo{s}
}

func (s *Store) Follows() repositories.FollowRepository {
	return followRepo{s}
}

func (s *Store) Topics() repositories.TopicRepository {
	return topicRepo{s}
}

func (s *Store) Bookmarks() repositories.BookmarkRepository {
	return bookmarkRepo{s}
}

func (s *Store) Notifications() repositories.NotificationRepository {
	return notificationRepo{s}
}

func (s *Store) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now()
	}
}

func compact(u models.User) models.UserCompact {
	return u.ToCompact()
}
