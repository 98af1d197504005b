package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify lowercases name, turns whitespace runs into dashes and drops
// everything outside [a-z0-9-].
func Slugify(name string) string {
	slug := slugSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return slugInvalid.ReplaceAllString(slug, "")
}

// TopicService manages the topic catalogue. Subscriptions live in
// FollowService.
type TopicService struct {
	base
}

func NewTopicService(store repositories.Store, opts Options) *TopicService {
	return &TopicService{base: newBase(store, opts, "topics")}
}

// Create adds a topic whose slug is derived from its name.
func (s *TopicService) Create(ctx context.Context, name, description string) (*models.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Topic name required")
	}
	slug := Slugify(name)
	if strings.Trim(slug, "-") == "" {
		return nil, validationError("Topic name must contain letters or digits")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	topic := &models.Topic{Name: name, Slug: slug, Description: strings.TrimSpace(description)}
	err := s.store.Topics().CreateTopic(ctx, topic)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, conflictError("Topic already exists")
	}
	if err != nil {
		return nil, s.fail("create_topic", err, logrus.Fields{"slug": slug})
	}
	s.log.WithField("topic_id", topic.ID).Info("topic created")
	return topic, nil
}

// List returns all topics, most followed first.
func (s *TopicService) List(ctx context.Context) ([]models.Topic, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	topics, err := s.store.Topics().ListTopics(ctx)
	if err != nil {
		return nil, s.fail("list_topics", err, nil)
	}
	return nonNil(topics), nil
}

func (s *TopicService) GetBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	topic, err := s.store.Topics().GetTopicBySlug(ctx, slug)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFoundError("Topic not found")
	}
	if err != nil {
		return nil, s.fail("get_topic", err, logrus.Fields{"slug": slug})
	}
	return topic, nil
}
