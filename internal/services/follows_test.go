package services

import (
	"context"
	"testing"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUserNotifies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	follow, err := f.follows.FollowUser(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, alice, follow.FollowerID)

	ok, err := f.follows.IsFollowing(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.follows.IsFollowing(ctx, bob, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	inbox := f.inbox(t, bob)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotificationFollow, inbox[0].Type)
	assert.Equal(t, models.MessageStartedFollowing, inbox[0].Message)
	assert.Equal(t, alice, *inbox[0].ActorID)
	require.NotNil(t, inbox[0].Actor)
	assert.Equal(t, "alice", inbox[0].Actor.Username)
	assert.Empty(t, inbox[0].PostTitle)
}

func TestSelfFollowIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.follows.FollowUser(ctx, alice, alice)
	assert.ErrorIs(t, err, ErrSelfReference)

	counts, err := f.follows.GetFollowCounts(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, counts.Followers)
	assert.Zero(t, counts.Following)
	assert.Empty(t, f.inbox(t, alice))
}

func TestDuplicateFollowIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.follows.FollowUser(ctx, alice, bob)
	require.NoError(t, err)
	_, err = f.follows.FollowUser(ctx, alice, bob)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Already following this user", err.Error())

	counts, err := f.follows.GetFollowCounts(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Followers)
	assert.Len(t, f.inbox(t, bob), 1)
}

func TestFollowUnknownUser(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	_, err := f.follows.FollowUser(context.Background(), alice, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.follows.FollowUser(ctx, alice, bob)
	require.NoError(t, err)

	removed, err := f.follows.UnfollowUser(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = f.follows.UnfollowUser(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, removed)

	ok, err := f.follows.IsFollowing(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowersAndFollowing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	_, err := f.follows.FollowUser(ctx, bob, alice)
	require.NoError(t, err)
	_, err = f.follows.FollowUser(ctx, carol, alice)
	require.NoError(t, err)
	_, err = f.follows.FollowUser(ctx, alice, carol)
	require.NoError(t, err)

	followers, err := f.follows.GetFollowers(ctx, alice, 1, 20)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, carol, followers[0].ID, "newest first")
	assert.Equal(t, bob, followers[1].ID)

	following, err := f.follows.GetFollowing(ctx, alice, 1, 20)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "carol", following[0].Username)

	counts, err := f.follows.GetFollowCounts(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, models.FollowCounts{Followers: 2, Following: 1}, counts)
}

func TestTopicFollowersCountConverges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	golang := f.topic(t, "go")

	_, err := f.follows.FollowTopic(ctx, alice, golang)
	require.NoError(t, err)
	_, err = f.follows.FollowTopic(ctx, bob, golang)
	require.NoError(t, err)

	_, err = f.follows.FollowTopic(ctx, alice, golang)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Already following this topic", err.Error())

	topic, err := f.store.Topics().GetTopicByID(ctx, golang)
	require.NoError(t, err)
	assert.Equal(t, int64(2), topic.FollowersCount)

	removed, err := f.follows.UnfollowTopic(ctx, alice, golang)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = f.follows.UnfollowTopic(ctx, alice, golang)
	require.NoError(t, err)
	assert.False(t, removed)

	topic, err = f.store.Topics().GetTopicByID(ctx, golang)
	require.NoError(t, err)
	assert.Equal(t, int64(1), topic.FollowersCount)

	ok, err := f.follows.IsFollowingTopic(ctx, bob, golang)
	require.NoError(t, err)
	assert.True(t, ok)

	topics, err := f.follows.GetFollowedTopics(ctx, bob)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "go", topics[0].Slug)

	_, err = f.follows.FollowTopic(ctx, alice, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
