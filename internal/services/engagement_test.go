package services

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapClaps(t *testing.T) {
	tests := []struct {
		current, delta, want int
	}{
		{0, 1, 1},
		{0, 50, 50},
		{0, 51, 50},
		{30, 30, 50},
		{49, 1, 50},
		{50, 1, 50},
		{10, int(^uint(0) >> 1), 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, capClaps(tt.current, tt.delta), "current=%d delta=%d", tt.current, tt.delta)
	}
}

func TestApplyClapsAccumulatesUpToCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author, reader := f.user(t, "author"), f.user(t, "reader")
	post := f.post(t, author)

	count, err := f.engagement.ApplyClaps(ctx, post, reader, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, count)

	count, err = f.engagement.ApplyClaps(ctx, post, reader, 30)
	require.NoError(t, err)
	assert.Equal(t, models.MaxClapsPerUser, count)

	total, err := f.engagement.GetClapsCount(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)

	mine, err := f.engagement.GetUserClaps(ctx, post, reader)
	require.NoError(t, err)
	assert.Equal(t, 50, mine)

	assert.Empty(t, f.inbox(t, author), "claps do not notify")
}

func TestApplyClapsValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reader := f.user(t, "reader")

	_, err := f.engagement.ApplyClaps(ctx, 1, reader, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.engagement.ApplyClaps(ctx, 999, reader, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClapsAggregateConverges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.user(t, "author")
	post := f.post(t, author)
	readers := []uint{f.user(t, "a"), f.user(t, "b"), f.user(t, "c")}

	var wg sync.WaitGroup
	for _, r := range readers {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(userID uint) {
				defer wg.Done()
				_, err := f.engagement.ApplyClaps(ctx, post, userID, 7)
				assert.NoError(t, err)
			}(r)
		}
	}
	wg.Wait()

	_, err := f.engagement.RemoveClaps(ctx, post, readers[2])
	require.NoError(t, err)

	// 5*7 = 35 each for the two remaining readers.
	total, err := f.engagement.GetClapsCount(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, int64(70), total)

	again, err := f.engagement.RecomputePostClaps(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, total, again)
	again, err = f.engagement.RecomputePostClaps(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, total, again)
}

func TestRemoveClapsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author, reader := f.user(t, "author"), f.user(t, "reader")
	post := f.post(t, author)

	removed, err := f.engagement.RemoveClaps(ctx, post, reader)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = f.engagement.ApplyClaps(ctx, post, reader, 3)
	require.NoError(t, err)
	removed, err = f.engagement.RemoveClaps(ctx, post, reader)
	require.NoError(t, err)
	assert.True(t, removed)

	total, err := f.engagement.GetClapsCount(ctx, post)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListClappersOrdersByCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.user(t, "author")
	post := f.post(t, author)
	small, big := f.user(t, "small"), f.user(t, "big")

	_, err := f.engagement.ApplyClaps(ctx, post, small, 2)
	require.NoError(t, err)
	_, err = f.engagement.ApplyClaps(ctx, post, big, 20)
	require.NoError(t, err)

	clappers, err := f.engagement.ListClappers(ctx, post)
	require.NoError(t, err)
	require.Len(t, clappers, 2)
	assert.Equal(t, big, clappers[0].User.ID)
	assert.Equal(t, 20, clappers[0].Count)
	assert.Equal(t, small, clappers[1].User.ID)
}

func TestClapCommentHasNoCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author, reader := f.user(t, "author"), f.user(t, "reader")
	post := f.post(t, author)
	comment, err := f.comments.Create(ctx, post, author, "first", nil)
	require.NoError(t, err)

	var last *models.Comment
	for i := 0; i < models.MaxClapsPerUser+5; i++ {
		last, err = f.engagement.ClapComment(ctx, comment.ID, reader)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(models.MaxClapsPerUser+5), last.ClapsCount)

	_, err = f.engagement.ClapComment(ctx, 999, reader)
	assert.ErrorIs(t, err, ErrNotFound)
}
