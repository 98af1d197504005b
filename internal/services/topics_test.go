package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Go":                    "go",
		"Distributed Systems":   "distributed-systems",
		"  Machine\tLearning  ": "machine-learning",
		"C++ & Rust!":           "c--rust",
		"Émigré":                "migr",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestTopicCatalogue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	topics := NewTopicService(f.store, testOptions())
	reader := f.user(t, "reader")

	_, err := topics.Create(ctx, "   ", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = topics.Create(ctx, "!!!", "")
	assert.ErrorIs(t, err, ErrValidation)

	golang, err := topics.Create(ctx, "Go", "gophers")
	require.NoError(t, err)
	assert.Equal(t, "go", golang.Slug)
	rust, err := topics.Create(ctx, "Rust", "")
	require.NoError(t, err)

	_, err = topics.Create(ctx, "GO", "")
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Topic already exists", err.Error())

	_, err = f.follows.FollowTopic(ctx, reader, rust.ID)
	require.NoError(t, err)

	list, err := topics.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, rust.ID, list[0].ID)
	assert.Equal(t, golang.ID, list[1].ID)

	found, err := topics.GetBySlug(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, golang.ID, found.ID)

	_, err = topics.GetBySlug(ctx, "haskell")
	assert.ErrorIs(t, err, ErrNotFound)
}
