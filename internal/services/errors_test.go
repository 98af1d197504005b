package services

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	err := conflictError("Already bookmarked")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, pkgerrors.Wrap(err, "outer"), ErrConflict)
}

func TestStorageErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := storageError(cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "something went wrong", err.Error())
	assert.False(t, IsRetryable(err))

	assert.True(t, IsRetryable(storageError(pkgerrors.WithStack(context.DeadlineExceeded))))
	assert.Same(t, ErrNotFound, storageError(ErrNotFound))
}

func TestCanceledCallIsStorageError(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engagement.GetUserClaps(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrStorage)
}
