package repositories

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{From: 0, Limit: 20}, NewPage(0, 0, DefaultPageLimit))
	assert.Equal(t, Page{From: 20, Limit: 20}, NewPage(2, 20, DefaultPageLimit))
	assert.Equal(t, Page{From: 0, Limit: 20}, NewPage(-4, MaxPageLimit+1, DefaultPageLimit))
	assert.Equal(t, Page{From: 100, Limit: 50}, NewPage(3, 50, DefaultPageLimit))
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Window(items, Page{From: 0, Limit: 2}))
	assert.Equal(t, []int{5}, Window(items, Page{From: 4, Limit: 2}))
	assert.Empty(t, Window(items, Page{From: 10, Limit: 2}))
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, translate(errors.Wrap(&pgconn.PgError{Code: "23505"}, "insert")), ErrDuplicate)

	other := errors.New("connection reset")
	err := translate(other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrDuplicate)
}
