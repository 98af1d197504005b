package validators

import (
	"net/http"
	"testing"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.CreateCommentRequest{Content: "hi"}))
	assert.NoError(t, v.Validate(&models.ApplyClapsRequest{}))

	err := v.Validate(&models.CreateCommentRequest{})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "content is required", he.Message)

	err = v.Validate(&models.ApplyClapsRequest{Count: -1})
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "count must be at least 1", he.Message)
}
