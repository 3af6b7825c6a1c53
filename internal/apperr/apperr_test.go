package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	id := uuid.New()

	t.Run("message includes model and id", func(t *testing.T) {
		err := NewNotFound("papers", id)
		assert.Contains(t, err.Error(), "papers")
		assert.Contains(t, err.Error(), id.String())
	})

	t.Run("message without ids", func(t *testing.T) {
		err := NewNotFound("papers")
		assert.Equal(t, "unable to find the papers record", err.Error())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("fetching paper: %w", NewNotFound("papers", id))
		var notFound *NotFoundError
		require.ErrorAs(t, wrapped, &notFound)
		assert.Equal(t, "papers", notFound.Model)
	})
}

func TestDataLogicError(t *testing.T) {
	t.Run("message includes fields", func(t *testing.T) {
		err := NewDataLogic("paper already exists", map[string]any{"year": 2021})
		assert.Contains(t, err.Error(), "paper already exists")
		assert.Contains(t, err.Error(), "2021")
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("creating paper: %w", NewDataLogic("conflict", nil))
		var dataLogic *DataLogicError
		require.ErrorAs(t, wrapped, &dataLogic)
	})

	t.Run("marker interface dispatch", func(t *testing.T) {
		var marked interface{ DataLogic() }
		assert.True(t, errors.As(error(NewDataLogic("x", nil)), &marked))
		assert.True(t, errors.As(error(&NoFilterError{Model: "papers"}), &marked))
		assert.False(t, errors.As(error(NewNotFound("papers")), &marked))
	})
}
