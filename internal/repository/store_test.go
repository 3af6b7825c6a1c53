package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examina/internal/apperr"
	"examina/internal/model"
)

func TestUpdateBulkRequiresPredicate(t *testing.T) {
	store := NewSoftStore[model.Exam](nil)

	for _, query := range []string{"", "   ", "\t"} {
		err := store.UpdateBulk(query, nil, map[string]any{"is_active": true})
		var noFilter *apperr.NoFilterError
		require.ErrorAs(t, err, &noFilter)
		assert.Equal(t, "exams", noFilter.Model)
	}
}

func TestGetByIDsEmptyInput(t *testing.T) {
	store := NewSoftStore[model.Exam](nil)
	out, err := store.GetByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCreateBulkEmptyInput(t *testing.T) {
	store := NewStore[model.Language](nil)
	out, err := store.CreateBulk(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
