package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examina/internal/apperr"
	"examina/internal/model"
)

func optionsFor(questionID uuid.UUID, correct ...bool) []model.Option {
	out := make([]model.Option, len(correct))
	for i, c := range correct {
		out[i] = model.Option{
			Option:          "option",
			QuestionID:      questionID,
			OptionOrder:     i + 1,
			IsCorrectOption: c,
		}
	}
	return out
}

func TestValidateOptionSets(t *testing.T) {
	questionID := uuid.New()

	t.Run("valid MCQ set passes", func(t *testing.T) {
		assert.NoError(t, validateOptionSets(optionsFor(questionID, true, false, false, false)))
	})

	t.Run("valid MSQ set with several correct passes", func(t *testing.T) {
		assert.NoError(t, validateOptionSets(optionsFor(questionID, true, true, false)))
	})

	t.Run("single option fails", func(t *testing.T) {
		err := validateOptionSets(optionsFor(questionID, true))
		var dataLogic *apperr.DataLogicError
		require.ErrorAs(t, err, &dataLogic)
		assert.Contains(t, dataLogic.Message, "at least two options")
	})

	t.Run("no correct option fails", func(t *testing.T) {
		err := validateOptionSets(optionsFor(questionID, false, false, false))
		var dataLogic *apperr.DataLogicError
		require.ErrorAs(t, err, &dataLogic)
		assert.Contains(t, dataLogic.Message, "at least one option should be correct")
	})

	t.Run("duplicate option order fails", func(t *testing.T) {
		options := optionsFor(questionID, true, false)
		options[1].OptionOrder = options[0].OptionOrder
		err := validateOptionSets(options)
		var dataLogic *apperr.DataLogicError
		require.ErrorAs(t, err, &dataLogic)
		assert.Contains(t, dataLogic.Message, "order of options should be unique")
	})

	t.Run("one bad group fails the batch", func(t *testing.T) {
		good := optionsFor(uuid.New(), true, false)
		bad := optionsFor(uuid.New(), false, false)
		err := validateOptionSets(append(good, bad...))
		assert.Error(t, err)
	})

	t.Run("empty set passes", func(t *testing.T) {
		assert.NoError(t, validateOptionSets(nil))
	})
}
