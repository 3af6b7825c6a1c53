package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examina/internal/dto"
	"examina/internal/model"
)

func TestNormalizeInstructions(t *testing.T) {
	t.Run("trims and title-cases", func(t *testing.T) {
		assert.Equal(t, "Read All Questions Carefully", normalizeInstructions("  read all questions carefully \n"))
	})

	t.Run("casing variants normalize to the same string", func(t *testing.T) {
		a := normalizeInstructions("no negative marking")
		b := normalizeInstructions("NO NEGATIVE MARKING")
		assert.Equal(t, a, b)
	})
}

func TestCanonicalSettings(t *testing.T) {
	scientific := model.CalculatorTypeScientific

	t.Run("key order is stable", func(t *testing.T) {
		canon, err := canonicalSettings(dto.ExamPatternSettings{
			CalculatorType:      &scientific,
			IsCalculatorAllowed: true,
			TotalTime:           180,
		})
		require.NoError(t, err)
		assert.Equal(t, `{"calculator_type":"scientific","is_calculator_allowed":true,"total_time":180}`, canon)
	})

	t.Run("calculator type nulled when calculator not allowed", func(t *testing.T) {
		canon, err := canonicalSettings(dto.ExamPatternSettings{
			CalculatorType:      &scientific,
			IsCalculatorAllowed: false,
			TotalTime:           180,
		})
		require.NoError(t, err)
		assert.Equal(t, `{"calculator_type":null,"is_calculator_allowed":false,"total_time":180}`, canon)
	})

	t.Run("equivalent settings serialize identically", func(t *testing.T) {
		withCalc := model.CalculatorTypeNormal
		a, err := canonicalSettings(dto.ExamPatternSettings{CalculatorType: &withCalc, TotalTime: 60})
		require.NoError(t, err)
		b, err := canonicalSettings(dto.ExamPatternSettings{TotalTime: 60})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
