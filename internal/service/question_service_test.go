package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examina/internal/apperr"
	"examina/internal/dto"
	"examina/internal/model"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestQuestionDefaults(t *testing.T) {
	t.Run("knowledge level defaults to 12", func(t *testing.T) {
		assert.Equal(t, 12, knowledgeLevelOf(dto.QuestionUploadRequest{}))
		assert.Equal(t, 9, knowledgeLevelOf(dto.QuestionUploadRequest{KnowledgeLevel: intPtr(9)}))
	})

	t.Run("difficulty derives from knowledge level", func(t *testing.T) {
		assert.Equal(t, 1200, difficultyOf(dto.QuestionUploadRequest{}))
		assert.Equal(t, 900, difficultyOf(dto.QuestionUploadRequest{KnowledgeLevel: intPtr(9)}))
		assert.Equal(t, 450, difficultyOf(dto.QuestionUploadRequest{Difficulty: intPtr(450)}))
	})

	t.Run("content type follows the passage", func(t *testing.T) {
		assert.Equal(t, model.ContentTypeNormal, contentTypeOf(dto.QuestionUploadRequest{}))
		assert.Equal(t, model.ContentTypeNormal, contentTypeOf(dto.QuestionUploadRequest{Passage: "   "}))
		assert.Equal(t, model.ContentTypePassage, contentTypeOf(dto.QuestionUploadRequest{Passage: "some passage"}))
	})

	t.Run("language defaults to English", func(t *testing.T) {
		assert.Equal(t, model.LanguageEnglish, languageOf(dto.QuestionUploadRequest{}))
		hindi := model.LanguageHindi
		assert.Equal(t, model.LanguageHindi, languageOf(dto.QuestionUploadRequest{Language: &hindi}))
	})
}

func TestValidateAnswerMaterial(t *testing.T) {
	options := []dto.OptionUpload{
		{Option: "a", OptionOrder: 1, IsCorrectOption: true},
		{Option: "b", OptionOrder: 2},
	}

	t.Run("MCQ with options passes", func(t *testing.T) {
		assert.NoError(t, validateAnswerMaterial(dto.QuestionUploadRequest{
			QuestionType: model.QuestionTypeMCQ, Options: options,
		}))
	})

	t.Run("MCQ without options fails", func(t *testing.T) {
		err := validateAnswerMaterial(dto.QuestionUploadRequest{QuestionType: model.QuestionTypeMCQ})
		var dataLogic *apperr.DataLogicError
		require.ErrorAs(t, err, &dataLogic)
	})

	t.Run("MSQ without options fails", func(t *testing.T) {
		err := validateAnswerMaterial(dto.QuestionUploadRequest{QuestionType: model.QuestionTypeMSQ})
		assert.Error(t, err)
	})

	t.Run("NAT with range passes", func(t *testing.T) {
		assert.NoError(t, validateAnswerMaterial(dto.QuestionUploadRequest{
			QuestionType: model.QuestionTypeNAT,
			Answer:       &dto.RangeAnswerUpload{Start: floatPtr(1.5), End: floatPtr(2.5)},
		}))
	})

	t.Run("NAT without range fails", func(t *testing.T) {
		err := validateAnswerMaterial(dto.QuestionUploadRequest{QuestionType: model.QuestionTypeNAT})
		assert.Error(t, err)
	})

	t.Run("NAT with partial range fails", func(t *testing.T) {
		err := validateAnswerMaterial(dto.QuestionUploadRequest{
			QuestionType: model.QuestionTypeNAT,
			Answer:       &dto.RangeAnswerUpload{Start: floatPtr(1.5)},
		})
		assert.Error(t, err)
	})
}
