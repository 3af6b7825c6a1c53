package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examina/internal/apperr"
	"examina/internal/model"
	"examina/internal/repository"
)

// validateOptionSets enforces the option invariants per question: at least
// two options, at least one correct, unique option_order values.
func validateOptionSets(options []model.Option) error {
	groups := make(map[uuid.UUID][]model.Option)
	for _, o := range options {
		groups[o.QuestionID] = append(groups[o.QuestionID], o)
	}
	for questionID, group := range groups {
		if len(group) < 2 {
			return apperr.NewDataLogic("at least two options should be present", map[string]any{
				"question_id": questionID, "option_count": len(group),
			})
		}
		anyCorrect := false
		orders := make(map[int]bool, len(group))
		for _, o := range group {
			if o.IsCorrectOption {
				anyCorrect = true
			}
			if orders[o.OptionOrder] {
				return apperr.NewDataLogic("order of options should be unique", map[string]any{
					"question_id": questionID, "option_order": o.OptionOrder,
				})
			}
			orders[o.OptionOrder] = true
		}
		if !anyCorrect {
			return apperr.NewDataLogic("at least one option should be correct", map[string]any{
				"question_id": questionID,
			})
		}
	}
	return nil
}

// createOptions bulk-inserts options for freshly created MCQ/MSQ questions.
// Questions that already carry options are rejected; options are created once
// with the question, never appended.
func createOptions(tx *gorm.DB, options []model.Option) ([]model.Option, error) {
	questionIDs := make([]uuid.UUID, 0, len(options))
	seen := make(map[uuid.UUID]bool, len(options))
	for _, o := range options {
		if !seen[o.QuestionID] {
			seen[o.QuestionID] = true
			questionIDs = append(questionIDs, o.QuestionID)
		}
	}
	store := repository.NewSoftStore[model.Option](tx)
	existing, err := store.Filter("question_id IN ?", questionIDs)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		conflicting := make([]uuid.UUID, 0, len(existing))
		for _, o := range existing {
			conflicting = append(conflicting, o.QuestionID)
		}
		return nil, apperr.NewDataLogic("options are already present for the question(s)", map[string]any{
			"question_ids": conflicting,
		})
	}
	if err := validateOptionSets(options); err != nil {
		return nil, err
	}
	return store.CreateBulk(options)
}

// createRangeAnswers bulk-inserts NAT answers, one per question.
func createRangeAnswers(tx *gorm.DB, answers []model.RangeAnswer) ([]model.RangeAnswer, error) {
	questionIDs := make([]uuid.UUID, len(answers))
	for i, a := range answers {
		questionIDs[i] = a.QuestionID
	}
	store := repository.NewSoftStore[model.RangeAnswer](tx)
	existing, err := store.Filter("question_id IN ?", questionIDs)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		conflicting := make([]uuid.UUID, 0, len(existing))
		for _, a := range existing {
			conflicting = append(conflicting, a.QuestionID)
		}
		return nil, apperr.NewDataLogic("range answer is already present for the question(s)", map[string]any{
			"question_ids": conflicting,
		})
	}
	return store.CreateBulk(answers)
}
