package dto

import (
	"time"

	"github.com/google/uuid"

	"examina/internal/model"
)

// OptionUpload carries one answer option. The order is an explicit, required
// field rather than being inferred from the array index, so a reordered
// request body cannot silently reorder options.
type OptionUpload struct {
	Option          string `json:"option" binding:"required"`
	OptionOrder     int    `json:"option_order" binding:"required,min=1"`
	IsCorrectOption bool   `json:"is_correct_option"`
}

type RangeAnswerUpload struct {
	Start *float64 `json:"start" binding:"required"`
	End   *float64 `json:"end" binding:"required"`
}

// QuestionUploadRequest is the authorial payload for one question. MCQ/MSQ
// questions carry Options, NAT questions carry Answer; language defaults to
// English when absent and difficulty to 100 x knowledge level.
type QuestionUploadRequest struct {
	Question       string              `json:"question" binding:"required"`
	Explanation    string              `json:"explanation"`
	QuestionType   model.QuestionType  `json:"question_type" binding:"required,oneof=MCQ MSQ NAT"`
	Subject        string              `json:"subject" binding:"required"`
	Language       *model.LanguageName `json:"language" binding:"omitempty,oneof=English Hindi"`
	KnowledgeLevel *int                `json:"knowledge_level" binding:"omitempty,min=1,max=13"`
	Difficulty     *int                `json:"difficulty" binding:"omitempty,min=0"`
	Source         string              `json:"source"`
	Passage        string              `json:"passage"`
	Tags           []string            `json:"tags"`
	Options        []OptionUpload      `json:"options" binding:"omitempty,dive"`
	Answer         *RangeAnswerUpload  `json:"answer"`
}

type QuestionBulkCreateRequest struct {
	Questions []QuestionUploadRequest `json:"questions" binding:"required,min=1,dive"`
}

type QuestionResponse struct {
	ID             uuid.UUID          `json:"id"`
	Question       string             `json:"question"`
	Explanation    string             `json:"explanation,omitempty"`
	QuestionType   model.QuestionType `json:"question_type"`
	ContentType    model.ContentType  `json:"content_type"`
	SubjectID      uuid.UUID          `json:"subject_id"`
	LanguageID     uuid.UUID          `json:"language_id"`
	PassageID      *uuid.UUID         `json:"passage_id,omitempty"`
	KnowledgeLevel int                `json:"knowledge_level,omitempty"`
	Difficulty     int                `json:"difficulty"`
	Source         string             `json:"source,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// QuestionUpdateRequest applies exclude-unset patch semantics: only non-nil
// fields are written. Question type is deliberately not updatable since that
// would also require swapping the answer material. Tags are additive.
type QuestionUpdateRequest struct {
	Question       *string             `json:"question"`
	Explanation    *string             `json:"explanation"`
	ContentType    *model.ContentType  `json:"content_type" binding:"omitempty,oneof=normal passage"`
	Subject        *string             `json:"subject"`
	Language       *model.LanguageName `json:"language" binding:"omitempty,oneof=English Hindi"`
	KnowledgeLevel *int                `json:"knowledge_level" binding:"omitempty,min=1,max=13"`
	Difficulty     *int                `json:"difficulty" binding:"omitempty,min=0"`
	Source         *string             `json:"source"`
	Passage        *string             `json:"passage"`
	Tags           []string            `json:"tags"`
}

// CBTQuestionUpdateRequest additionally lets the author move the marks on the
// sub-section link the question sits in.
type CBTQuestionUpdateRequest struct {
	QuestionUpdateRequest
	PositiveMarks *float64 `json:"positive_marks" binding:"omitempty,gt=0"`
	NegativeMarks *float64 `json:"negative_marks" binding:"omitempty,min=0"`
}
