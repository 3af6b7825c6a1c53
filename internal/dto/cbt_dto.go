package dto

import (
	"github.com/google/uuid"

	"examina/internal/model"
)

// ExamPatternSettings is the structured template configuration. Fields are
// declared in key order so the canonical JSON serialization used for template
// content-addressing is stable.
type ExamPatternSettings struct {
	CalculatorType      *model.CalculatorType `json:"calculator_type" binding:"omitempty,oneof=normal scientific"`
	IsCalculatorAllowed bool                  `json:"is_calculator_allowed"`
	TotalTime           int                   `json:"total_time" binding:"required,min=1"`
}

// CBT REQUEST TREE

type CBTQuestionRequest struct {
	QuestionUploadRequest
	PositiveMarks float64 `json:"positive_marks" binding:"required,gt=0"`
	NegativeMarks float64 `json:"negative_marks" binding:"omitempty,min=0"`
}

type CBTSubSectionRequest struct {
	Name      string               `json:"name" binding:"required"`
	Questions []CBTQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type CBTSectionRequest struct {
	Name        string                 `json:"name" binding:"required"`
	SectionTime int                    `json:"section_time" binding:"required,min=1"` // minutes
	SubSections []CBTSubSectionRequest `json:"sub_sections" binding:"required,min=1,dive"`
}

// CBTPaperRequest is the nested authorial payload that CreatePaper fans out
// into papers, sections, sub-sections, questions and links. Sections,
// sub-sections and questions take their display order from their position in
// these lists.
type CBTPaperRequest struct {
	Name         string              `json:"name" binding:"required"`
	Year         int                 `json:"year" binding:"omitempty,min=1900"`
	PaperSet     string              `json:"paper_set"`
	Instructions string              `json:"instructions" binding:"required"`
	Language     model.LanguageName  `json:"language" binding:"required,oneof=English Hindi"`
	Settings     ExamPatternSettings `json:"settings" binding:"required"`
	Sections     []CBTSectionRequest `json:"sections" binding:"required,min=1,dive"`
}

// CBTPaperUpdateRequest updates paper metadata; the section tree is not
// editable through this operation.
type CBTPaperUpdateRequest struct {
	Name         string              `json:"name" binding:"required"`
	Year         int                 `json:"year" binding:"required,min=1900"`
	PaperSet     string              `json:"paper_set"`
	Instructions string              `json:"instructions" binding:"required"`
	Language     model.LanguageName  `json:"language" binding:"required,oneof=English Hindi"`
	Settings     ExamPatternSettings `json:"settings" binding:"required"`
}

type PaperStatusUpdateRequest struct {
	Status model.PaperStatus `json:"status" binding:"required,oneof=draft published archived"`
}

type SectionUpdateRequest struct {
	Name        *string `json:"name"`
	SectionTime *int    `json:"section_time" binding:"omitempty,min=1"`
}

type SubSectionUpdateRequest struct {
	Name *string `json:"name"`
}

// CBT RESPONSE TREE

type CBTOptionResponse struct {
	ID     uuid.UUID `json:"id"`
	Option string    `json:"option"`
}

// CBTQuestionBody is a question as delivered to the test-taking client:
// no answers, no explanation.
type CBTQuestionBody struct {
	ID           uuid.UUID           `json:"id"`
	Question     string              `json:"question"`
	QuestionType model.QuestionType  `json:"question_type"`
	ContentType  model.ContentType   `json:"content_type"`
	Passage      *string             `json:"passage,omitempty"`
	Options      []CBTOptionResponse `json:"options,omitempty"`
}

type CBTQuestionResponse struct {
	CBTQuestionBody
	PositiveMarks float64 `json:"positive_marks"`
	NegativeMarks float64 `json:"negative_marks"`
}

type CBTSubSectionResponse struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Questions []CBTQuestionResponse `json:"questions"`
}

type CBTSectionResponse struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	SectionTime int                     `json:"section_time"`
	SubSections []CBTSubSectionResponse `json:"sub_sections"`
}

type CBTPaperResponse struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Year         int                  `json:"year"`
	Language     model.LanguageName   `json:"language"`
	PaperSet     string               `json:"paper_set"`
	Settings     ExamPatternSettings  `json:"settings"`
	Instructions string               `json:"instructions"`
	Sections     []CBTSectionResponse `json:"sections"`
}

type PaperResponse struct {
	ID         uuid.UUID         `json:"id"`
	ExamID     uuid.UUID         `json:"exam_id"`
	Name       string            `json:"name"`
	Year       int               `json:"year"`
	PaperSet   string            `json:"paper_set"`
	Status     model.PaperStatus `json:"status"`
	TemplateID uuid.UUID         `json:"template_id"`
	LanguageID uuid.UUID         `json:"language_id"`
}

// SolutionResponse maps a question id to its answer payload: the correct
// option ids for MCQ/MSQ, the [start, end] bounds for NAT.
type SolutionResponse map[uuid.UUID][]any
