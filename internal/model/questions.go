package model

import "github.com/google/uuid"

type Question struct {
	SoftDeleteBase
	Question       string       `gorm:"type:text;not null" json:"question"`
	Explanation    string       `gorm:"type:text" json:"explanation,omitempty"`
	QuestionType   QuestionType `gorm:"size:8;not null" json:"question_type"`
	ContentType    ContentType  `gorm:"size:16;not null" json:"content_type"`
	PassageID      *uuid.UUID   `gorm:"type:uuid" json:"passage_id,omitempty"`
	SubjectID      uuid.UUID    `gorm:"type:uuid;not null" json:"subject_id"`
	LanguageID     uuid.UUID    `gorm:"type:uuid;not null" json:"language_id"`
	KnowledgeLevel int          `json:"knowledge_level,omitempty"` // class number 1-13, knowledge required
	Difficulty     int          `gorm:"not null;default:500" json:"difficulty"`
	Source         string       `gorm:"size:128" json:"source,omitempty"`
}

func (Question) TableName() string { return "questions" }

type Subject struct {
	SoftDeleteBase
	Name string `gorm:"size:128;not null;uniqueIndex" json:"name"`
}

func (Subject) TableName() string { return "subjects" }

type Passage struct {
	SoftDeleteBase
	PassageText string `gorm:"type:text;not null" json:"passage_text"`
}

func (Passage) TableName() string { return "passages" }

// Tag identity is the tag name alone; the subject is only recorded at creation
// time so tags can be shared across questions of that subject.
type Tag struct {
	Base
	TagName   string    `gorm:"size:128;not null" json:"tag_name"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null" json:"subject_id"`
}

func (Tag) TableName() string { return "tags" }

type QuestionTag struct {
	Base
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_question_tag" json:"question_id"`
	TagID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_question_tag" json:"tag_id"`
}

func (QuestionTag) TableName() string { return "question_tags" }

type Option struct {
	SoftDeleteBase
	Option          string    `gorm:"type:text;not null" json:"option"`
	QuestionID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_option_order" json:"question_id"`
	OptionOrder     int       `gorm:"not null;uniqueIndex:uq_option_order" json:"option_order"`
	IsCorrectOption bool      `gorm:"not null" json:"is_correct_option"`
}

func (Option) TableName() string { return "options" }

// RangeAnswer holds the accepted numeric interval for NAT questions.
type RangeAnswer struct {
	SoftDeleteBase
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Start      float64   `gorm:"not null" json:"start"`
	End        float64   `gorm:"not null" json:"end"`
}

func (RangeAnswer) TableName() string { return "range_answers" }
