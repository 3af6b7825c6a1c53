package model

type QuestionType string

const (
	QuestionTypeMCQ QuestionType = "MCQ"
	QuestionTypeMSQ QuestionType = "MSQ"
	QuestionTypeNAT QuestionType = "NAT"
)

type ContentType string

const (
	ContentTypeNormal  ContentType = "normal"
	ContentTypePassage ContentType = "passage"
)

type PaperStatus string

const (
	PaperStatusDraft     PaperStatus = "draft"
	PaperStatusPublished PaperStatus = "published"
	PaperStatusArchived  PaperStatus = "archived"
)

func (s PaperStatus) Valid() bool {
	switch s {
	case PaperStatusDraft, PaperStatusPublished, PaperStatusArchived:
		return true
	}
	return false
}

type CalculatorType string

const (
	CalculatorTypeNormal     CalculatorType = "normal"
	CalculatorTypeScientific CalculatorType = "scientific"
)

type LanguageName string

const (
	LanguageEnglish LanguageName = "English"
	LanguageHindi   LanguageName = "Hindi"
)
