package model

import "github.com/google/uuid"

// Exam is a top-level exam listing - JEE Mains, SSC, etc.
type Exam struct {
	SoftDeleteBase
	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:false" json:"is_active"`
}

func (Exam) TableName() string { return "exams" }

// Paper is one deliverable paper of an exam - JEE Mains 2021, SSC CGL 2020, etc.
// Uniqueness over (exam_id, language_id, year, name, paper_set, is_deleted) is
// declared in the migration step; it includes is_deleted so a soft-deleted slot
// can be re-used.
type Paper struct {
	SoftDeleteBase
	ExamID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"exam_id"`
	Name       string      `gorm:"size:128;not null" json:"name"`
	Year       int         `gorm:"not null" json:"year"`
	PaperSet   string      `gorm:"size:128" json:"paper_set"`
	Status     PaperStatus `gorm:"size:16;not null;default:'draft'" json:"status"`
	TemplateID uuid.UUID   `gorm:"type:uuid;not null" json:"template_id"`
	LanguageID uuid.UUID   `gorm:"type:uuid;not null" json:"language_id"`
}

func (Paper) TableName() string { return "papers" }

// Template stores the exam pattern settings for papers. Rows are
// content-addressed: identical (settings, instructions) reuse an existing row.
type Template struct {
	Base
	Name         string `gorm:"size:128;not null" json:"name"`
	Settings     string `gorm:"type:text;not null" json:"settings"`
	Instructions string `gorm:"type:text" json:"instructions,omitempty"`
}

func (Template) TableName() string { return "templates" }

// Language rows are find-or-create only, one per enumerated name.
type Language struct {
	Base
	Name LanguageName `gorm:"size:32;not null;uniqueIndex" json:"name"`
}

func (Language) TableName() string { return "languages" }

// Section of a paper - Physics, Chemistry, etc. Order is 0-based and defines
// display order within the paper.
type Section struct {
	Base
	Name        string    `gorm:"size:128;not null" json:"name"`
	PaperID     uuid.UUID `gorm:"type:uuid;not null;index" json:"paper_id"`
	SectionTime int       `gorm:"not null" json:"section_time"` // minutes
	Order       int       `gorm:"column:order;not null" json:"order"`
}

func (Section) TableName() string { return "sections" }

type SubSection struct {
	Base
	Name      string    `gorm:"size:128;not null" json:"name"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	Order     int       `gorm:"column:order;not null" json:"order"`
}

func (SubSection) TableName() string { return "sub_sections" }

// SubSectionQuestion links questions into sub-sections with marks and order.
type SubSectionQuestion struct {
	Base
	SubSectionID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_sub_section_question;uniqueIndex:uq_sub_section_order" json:"sub_section_id"`
	QuestionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_sub_section_question" json:"question_id"`
	PositiveMarks float64   `gorm:"not null" json:"positive_marks"`
	NegativeMarks float64   `gorm:"not null;default:0" json:"negative_marks"`
	Order         int       `gorm:"column:order;not null;uniqueIndex:uq_sub_section_order" json:"order"`
}

func (SubSectionQuestion) TableName() string { return "sub_section_questions" }
