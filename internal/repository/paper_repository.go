package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"examina/internal/model"
)

// PaperTreeRow is one row of the denormalized paper join. The join fans out
// across the full hierarchy, so paper/language/template columns repeat on
// every row and section/sub-section columns repeat per question link.
type PaperTreeRow struct {
	PaperID      uuid.UUID
	PaperName    string
	Year         int
	PaperSet     string
	Status       model.PaperStatus
	LanguageName model.LanguageName
	Settings     string
	Instructions string

	SectionID    uuid.UUID
	SectionName  string
	SectionTime  int
	SectionOrder int

	SubSectionID    uuid.UUID
	SubSectionName  string
	SubSectionOrder int

	LinkID        uuid.UUID
	QuestionID    uuid.UUID
	PositiveMarks float64
	NegativeMarks float64
	LinkOrder     int
}

// FetchPaperTree runs the single join across
// papers x languages x templates x sections x sub_sections x sub_section_questions
// for one paper. An empty result means the paper does not exist, is deleted,
// or has no question links yet.
func FetchPaperTree(db *gorm.DB, paperID uuid.UUID) ([]PaperTreeRow, error) {
	var rows []PaperTreeRow
	err := db.Table("papers").
		Select(`papers.id AS paper_id, papers.name AS paper_name, papers.year, papers.paper_set, papers.status,
			languages.name AS language_name, templates.settings, templates.instructions,
			sections.id AS section_id, sections.name AS section_name, sections.section_time, sections."order" AS section_order,
			sub_sections.id AS sub_section_id, sub_sections.name AS sub_section_name, sub_sections."order" AS sub_section_order,
			sub_section_questions.id AS link_id, sub_section_questions.question_id,
			sub_section_questions.positive_marks, sub_section_questions.negative_marks,
			sub_section_questions."order" AS link_order`).
		Joins("JOIN languages ON languages.id = papers.language_id").
		Joins("JOIN templates ON templates.id = papers.template_id").
		Joins("JOIN sections ON sections.paper_id = papers.id").
		Joins("JOIN sub_sections ON sub_sections.section_id = sections.id").
		Joins("JOIN sub_section_questions ON sub_section_questions.sub_section_id = sub_sections.id").
		Where("papers.id = ? AND papers.is_deleted = ?", paperID, false).
		Scan(&rows).Error
	return rows, err
}
