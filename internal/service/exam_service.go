package service

import (
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"examina/internal/apperr"
	"examina/internal/dto"
	"examina/internal/model"
	"examina/internal/repository"
)

// ExamService manages the top-level exam catalog.
type ExamService interface {
	GetExams(includeInactive bool, page dto.PageRequest) (*dto.PagedResponse[dto.ExamResponse], error)
	CreateBulk(req dto.ExamBulkCreateRequest) ([]dto.ExamResponse, error)
	UpdateActiveStatus(examID uuid.UUID, isActive bool) (*dto.ExamResponse, error)
	GetPapers(examID uuid.UUID, status model.PaperStatus) ([]dto.PaperSummaryResponse, error)
	Delete(examID uuid.UUID) (*dto.ExamResponse, error)
}

type examService struct {
	db *gorm.DB
}

func NewExamService(db *gorm.DB) ExamService {
	return &examService{db: db}
}

func examResponse(exam *model.Exam) *dto.ExamResponse {
	var resp dto.ExamResponse
	copier.Copy(&resp, exam)
	return &resp
}

func (s *examService) GetExams(includeInactive bool, page dto.PageRequest) (*dto.PagedResponse[dto.ExamResponse], error) {
	var resp dto.PagedResponse[dto.ExamResponse]
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exams := repository.NewSoftStore[model.Exam](tx)
		paging := repository.Page{
			Limit:   page.Size,
			Offset:  (page.Page - 1) * page.Size,
			OrderBy: "name",
		}
		query := ""
		var args []any
		if !includeInactive {
			query = "is_active = ?"
			args = append(args, true)
		}
		instances, total, err := exams.FilterPage(paging, query, args...)
		if err != nil {
			return err
		}
		resp = dto.PagedResponse[dto.ExamResponse]{
			Items: make([]dto.ExamResponse, len(instances)),
			Total: total,
			Page:  page.Page,
			Size:  page.Size,
		}
		for i := range instances {
			resp.Items[i] = *examResponse(&instances[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateBulk inserts the exams whose names are not already present and
// returns one row per requested name, existing rows included, in request
// order.
func (s *examService) CreateBulk(req dto.ExamBulkCreateRequest) ([]dto.ExamResponse, error) {
	var result []model.Exam
	err := s.db.Transaction(func(tx *gorm.DB) error {
		names := make([]string, len(req.Exams))
		for i, e := range req.Exams {
			names[i] = e.Name
		}
		exams := repository.NewSoftStore[model.Exam](tx)
		existing, err := exams.Filter("name IN ?", names)
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, e := range existing {
			have[e.Name] = true
		}
		var fresh []model.Exam
		for _, e := range req.Exams {
			if !have[e.Name] {
				have[e.Name] = true
				fresh = append(fresh, model.Exam{Name: e.Name, Description: e.Description})
			}
		}
		created, err := exams.CreateBulk(fresh)
		if err != nil {
			return err
		}
		result = orderByKeys(append(existing, created...), names, func(e model.Exam) string { return e.Name })
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExamResponse, len(result))
	for i := range result {
		out[i] = *examResponse(&result[i])
	}
	return out, nil
}

func (s *examService) UpdateActiveStatus(examID uuid.UUID, isActive bool) (*dto.ExamResponse, error) {
	var exam *model.Exam
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exams := repository.NewSoftStore[model.Exam](tx)
		var err error
		exam, err = exams.Get(examID)
		if err != nil {
			return err
		}
		if exam.IsActive == isActive {
			return apperr.NewDataLogic("exam is already in the requested active status", map[string]any{
				"exam_id":   examID,
				"is_active": isActive,
			})
		}
		if err := exams.Update(exam, map[string]any{"is_active": isActive}); err != nil {
			return err
		}
		exam.IsActive = isActive
		return nil
	})
	if err != nil {
		return nil, err
	}
	return examResponse(exam), nil
}

// GetPapers lists an exam's papers in the given status. A valid exam with no
// matching papers returns an empty list, not an error.
func (s *examService) GetPapers(examID uuid.UUID, status model.PaperStatus) ([]dto.PaperSummaryResponse, error) {
	var out []dto.PaperSummaryResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exams := repository.NewSoftStore[model.Exam](tx)
		if _, err := exams.Get(examID); err != nil {
			return err
		}
		papers := repository.NewSoftStore[model.Paper](tx)
		instances, err := papers.Filter("exam_id = ? AND status = ?", examID, status)
		if err != nil {
			return err
		}
		out = make([]dto.PaperSummaryResponse, len(instances))
		for i, p := range instances {
			out[i] = dto.PaperSummaryResponse{
				ID:       p.ID,
				Name:     p.Name,
				Year:     p.Year,
				PaperSet: p.PaperSet,
				Status:   p.Status,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *examService) Delete(examID uuid.UUID) (*dto.ExamResponse, error) {
	var exam *model.Exam
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exams := repository.NewSoftStore[model.Exam](tx)
		var err error
		exam, err = exams.Delete(examID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return examResponse(exam), nil
}
