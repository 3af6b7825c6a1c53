package service

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"examina/internal/apperr"
	"examina/internal/dto"
	"examina/internal/model"
	"examina/internal/repository"
)

// PaperService owns the paper lifecycle: nested creation, CBT retrieval,
// solutions, metadata updates and the status state machine.
type PaperService interface {
	CreatePaper(examID uuid.UUID, req dto.CBTPaperRequest) (*dto.PaperResponse, error)
	GetForCBT(paperID uuid.UUID) (*dto.CBTPaperResponse, error)
	GetSolution(paperID uuid.UUID) (dto.SolutionResponse, error)
	UpdateStatus(paperID uuid.UUID, status model.PaperStatus) (*dto.PaperResponse, error)
	UpdatePaper(paperID uuid.UUID, req dto.CBTPaperUpdateRequest) (*dto.PaperResponse, error)
	Delete(paperID uuid.UUID) (*dto.PaperResponse, error)
	UpdateSection(sectionID uuid.UUID, req dto.SectionUpdateRequest) error
	UpdateSubSection(subSectionID uuid.UUID, req dto.SubSectionUpdateRequest) error
	UpdateSubSectionQuestion(subSectionID, questionID uuid.UUID, req dto.CBTQuestionUpdateRequest) error
}

type paperService struct {
	db *gorm.DB
}

func NewPaperService(db *gorm.DB) PaperService {
	return &paperService{db: db}
}

func paperResponse(paper *model.Paper) *dto.PaperResponse {
	var resp dto.PaperResponse
	copier.Copy(&resp, paper)
	return &resp
}

// CreatePaper persists the whole nested payload in one transaction: template
// and language are deduped, the paper row is created under the uniqueness
// constraint, then sections, sub-sections, questions and links are bulk
// inserted with their order taken from list position.
func (s *paperService) CreatePaper(examID uuid.UUID, req dto.CBTPaperRequest) (*dto.PaperResponse, error) {
	var paper model.Paper
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exams := repository.NewSoftStore[model.Exam](tx)
		if _, err := exams.Get(examID); err != nil {
			return err
		}

		template, err := resolveTemplate(tx, req.Name, req.Settings, req.Instructions)
		if err != nil {
			return err
		}
		language, err := resolveLanguage(tx, req.Language)
		if err != nil {
			return err
		}

		year := req.Year
		if year == 0 {
			year = time.Now().Year()
		}
		paper = model.Paper{
			ExamID:     examID,
			Name:       req.Name,
			Year:       year,
			PaperSet:   req.PaperSet,
			Status:     model.PaperStatusDraft,
			TemplateID: template.ID,
			LanguageID: language.ID,
		}
		papers := repository.NewSoftStore[model.Paper](tx)
		if err := papers.Create(&paper); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.NewDataLogic("paper already exists for the exam", map[string]any{
					"exam_id":    examID,
					"paper_name": req.Name,
					"year":       year,
					"paper_set":  req.PaperSet,
				})
			}
			return err
		}

		return createPaperTreeTx(tx, &paper, req.Language, req.Sections)
	})
	if err != nil {
		return nil, err
	}
	return paperResponse(&paper), nil
}

// createPaperTreeTx bulk-creates the section hierarchy under an existing
// paper. Question payloads without an explicit language inherit the paper
// language before the batched question path runs.
func createPaperTreeTx(tx *gorm.DB, paper *model.Paper, paperLanguage model.LanguageName, sectionReqs []dto.CBTSectionRequest) error {
	sectionModels := make([]model.Section, len(sectionReqs))
	for i, sec := range sectionReqs {
		sectionModels[i] = model.Section{
			Name:        sec.Name,
			PaperID:     paper.ID,
			SectionTime: sec.SectionTime,
			Order:       i,
		}
	}
	sections := repository.NewStore[model.Section](tx)
	createdSections, err := sections.CreateBulk(sectionModels)
	if err != nil {
		return err
	}

	var subModels []model.SubSection
	for i, sec := range sectionReqs {
		for j, sub := range sec.SubSections {
			subModels = append(subModels, model.SubSection{
				Name:      sub.Name,
				SectionID: createdSections[i].ID,
				Order:     j,
			})
		}
	}
	subSections := repository.NewStore[model.SubSection](tx)
	createdSubs, err := subSections.CreateBulk(subModels)
	if err != nil {
		return err
	}

	// flatten question payloads in sub-section order; createdSubs and the
	// flattened list line up positionally with the nested request
	var questionReqs []dto.QuestionUploadRequest
	var marks []dto.CBTQuestionRequest
	var subOf []uuid.UUID
	var orderOf []int
	subIdx := 0
	for _, sec := range sectionReqs {
		for _, sub := range sec.SubSections {
			for k, q := range sub.Questions {
				upload := q.QuestionUploadRequest
				if upload.Language == nil {
					lang := paperLanguage
					upload.Language = &lang
				}
				questionReqs = append(questionReqs, upload)
				marks = append(marks, q)
				subOf = append(subOf, createdSubs[subIdx].ID)
				orderOf = append(orderOf, k)
			}
			subIdx++
		}
	}

	createdQuestions, err := createQuestionsTx(tx, questionReqs)
	if err != nil {
		return err
	}

	linkModels := make([]model.SubSectionQuestion, len(createdQuestions))
	for i := range createdQuestions {
		linkModels[i] = model.SubSectionQuestion{
			SubSectionID:  subOf[i],
			QuestionID:    createdQuestions[i].ID,
			PositiveMarks: marks[i].PositiveMarks,
			NegativeMarks: marks[i].NegativeMarks,
			Order:         orderOf[i],
		}
	}
	links := repository.NewStore[model.SubSectionQuestion](tx)
	if _, err := links.CreateBulk(linkModels); err != nil {
		return err
	}
	return nil
}

// GetForCBT reconstructs the nested paper from the flat join: the cartesian
// fan-out repeats parent columns on every row, so each level is deduped by id
// before the tree is assembled bottom-up and ordered.
func (s *paperService) GetForCBT(paperID uuid.UUID) (*dto.CBTPaperResponse, error) {
	var resp *dto.CBTPaperResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := repository.FetchPaperTree(tx, paperID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return apperr.NewNotFound("Paper", paperID)
		}
		resp, err = assemblePaperTree(tx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func assemblePaperTree(tx *gorm.DB, rows []repository.PaperTreeRow) (*dto.CBTPaperResponse, error) {
	head := rows[0]
	var settings dto.ExamPatternSettings
	if err := json.Unmarshal([]byte(head.Settings), &settings); err != nil {
		return nil, err
	}

	type linkInfo struct {
		questionID    uuid.UUID
		positiveMarks float64
		negativeMarks float64
		order         int
	}
	type subInfo struct {
		id    uuid.UUID
		name  string
		order int
		links []linkInfo
	}
	type secInfo struct {
		id    uuid.UUID
		name  string
		time  int
		order int
		subs  []uuid.UUID
	}

	sections := make(map[uuid.UUID]*secInfo)
	subs := make(map[uuid.UUID]*subInfo)
	seenLink := make(map[uuid.UUID]bool)
	var sectionOrder []uuid.UUID
	var questionIDs []uuid.UUID
	seenQuestion := make(map[uuid.UUID]bool)

	for _, row := range rows {
		sec, ok := sections[row.SectionID]
		if !ok {
			sec = &secInfo{id: row.SectionID, name: row.SectionName, time: row.SectionTime, order: row.SectionOrder}
			sections[row.SectionID] = sec
			sectionOrder = append(sectionOrder, row.SectionID)
		}
		sub, ok := subs[row.SubSectionID]
		if !ok {
			sub = &subInfo{id: row.SubSectionID, name: row.SubSectionName, order: row.SubSectionOrder}
			subs[row.SubSectionID] = sub
			sec.subs = append(sec.subs, row.SubSectionID)
		}
		if !seenLink[row.LinkID] {
			seenLink[row.LinkID] = true
			sub.links = append(sub.links, linkInfo{
				questionID:    row.QuestionID,
				positiveMarks: row.PositiveMarks,
				negativeMarks: row.NegativeMarks,
				order:         row.LinkOrder,
			})
		}
		if !seenQuestion[row.QuestionID] {
			seenQuestion[row.QuestionID] = true
			questionIDs = append(questionIDs, row.QuestionID)
		}
	}

	bodies, err := questionsForCBT(tx, questionIDs)
	if err != nil {
		return nil, err
	}
	bodyOf := make(map[uuid.UUID]dto.CBTQuestionBody, len(bodies))
	for _, b := range bodies {
		bodyOf[b.ID] = b
	}

	resp := &dto.CBTPaperResponse{
		ID:           head.PaperID,
		Name:         head.PaperName,
		Year:         head.Year,
		Language:     head.LanguageName,
		PaperSet:     head.PaperSet,
		Settings:     settings,
		Instructions: head.Instructions,
	}

	sort.SliceStable(sectionOrder, func(i, j int) bool {
		return sections[sectionOrder[i]].order < sections[sectionOrder[j]].order
	})
	for _, secID := range sectionOrder {
		sec := sections[secID]
		sort.SliceStable(sec.subs, func(i, j int) bool {
			return subs[sec.subs[i]].order < subs[sec.subs[j]].order
		})
		secResp := dto.CBTSectionResponse{ID: sec.id, Name: sec.name, SectionTime: sec.time}
		for _, subID := range sec.subs {
			sub := subs[subID]
			sort.SliceStable(sub.links, func(i, j int) bool { return sub.links[i].order < sub.links[j].order })
			subResp := dto.CBTSubSectionResponse{ID: sub.id, Name: sub.name}
			for _, link := range sub.links {
				subResp.Questions = append(subResp.Questions, dto.CBTQuestionResponse{
					CBTQuestionBody: bodyOf[link.questionID],
					PositiveMarks:   link.positiveMarks,
					NegativeMarks:   link.negativeMarks,
				})
			}
			secResp.SubSections = append(secResp.SubSections, subResp)
		}
		resp.Sections = append(resp.Sections, secResp)
	}
	return resp, nil
}

// GetSolution returns the answer key for every question linked into the paper.
func (s *paperService) GetSolution(paperID uuid.UUID) (dto.SolutionResponse, error) {
	var solutions dto.SolutionResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := repository.FetchPaperTree(tx, paperID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return apperr.NewNotFound("Paper", paperID)
		}
		var questionIDs []uuid.UUID
		seen := make(map[uuid.UUID]bool)
		for _, row := range rows {
			if !seen[row.QuestionID] {
				seen[row.QuestionID] = true
				questionIDs = append(questionIDs, row.QuestionID)
			}
		}
		solutions, err = questionSolutions(tx, questionIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return solutions, nil
}

// validateStatusTransition enforces the paper lifecycle: any move out of
// draft is allowed, published and archived flip between each other, and
// nothing goes back to draft.
func validateStatusTransition(current, next model.PaperStatus) error {
	if current == next {
		return apperr.NewDataLogic("paper is already in the requested status", map[string]any{
			"status": current,
		})
	}
	if current == model.PaperStatusDraft {
		return nil
	}
	if next == model.PaperStatusDraft {
		return apperr.NewDataLogic("paper cannot go back to draft", map[string]any{
			"current_status": current,
		})
	}
	return nil
}

func (s *paperService) UpdateStatus(paperID uuid.UUID, status model.PaperStatus) (*dto.PaperResponse, error) {
	var paper *model.Paper
	err := s.db.Transaction(func(tx *gorm.DB) error {
		papers := repository.NewSoftStore[model.Paper](tx)
		var err error
		paper, err = papers.Get(paperID)
		if err != nil {
			return err
		}
		if err := validateStatusTransition(paper.Status, status); err != nil {
			return err
		}
		if err := papers.Update(paper, map[string]any{"status": status}); err != nil {
			return err
		}
		paper.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paperResponse(paper), nil
}

// UpdatePaper replaces the paper metadata. Templates and languages are
// shared, deduplicated rows, so changed settings repoint the foreign keys to
// freshly resolved rows rather than mutating in place.
func (s *paperService) UpdatePaper(paperID uuid.UUID, req dto.CBTPaperUpdateRequest) (*dto.PaperResponse, error) {
	var paper *model.Paper
	err := s.db.Transaction(func(tx *gorm.DB) error {
		papers := repository.NewSoftStore[model.Paper](tx)
		var err error
		paper, err = papers.Get(paperID)
		if err != nil {
			return err
		}
		template, err := resolveTemplate(tx, req.Name, req.Settings, req.Instructions)
		if err != nil {
			return err
		}
		language, err := resolveLanguage(tx, req.Language)
		if err != nil {
			return err
		}
		changes := map[string]any{
			"name":        req.Name,
			"year":        req.Year,
			"paper_set":   req.PaperSet,
			"template_id": template.ID,
			"language_id": language.ID,
		}
		if err := papers.Update(paper, changes); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.NewDataLogic("paper already exists for the exam", map[string]any{
					"exam_id":    paper.ExamID,
					"paper_name": req.Name,
					"year":       req.Year,
					"paper_set":  req.PaperSet,
				})
			}
			return err
		}
		paper, err = papers.Get(paperID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return paperResponse(paper), nil
}

func (s *paperService) Delete(paperID uuid.UUID) (*dto.PaperResponse, error) {
	var paper *model.Paper
	err := s.db.Transaction(func(tx *gorm.DB) error {
		papers := repository.NewSoftStore[model.Paper](tx)
		var err error
		paper, err = papers.Delete(paperID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return paperResponse(paper), nil
}

func (s *paperService) UpdateSection(sectionID uuid.UUID, req dto.SectionUpdateRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		sections := repository.NewStore[model.Section](tx)
		section, err := sections.Get(sectionID)
		if err != nil {
			return err
		}
		changes := make(map[string]any)
		if req.Name != nil {
			changes["name"] = *req.Name
		}
		if req.SectionTime != nil {
			changes["section_time"] = *req.SectionTime
		}
		if len(changes) == 0 {
			return nil
		}
		return sections.Update(section, changes)
	})
}

func (s *paperService) UpdateSubSection(subSectionID uuid.UUID, req dto.SubSectionUpdateRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		subSections := repository.NewStore[model.SubSection](tx)
		subSection, err := subSections.Get(subSectionID)
		if err != nil {
			return err
		}
		if req.Name == nil {
			return nil
		}
		return subSections.Update(subSection, map[string]any{"name": *req.Name})
	})
}

// UpdateSubSectionQuestion updates the marks on an existing link plus the
// linked question itself. An unlinked (sub-section, question) pair is a data
// logic error, not a silent no-op.
func (s *paperService) UpdateSubSectionQuestion(subSectionID, questionID uuid.UUID, req dto.CBTQuestionUpdateRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		links := repository.NewStore[model.SubSectionQuestion](tx)
		existing, err := links.Filter("sub_section_id = ? AND question_id = ?", subSectionID, questionID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return apperr.NewDataLogic("question is not linked to the sub-section", map[string]any{
				"sub_section_id": subSectionID,
				"question_id":    questionID,
			})
		}

		changes := make(map[string]any)
		if req.PositiveMarks != nil {
			changes["positive_marks"] = *req.PositiveMarks
		}
		if req.NegativeMarks != nil {
			changes["negative_marks"] = *req.NegativeMarks
		}
		if len(changes) > 0 {
			if err := links.Update(&existing[0], changes); err != nil {
				return err
			}
		}

		_, err = updateQuestionTx(tx, questionID, req.QuestionUpdateRequest)
		return err
	})
}
