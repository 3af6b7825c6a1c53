package service

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"examina/internal/apperr"
	"examina/internal/dto"
	"examina/internal/model"
	"examina/internal/repository"
)

const defaultKnowledgeLevel = 12

// QuestionService manages standalone question authoring. Paper assembly
// reuses the same tx-scoped building blocks inside its own transaction.
type QuestionService interface {
	Create(req dto.QuestionUploadRequest) (*dto.QuestionResponse, error)
	CreateBulk(reqs []dto.QuestionUploadRequest) ([]dto.QuestionResponse, error)
	Update(id uuid.UUID, req dto.QuestionUpdateRequest) (*dto.QuestionResponse, error)
}

type questionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) QuestionService {
	return &questionService{db: db}
}

func (s *questionService) Create(req dto.QuestionUploadRequest) (*dto.QuestionResponse, error) {
	var question *model.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		question, err = createQuestionTx(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return questionResponse(question), nil
}

func (s *questionService) CreateBulk(reqs []dto.QuestionUploadRequest) ([]dto.QuestionResponse, error) {
	var questions []model.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		questions, err = createQuestionsTx(tx, reqs)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuestionResponse, len(questions))
	for i := range questions {
		out[i] = *questionResponse(&questions[i])
	}
	return out, nil
}

func (s *questionService) Update(id uuid.UUID, req dto.QuestionUpdateRequest) (*dto.QuestionResponse, error) {
	var question *model.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		question, err = updateQuestionTx(tx, id, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return questionResponse(question), nil
}

func questionResponse(question *model.Question) *dto.QuestionResponse {
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp
}

// defaulting rules shared by the single and bulk creation paths

func knowledgeLevelOf(req dto.QuestionUploadRequest) int {
	if req.KnowledgeLevel != nil {
		return *req.KnowledgeLevel
	}
	return defaultKnowledgeLevel
}

// difficultyOf derives a missing difficulty from the knowledge level: class
// 12 material defaults to 1200.
func difficultyOf(req dto.QuestionUploadRequest) int {
	if req.Difficulty != nil {
		return *req.Difficulty
	}
	return 100 * knowledgeLevelOf(req)
}

func contentTypeOf(req dto.QuestionUploadRequest) model.ContentType {
	if strings.TrimSpace(req.Passage) != "" {
		return model.ContentTypePassage
	}
	return model.ContentTypeNormal
}

func languageOf(req dto.QuestionUploadRequest) model.LanguageName {
	if req.Language != nil {
		return *req.Language
	}
	return model.LanguageEnglish
}

// validateAnswerMaterial checks that the payload carries the answer kind its
// question type requires. The exactly-one-kind invariant follows from the
// type switch: MCQ/MSQ payloads only produce options, NAT only a range.
func validateAnswerMaterial(req dto.QuestionUploadRequest) error {
	switch req.QuestionType {
	case model.QuestionTypeMCQ, model.QuestionTypeMSQ:
		if len(req.Options) == 0 {
			return apperr.NewDataLogic("question is MCQ/MSQ type but does not contain any options", map[string]any{
				"question": req.Question,
			})
		}
	case model.QuestionTypeNAT:
		if req.Answer == nil || req.Answer.Start == nil || req.Answer.End == nil {
			return apperr.NewDataLogic("question is value problem type but does not contain start and end", map[string]any{
				"question": req.Question,
			})
		}
	}
	return nil
}

func buildQuestion(req dto.QuestionUploadRequest, subjectID, languageID uuid.UUID, passageID *uuid.UUID) model.Question {
	return model.Question{
		Question:       req.Question,
		Explanation:    req.Explanation,
		QuestionType:   req.QuestionType,
		ContentType:    contentTypeOf(req),
		PassageID:      passageID,
		SubjectID:      subjectID,
		LanguageID:     languageID,
		KnowledgeLevel: knowledgeLevelOf(req),
		Difficulty:     difficultyOf(req),
		Source:         req.Source,
	}
}

// createQuestionTx creates one question with its subject, language, passage,
// tags and answer material resolved within the caller's transaction.
func createQuestionTx(tx *gorm.DB, req dto.QuestionUploadRequest) (*model.Question, error) {
	if err := validateAnswerMaterial(req); err != nil {
		return nil, err
	}

	subject, err := resolveSubject(tx, req.Subject)
	if err != nil {
		return nil, err
	}
	language, err := resolveLanguage(tx, languageOf(req))
	if err != nil {
		return nil, err
	}

	var passageID *uuid.UUID
	if strings.TrimSpace(req.Passage) != "" {
		passage, err := resolvePassage(tx, req.Passage)
		if err != nil {
			return nil, err
		}
		passageID = &passage.ID
	}

	questions := repository.NewSoftStore[model.Question](tx)
	question := buildQuestion(req, subject.ID, language.ID, passageID)
	if err := questions.Create(&question); err != nil {
		return nil, err
	}

	if len(req.Tags) > 0 {
		tagModels := make([]model.Tag, len(req.Tags))
		for i, name := range req.Tags {
			tagModels[i] = model.Tag{TagName: name, SubjectID: subject.ID}
		}
		tags, err := resolveTagsBulk(tx, tagModels)
		if err != nil {
			return nil, err
		}
		links := make([]model.QuestionTag, len(tags))
		for i, tag := range tags {
			links[i] = model.QuestionTag{QuestionID: question.ID, TagID: tag.ID}
		}
		if _, err := linkQuestionTags(tx, links); err != nil {
			return nil, err
		}
	}

	switch req.QuestionType {
	case model.QuestionTypeMCQ, model.QuestionTypeMSQ:
		options := make([]model.Option, len(req.Options))
		for i, o := range req.Options {
			options[i] = model.Option{
				Option:          o.Option,
				QuestionID:      question.ID,
				OptionOrder:     o.OptionOrder,
				IsCorrectOption: o.IsCorrectOption,
			}
		}
		if _, err := createOptions(tx, options); err != nil {
			return nil, err
		}
	case model.QuestionTypeNAT:
		answer := model.RangeAnswer{QuestionID: question.ID, Start: *req.Answer.Start, End: *req.Answer.End}
		if _, err := createRangeAnswers(tx, []model.RangeAnswer{answer}); err != nil {
			return nil, err
		}
	}

	return &question, nil
}

// createQuestionsTx is the batched variant: one subject resolve, one language
// resolve, one passage resolve over the distinct texts, one tag resolve over
// the flattened list, then one options insert and one range-answers insert
// grouped by question type. Every resolve preserves input order so the
// re-association with reqs is a positional zip.
func createQuestionsTx(tx *gorm.DB, reqs []dto.QuestionUploadRequest) ([]model.Question, error) {
	for _, req := range reqs {
		if err := validateAnswerMaterial(req); err != nil {
			return nil, err
		}
	}

	subjectNames := make([]string, len(reqs))
	languageNames := make([]model.LanguageName, len(reqs))
	for i, req := range reqs {
		subjectNames[i] = req.Subject
		languageNames[i] = languageOf(req)
	}
	subjects, err := resolveSubjectsBulk(tx, subjectNames)
	if err != nil {
		return nil, err
	}
	subjectIDs := make(map[string]uuid.UUID, len(subjects))
	for _, s := range subjects {
		subjectIDs[s.Name] = s.ID
	}
	languages, err := resolveLanguagesBulk(tx, languageNames)
	if err != nil {
		return nil, err
	}
	languageIDs := make(map[model.LanguageName]uuid.UUID, len(languages))
	for _, l := range languages {
		languageIDs[l.Name] = l.ID
	}

	var passageTexts []string
	seenPassage := make(map[string]bool)
	for _, req := range reqs {
		text := strings.TrimSpace(req.Passage)
		if text != "" && !seenPassage[text] {
			seenPassage[text] = true
			passageTexts = append(passageTexts, text)
		}
	}
	passageIDs := make(map[string]uuid.UUID, len(passageTexts))
	if len(passageTexts) > 0 {
		passages, err := resolvePassagesBulk(tx, passageTexts)
		if err != nil {
			return nil, err
		}
		for _, p := range passages {
			passageIDs[p.PassageText] = p.ID
		}
	}

	toCreate := make([]model.Question, len(reqs))
	for i, req := range reqs {
		var passageID *uuid.UUID
		if text := strings.TrimSpace(req.Passage); text != "" {
			id := passageIDs[text]
			passageID = &id
		}
		toCreate[i] = buildQuestion(req, subjectIDs[req.Subject], languageIDs[languageOf(req)], passageID)
	}

	var tagModels []model.Tag
	for _, req := range reqs {
		for _, name := range req.Tags {
			tagModels = append(tagModels, model.Tag{TagName: name, SubjectID: subjectIDs[req.Subject]})
		}
	}

	questions := repository.NewSoftStore[model.Question](tx)
	created, err := questions.CreateBulk(toCreate)
	if err != nil {
		return nil, err
	}

	if len(tagModels) > 0 {
		tags, err := resolveTagsBulk(tx, tagModels)
		if err != nil {
			return nil, err
		}
		tagIDs := make(map[string]uuid.UUID, len(tags))
		for _, t := range tags {
			tagIDs[t.TagName] = t.ID
		}
		var links []model.QuestionTag
		for i, req := range reqs {
			for _, name := range req.Tags {
				links = append(links, model.QuestionTag{QuestionID: created[i].ID, TagID: tagIDs[name]})
			}
		}
		if _, err := linkQuestionTags(tx, links); err != nil {
			return nil, err
		}
	}

	var options []model.Option
	var answers []model.RangeAnswer
	for i, req := range reqs {
		switch req.QuestionType {
		case model.QuestionTypeMCQ, model.QuestionTypeMSQ:
			for _, o := range req.Options {
				options = append(options, model.Option{
					Option:          o.Option,
					QuestionID:      created[i].ID,
					OptionOrder:     o.OptionOrder,
					IsCorrectOption: o.IsCorrectOption,
				})
			}
		case model.QuestionTypeNAT:
			answers = append(answers, model.RangeAnswer{QuestionID: created[i].ID, Start: *req.Answer.Start, End: *req.Answer.End})
		}
	}
	if len(options) > 0 {
		if _, err := createOptions(tx, options); err != nil {
			return nil, err
		}
	}
	if len(answers) > 0 {
		if _, err := createRangeAnswers(tx, answers); err != nil {
			return nil, err
		}
	}

	return created, nil
}

// questionsForCBT assembles the delivery bodies for the given ids, ordered to
// match the input sequence. A missing id fails the whole call; a partial
// paper is worse than no paper.
func questionsForCBT(tx *gorm.DB, ids []uuid.UUID) ([]dto.CBTQuestionBody, error) {
	questions := repository.NewSoftStore[model.Question](tx)
	instances, err := questions.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(instances) != len(ids) {
		return nil, apperr.NewDataLogic("some of the questions are missing from the database", map[string]any{
			"question_ids": ids,
		})
	}

	bodies := make(map[uuid.UUID]*dto.CBTQuestionBody, len(instances))
	for i := range instances {
		q := instances[i]
		bodies[q.ID] = &dto.CBTQuestionBody{
			ID:           q.ID,
			Question:     q.Question,
			QuestionType: q.QuestionType,
			ContentType:  q.ContentType,
		}
	}

	options := repository.NewSoftStore[model.Option](tx)
	optionInstances, err := options.Filter("question_id IN ?", ids)
	if err != nil {
		return nil, err
	}
	// deliver options in their authored order, not fetch order
	sort.SliceStable(optionInstances, func(i, j int) bool {
		return optionInstances[i].OptionOrder < optionInstances[j].OptionOrder
	})
	for _, o := range optionInstances {
		body := bodies[o.QuestionID]
		body.Options = append(body.Options, dto.CBTOptionResponse{ID: o.ID, Option: o.Option})
	}

	// passages are content-addressed, so several questions can share one row;
	// the text must be attached to every one of them
	passageToQuestions := make(map[uuid.UUID][]uuid.UUID)
	var passageIDs []uuid.UUID
	for i := range instances {
		if pid := instances[i].PassageID; pid != nil {
			if _, ok := passageToQuestions[*pid]; !ok {
				passageIDs = append(passageIDs, *pid)
			}
			passageToQuestions[*pid] = append(passageToQuestions[*pid], instances[i].ID)
		}
	}
	if len(passageIDs) > 0 {
		passages := repository.NewSoftStore[model.Passage](tx)
		passageInstances, err := passages.GetByIDs(passageIDs)
		if err != nil {
			return nil, err
		}
		for i := range passageInstances {
			p := passageInstances[i]
			for _, questionID := range passageToQuestions[p.ID] {
				text := p.PassageText
				bodies[questionID].Passage = &text
			}
		}
	}

	out := make([]dto.CBTQuestionBody, len(ids))
	for i, id := range ids {
		out[i] = *bodies[id]
	}
	return out, nil
}

// questionSolutions maps each question id to its answer payload: correct
// option ids for MCQ/MSQ, [start, end] for NAT. A question carrying both
// kinds signals corrupted data and fails the call.
func questionSolutions(tx *gorm.DB, ids []uuid.UUID) (dto.SolutionResponse, error) {
	questions := repository.NewSoftStore[model.Question](tx)
	instances, err := questions.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(instances) != len(ids) {
		return nil, apperr.NewDataLogic("some of the questions are missing from the database", map[string]any{
			"question_ids": ids,
		})
	}

	solutions := make(dto.SolutionResponse, len(ids))

	options := repository.NewSoftStore[model.Option](tx)
	optionInstances, err := options.Filter("question_id IN ?", ids)
	if err != nil {
		return nil, err
	}
	hasOptions := make(map[uuid.UUID]bool)
	for _, o := range optionInstances {
		hasOptions[o.QuestionID] = true
		if o.IsCorrectOption {
			solutions[o.QuestionID] = append(solutions[o.QuestionID], o.ID)
		}
	}

	ranges := repository.NewSoftStore[model.RangeAnswer](tx)
	rangeInstances, err := ranges.Filter("question_id IN ?", ids)
	if err != nil {
		return nil, err
	}
	for _, r := range rangeInstances {
		if hasOptions[r.QuestionID] {
			return nil, apperr.NewDataLogic("question has both MCQ/MSQ and NAT type answers", map[string]any{
				"question_id": r.QuestionID,
			})
		}
		solutions[r.QuestionID] = []any{r.Start, r.End}
	}

	return solutions, nil
}

// updateQuestionTx applies a partial update: scalar fields directly, subject
// and language re-resolved only when provided, passage and content-type per
// the passage rules, tags additively.
func updateQuestionTx(tx *gorm.DB, id uuid.UUID, req dto.QuestionUpdateRequest) (*model.Question, error) {
	questions := repository.NewSoftStore[model.Question](tx)
	question, err := questions.Get(id)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	if req.Question != nil {
		changes["question"] = *req.Question
	}
	if req.Explanation != nil {
		changes["explanation"] = *req.Explanation
	}
	if req.KnowledgeLevel != nil {
		changes["knowledge_level"] = *req.KnowledgeLevel
	}
	if req.Difficulty != nil {
		changes["difficulty"] = *req.Difficulty
	}
	if req.Source != nil {
		changes["source"] = *req.Source
	}

	if req.Subject != nil {
		subject, err := resolveSubject(tx, *req.Subject)
		if err != nil {
			return nil, err
		}
		changes["subject_id"] = subject.ID
		question.SubjectID = subject.ID
	}
	if req.Language != nil {
		language, err := resolveLanguage(tx, *req.Language)
		if err != nil {
			return nil, err
		}
		changes["language_id"] = language.ID
	}

	if req.Passage != nil && strings.TrimSpace(*req.Passage) != "" {
		passage, err := resolvePassage(tx, *req.Passage)
		if err != nil {
			return nil, err
		}
		changes["passage_id"] = passage.ID
		changes["content_type"] = model.ContentTypePassage
	} else if req.ContentType != nil && *req.ContentType == model.ContentTypeNormal {
		changes["passage_id"] = nil
		changes["content_type"] = model.ContentTypeNormal
	}

	if len(changes) > 0 {
		if err := questions.Update(question, changes); err != nil {
			return nil, err
		}
	}

	if len(req.Tags) > 0 {
		tagModels := make([]model.Tag, len(req.Tags))
		for i, name := range req.Tags {
			tagModels[i] = model.Tag{TagName: name, SubjectID: question.SubjectID}
		}
		tags, err := resolveTagsBulk(tx, tagModels)
		if err != nil {
			return nil, err
		}
		links := make([]model.QuestionTag, len(tags))
		for i, tag := range tags {
			links[i] = model.QuestionTag{QuestionID: question.ID, TagID: tag.ID}
		}
		if _, err := linkQuestionTags(tx, links); err != nil {
			return nil, err
		}
	}

	// Updates with a map does not write back into the struct
	return questions.Get(id)
}
