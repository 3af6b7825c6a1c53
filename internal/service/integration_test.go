package service

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"examina/internal/apperr"
	"examina/internal/dto"
	"examina/internal/logger"
	"examina/internal/model"
	"examina/internal/repository"
)

// Integration tests run against a real postgres and are skipped unless
// EXAMINA_INTEGRATION=1. Point EXAMINA_TEST_DSN at a disposable database:
//
//	EXAMINA_INTEGRATION=1 EXAMINA_TEST_DSN="host=localhost user=postgres ..." go test ./...
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("EXAMINA_INTEGRATION") != "1" {
		t.Skip("set EXAMINA_INTEGRATION=1 to run integration tests")
	}
	dsn := os.Getenv("EXAMINA_TEST_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=examina_test sslmode=disable"
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Exam{}, &model.Paper{}, &model.Template{}, &model.Language{},
		&model.Section{}, &model.SubSection{}, &model.SubSectionQuestion{},
		&model.Question{}, &model.Subject{}, &model.Passage{},
		&model.Tag{}, &model.QuestionTag{}, &model.Option{}, &model.RangeAnswer{},
	))
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_exam_paper_set
		ON papers (exam_id, language_id, year, name, paper_set, is_deleted)`).Error)
	return db
}

func createExam(t *testing.T, svc ExamService) uuid.UUID {
	t.Helper()
	exams, err := svc.CreateBulk(dto.ExamBulkCreateRequest{Exams: []dto.ExamCreateRequest{
		{Name: "Exam " + uuid.NewString()},
	}})
	require.NoError(t, err)
	require.Len(t, exams, 1)
	return exams[0].ID
}

func mcqQuestion(text string, passage string) dto.CBTQuestionRequest {
	return dto.CBTQuestionRequest{
		QuestionUploadRequest: dto.QuestionUploadRequest{
			Question:     text,
			QuestionType: model.QuestionTypeMCQ,
			Subject:      "Physics",
			Passage:      passage,
			Tags:         []string{"kinematics"},
			Options: []dto.OptionUpload{
				{Option: "A", OptionOrder: 1, IsCorrectOption: true},
				{Option: "B", OptionOrder: 2},
				{Option: "C", OptionOrder: 3},
				{Option: "D", OptionOrder: 4},
			},
		},
		PositiveMarks: 4,
		NegativeMarks: 1,
	}
}

func natQuestion(text string) dto.CBTQuestionRequest {
	start, end := 9.7, 9.9
	return dto.CBTQuestionRequest{
		QuestionUploadRequest: dto.QuestionUploadRequest{
			Question:     text,
			QuestionType: model.QuestionTypeNAT,
			Subject:      "Physics",
			Answer:       &dto.RangeAnswerUpload{Start: &start, End: &end},
		},
		PositiveMarks: 4,
	}
}

func samplePaper(name string) dto.CBTPaperRequest {
	return dto.CBTPaperRequest{
		Name:         name,
		Year:         2021,
		PaperSet:     "Set A",
		Instructions: "read all questions carefully",
		Language:     model.LanguageEnglish,
		Settings:     dto.ExamPatternSettings{TotalTime: 180},
		Sections: []dto.CBTSectionRequest{
			{
				Name:        "Physics",
				SectionTime: 60,
				SubSections: []dto.CBTSubSectionRequest{
					{
						Name: "Single Choice",
						Questions: []dto.CBTQuestionRequest{
							mcqQuestion("What is acceleration? "+name, "shared passage"),
							mcqQuestion("What is velocity? "+name, "shared passage"),
						},
					},
					{
						Name:      "Numerical",
						Questions: []dto.CBTQuestionRequest{natQuestion("Value of g? " + name)},
					},
				},
			},
			{
				Name:        "Chemistry",
				SectionTime: 60,
				SubSections: []dto.CBTSubSectionRequest{
					{
						Name:      "Single Choice",
						Questions: []dto.CBTQuestionRequest{mcqQuestion("What is a mole? "+name, "")},
					},
				},
			},
		},
	}
}

func TestCreatePaperRoundTrip(t *testing.T) {
	db := setupDB(t)
	examSvc := NewExamService(db)
	paperSvc := NewPaperService(db)

	examID := createExam(t, examSvc)
	paperName := "Paper " + uuid.NewString()

	created, err := paperSvc.CreatePaper(examID, samplePaper(paperName))
	require.NoError(t, err)
	assert.Equal(t, model.PaperStatusDraft, created.Status)
	assert.Equal(t, 2021, created.Year)

	paper, err := paperSvc.GetForCBT(created.ID)
	require.NoError(t, err)
	assert.Equal(t, paperName, paper.Name)
	assert.Equal(t, model.LanguageEnglish, paper.Language)
	assert.Equal(t, 180, paper.Settings.TotalTime)
	assert.Equal(t, "Read All Questions Carefully", paper.Instructions)

	require.Len(t, paper.Sections, 2)
	assert.Equal(t, "Physics", paper.Sections[0].Name)
	assert.Equal(t, "Chemistry", paper.Sections[1].Name)

	physics := paper.Sections[0]
	require.Len(t, physics.SubSections, 2)
	assert.Equal(t, "Single Choice", physics.SubSections[0].Name)
	require.Len(t, physics.SubSections[0].Questions, 2)
	require.Len(t, physics.SubSections[1].Questions, 1)

	// delivery payload carries options but nothing that gives the answer away
	mcq := physics.SubSections[0].Questions[0]
	assert.Equal(t, 4.0, mcq.PositiveMarks)
	assert.Len(t, mcq.Options, 4)
	require.NotNil(t, mcq.Passage)
	assert.Equal(t, "shared passage", *mcq.Passage)

	nat := physics.SubSections[1].Questions[0]
	assert.Equal(t, model.QuestionTypeNAT, nat.QuestionType)
	assert.Empty(t, nat.Options)

	solution, err := paperSvc.GetSolution(created.ID)
	require.NoError(t, err)
	assert.Len(t, solution, 4)
	assert.Len(t, solution[mcq.ID], 1)
	require.Len(t, solution[nat.ID], 2)
	assert.Equal(t, 9.7, solution[nat.ID][0])
	assert.Equal(t, 9.9, solution[nat.ID][1])
}

func TestSingleQuestionPaperScenario(t *testing.T) {
	db := setupDB(t)
	examSvc := NewExamService(db)
	paperSvc := NewPaperService(db)

	exams, err := examSvc.CreateBulk(dto.ExamBulkCreateRequest{Exams: []dto.ExamCreateRequest{
		{Name: "JEE Mains " + uuid.NewString()},
	}})
	require.NoError(t, err)

	negative := 1.0
	created, err := paperSvc.CreatePaper(exams[0].ID, dto.CBTPaperRequest{
		Name:         "Paper " + uuid.NewString(),
		Year:         2024,
		Instructions: "attempt all questions",
		Language:     model.LanguageEnglish,
		Settings:     dto.ExamPatternSettings{TotalTime: 60},
		Sections: []dto.CBTSectionRequest{{
			Name:        "Physics",
			SectionTime: 60,
			SubSections: []dto.CBTSubSectionRequest{{
				Name: "Mechanics",
				Questions: []dto.CBTQuestionRequest{{
					QuestionUploadRequest: dto.QuestionUploadRequest{
						Question:     "A block slides down a frictionless incline...",
						QuestionType: model.QuestionTypeMCQ,
						Subject:      "Physics",
						Options: []dto.OptionUpload{
							{Option: "10 m/s", OptionOrder: 1},
							{Option: "14 m/s", OptionOrder: 2, IsCorrectOption: true},
						},
					},
					PositiveMarks: 4,
					NegativeMarks: negative,
				}},
			}},
		}},
	})
	require.NoError(t, err)

	paper, err := paperSvc.GetForCBT(created.ID)
	require.NoError(t, err)
	require.Len(t, paper.Sections, 1)
	assert.Equal(t, "Physics", paper.Sections[0].Name)
	assert.Equal(t, 60, paper.Sections[0].SectionTime)
	require.Len(t, paper.Sections[0].SubSections, 1)
	assert.Equal(t, "Mechanics", paper.Sections[0].SubSections[0].Name)
	require.Len(t, paper.Sections[0].SubSections[0].Questions, 1)

	question := paper.Sections[0].SubSections[0].Questions[0]
	assert.Equal(t, 4.0, question.PositiveMarks)
	assert.Equal(t, 1.0, question.NegativeMarks)
	require.Len(t, question.Options, 2)

	solution, err := paperSvc.GetSolution(created.ID)
	require.NoError(t, err)
	require.Len(t, solution[question.ID], 1)
	assert.Equal(t, question.Options[1].ID, solution[question.ID][0])
}

func TestDedupOnWrite(t *testing.T) {
	db := setupDB(t)
	examSvc := NewExamService(db)
	paperSvc := NewPaperService(db)

	examID := createExam(t, examSvc)
	created, err := paperSvc.CreatePaper(examID, samplePaper("Paper "+uuid.NewString()))
	require.NoError(t, err)

	// both MCQ questions in the first sub-section name the same passage and
	// subject; exactly one row each must exist
	paper, err := paperSvc.GetForCBT(created.ID)
	require.NoError(t, err)
	first := paper.Sections[0].SubSections[0].Questions[0]
	second := paper.Sections[0].SubSections[0].Questions[1]
	require.NotNil(t, first.Passage)
	require.NotNil(t, second.Passage)
	assert.Equal(t, "shared passage", *first.Passage)
	assert.Equal(t, "shared passage", *second.Passage)

	passages := repository.NewSoftStore[model.Passage](db)
	rows, err := passages.Filter("passage_text = ?", "shared passage")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	subjects := repository.NewSoftStore[model.Subject](db)
	subjectRows, err := subjects.Filter("name = ?", "Physics")
	require.NoError(t, err)
	assert.Len(t, subjectRows, 1)

	tags := repository.NewStore[model.Tag](db)
	tagRows, err := tags.Filter("tag_name = ?", "kinematics")
	require.NoError(t, err)
	assert.Len(t, tagRows, 1)

	languages := repository.NewStore[model.Language](db)
	languageRows, err := languages.Filter("name = ?", model.LanguageEnglish)
	require.NoError(t, err)
	assert.Len(t, languageRows, 1)
}

func TestSoftDeleteEmitsOneAuditRecord(t *testing.T) {
	db := setupDB(t)
	examSvc := NewExamService(db)

	examID := createExam(t, examSvc)

	var buf bytes.Buffer
	logger.SetAuditOutput(&buf)
	defer logger.SetAuditOutput(os.Stdout)

	_, err := examSvc.Delete(examID)
	require.NoError(t, err)

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		if record["reference_id"] == examID.String() {
			records = append(records, record)
		}
	}
	require.Len(t, records, 1)
	assert.Equal(t, "delete", records[0]["action"])
}

func TestSharedPassageDelivery(t *testing.T) {
	db := setupDB(t)

	// two questions referencing one content-addressed passage row must both
	// be delivered with the text attached
	text := "passage " + uuid.NewString()
	reqs := []dto.QuestionUploadRequest{
		mcqQuestion("first reader "+uuid.NewString(), text).QuestionUploadRequest,
		mcqQuestion("second reader "+uuid.NewString(), text).QuestionUploadRequest,
	}

	var created []model.Question
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = createQuestionsTx(tx, reqs)
		return err
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.NotNil(t, created[0].PassageID)
	assert.Equal(t, created[0].PassageID, created[1].PassageID)

	bodies, err := questionsForCBT(db, []uuid.UUID{created[0].ID, created[1].ID})
	require.NoError(t, err)
	require.Len(t, bodies, 2)
	for _, body := range bodies {
		require.NotNil(t, body.Passage, "question %s delivered without its passage", body.ID)
		assert.Equal(t, text, *body.Passage)
	}
}

func TestPaperUniqueness(t *testing.T) {
	db := setupDB(t)
	examSvc := NewExamService(db)
	paperSvc := NewPaperService(db)

	examID := createExam(t, examSvc)
	name := "Paper " + uuid.NewString()

	created, err := paperSvc.CreatePaper(examID, samplePaper(name))
	require.NoError(t, err)

	_, err = paperSvc.CreatePaper(examID, samplePaper(name))
	var dataLogic *apperr.DataLogicError
	require.ErrorAs(t, err, &dataLogic)

	// a soft-deleted paper frees the slot for a replacement
	_, err = paperSvc.Delete(created.ID)
	require.NoError(t, err)
	_, err = paperSvc.CreatePaper(examID, samplePaper(name))
	require.NoError(t, err)
}

func TestPaperStatusLifecycle(t *testing.T) {
	db := setupDB(t)
	examSvc := NewExamService(db)
	paperSvc := NewPaperService(db)

	examID := createExam(t, examSvc)
	created, err := paperSvc.CreatePaper(examID, samplePaper("Paper "+uuid.NewString()))
	require.NoError(t, err)

	updated, err := paperSvc.UpdateStatus(created.ID, model.PaperStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, model.PaperStatusPublished, updated.Status)

	updated, err = paperSvc.UpdateStatus(created.ID, model.PaperStatusArchived)
	require.NoError(t, err)
	assert.Equal(t, model.PaperStatusArchived, updated.Status)

	_, err = paperSvc.UpdateStatus(created.ID, model.PaperStatusDraft)
	var dataLogic *apperr.DataLogicError
	require.ErrorAs(t, err, &dataLogic)

	_, err = paperSvc.UpdateStatus(created.ID, model.PaperStatusArchived)
	require.ErrorAs(t, err, &dataLogic)

	_, err = paperSvc.UpdateStatus(uuid.New(), model.PaperStatusPublished)
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestExamActiveStatus(t *testing.T) {
	db := setupDB(t)
	examSvc := NewExamService(db)

	examID := createExam(t, examSvc)

	updated, err := examSvc.UpdateActiveStatus(examID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	// repeating the same value is rejected, not silently absorbed
	_, err = examSvc.UpdateActiveStatus(examID, true)
	var dataLogic *apperr.DataLogicError
	require.ErrorAs(t, err, &dataLogic)
}

func TestGetPapersEmptyList(t *testing.T) {
	db := setupDB(t)
	examSvc := NewExamService(db)
	paperSvc := NewPaperService(db)

	examID := createExam(t, examSvc)

	// a draft paper exists but nothing published: empty list, not an error
	_, err := paperSvc.CreatePaper(examID, samplePaper("Paper "+uuid.NewString()))
	require.NoError(t, err)

	papers, err := examSvc.GetPapers(examID, model.PaperStatusPublished)
	require.NoError(t, err)
	assert.Empty(t, papers)

	drafts, err := examSvc.GetPapers(examID, model.PaperStatusDraft)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	_, err = examSvc.GetPapers(uuid.New(), model.PaperStatusPublished)
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSolutionsRejectMixedAnswerMaterial(t *testing.T) {
	db := setupDB(t)

	// forge a corrupted question carrying an option set and a range answer;
	// the options are all incorrect so the guard must key on presence
	question := model.Question{
		Question:     "corrupted " + uuid.NewString(),
		QuestionType: model.QuestionTypeMCQ,
		ContentType:  model.ContentTypeNormal,
		SubjectID:    uuid.New(),
		LanguageID:   uuid.New(),
	}
	questions := repository.NewSoftStore[model.Question](db)
	require.NoError(t, questions.Create(&question))

	options := repository.NewSoftStore[model.Option](db)
	_, err := options.CreateBulk([]model.Option{
		{Option: "a", QuestionID: question.ID, OptionOrder: 1},
		{Option: "b", QuestionID: question.ID, OptionOrder: 2},
	})
	require.NoError(t, err)

	ranges := repository.NewSoftStore[model.RangeAnswer](db)
	require.NoError(t, ranges.Create(&model.RangeAnswer{QuestionID: question.ID, Start: 1, End: 2}))

	_, err = questionSolutions(db, []uuid.UUID{question.ID})
	var dataLogic *apperr.DataLogicError
	require.ErrorAs(t, err, &dataLogic)
}

func TestQuestionCreateAndUpdate(t *testing.T) {
	db := setupDB(t)
	questionSvc := NewQuestionService(db)

	start, end := 1.0, 2.0
	created, err := questionSvc.Create(dto.QuestionUploadRequest{
		Question:     "Evaluate the integral " + uuid.NewString(),
		QuestionType: model.QuestionTypeNAT,
		Subject:      "Maths",
		Answer:       &dto.RangeAnswerUpload{Start: &start, End: &end},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, created.KnowledgeLevel)
	assert.Equal(t, 1200, created.Difficulty)
	assert.Equal(t, model.ContentTypeNormal, created.ContentType)

	newText := "Evaluate the definite integral"
	updated, err := questionSvc.Update(created.ID, dto.QuestionUpdateRequest{
		Question:       &newText,
		KnowledgeLevel: intPtr(13),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	_, err = questionSvc.Update(uuid.New(), dto.QuestionUpdateRequest{Question: &newText})
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// MCQ without options must be rejected before anything is written
	_, err = questionSvc.Create(dto.QuestionUploadRequest{
		Question:     "Pick one " + uuid.NewString(),
		QuestionType: model.QuestionTypeMCQ,
		Subject:      "Maths",
	})
	var dataLogic *apperr.DataLogicError
	require.ErrorAs(t, err, &dataLogic)
}
