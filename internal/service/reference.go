package service

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"gorm.io/gorm"

	"examina/internal/dto"
	"examina/internal/model"
	"examina/internal/repository"
)

// Find-or-create resolvers for the shared reference data: Subject, Language,
// Passage, Template, Tag and QuestionTag. A race between two concurrent
// resolves on the same natural key is settled by the unique constraint; the
// losing transaction surfaces the conflict instead of corrupting data.

func resolveSubject(tx *gorm.DB, name string) (*model.Subject, error) {
	subjects := repository.NewSoftStore[model.Subject](tx)
	existing, err := subjects.Filter("name = ?", name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}
	subject := model.Subject{Name: name}
	if err := subjects.Create(&subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func resolveSubjectsBulk(tx *gorm.DB, names []string) ([]model.Subject, error) {
	subjects := repository.NewSoftStore[model.Subject](tx)
	existing, err := subjects.Filter("name IN ?", names)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, s := range existing {
		have[s.Name] = true
	}
	var fresh []model.Subject
	for _, name := range names {
		if !have[name] {
			have[name] = true
			fresh = append(fresh, model.Subject{Name: name})
		}
	}
	created, err := subjects.CreateBulk(fresh)
	if err != nil {
		return nil, err
	}
	return orderByKeys(append(existing, created...), names, func(s model.Subject) string { return s.Name }), nil
}

func resolveLanguage(tx *gorm.DB, name model.LanguageName) (*model.Language, error) {
	languages := repository.NewStore[model.Language](tx)
	existing, err := languages.Filter("name = ?", name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}
	language := model.Language{Name: name}
	if err := languages.Create(&language); err != nil {
		return nil, err
	}
	return &language, nil
}

func resolveLanguagesBulk(tx *gorm.DB, names []model.LanguageName) ([]model.Language, error) {
	languages := repository.NewStore[model.Language](tx)
	existing, err := languages.Filter("name IN ?", names)
	if err != nil {
		return nil, err
	}
	have := make(map[model.LanguageName]bool, len(existing))
	for _, l := range existing {
		have[l.Name] = true
	}
	var fresh []model.Language
	for _, name := range names {
		if !have[name] {
			have[name] = true
			fresh = append(fresh, model.Language{Name: name})
		}
	}
	created, err := languages.CreateBulk(fresh)
	if err != nil {
		return nil, err
	}
	return orderByKeys(append(existing, created...), names, func(l model.Language) model.LanguageName { return l.Name }), nil
}

func resolvePassage(tx *gorm.DB, text string) (*model.Passage, error) {
	text = strings.TrimSpace(text)
	passages := repository.NewSoftStore[model.Passage](tx)
	existing, err := passages.Filter("passage_text = ?", text)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}
	passage := model.Passage{PassageText: text}
	if err := passages.Create(&passage); err != nil {
		return nil, err
	}
	return &passage, nil
}

// resolvePassagesBulk deduplicates on the trimmed passage text. Callers pass
// the distinct texts and re-associate questions through the returned order.
func resolvePassagesBulk(tx *gorm.DB, texts []string) ([]model.Passage, error) {
	trimmed := make([]string, len(texts))
	for i, t := range texts {
		trimmed[i] = strings.TrimSpace(t)
	}
	passages := repository.NewSoftStore[model.Passage](tx)
	existing, err := passages.Filter("passage_text IN ?", trimmed)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.PassageText] = true
	}
	var fresh []model.Passage
	for _, t := range trimmed {
		if !have[t] {
			have[t] = true
			fresh = append(fresh, model.Passage{PassageText: t})
		}
	}
	created, err := passages.CreateBulk(fresh)
	if err != nil {
		return nil, err
	}
	return orderByKeys(append(existing, created...), trimmed, func(p model.Passage) string { return p.PassageText }), nil
}

// resolveTagsBulk looks tags up by tag_name alone; the subject association is
// only used when a tag has to be created. New questions routinely reference
// old tags, so pre-existing names are not an error.
func resolveTagsBulk(tx *gorm.DB, tags []model.Tag) ([]model.Tag, error) {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.TagName
	}
	store := repository.NewStore[model.Tag](tx)
	existing, err := store.Filter("tag_name IN ?", names)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.TagName] = true
	}
	var fresh []model.Tag
	for _, t := range tags {
		if !have[t.TagName] {
			have[t.TagName] = true
			fresh = append(fresh, t)
		}
	}
	created, err := store.CreateBulk(fresh)
	if err != nil {
		return nil, err
	}
	return orderByKeys(append(existing, created...), names, func(t model.Tag) string { return t.TagName }), nil
}

// linkQuestionTags creates the missing (question, tag) links and returns one
// link per requested pair, in the requested order.
func linkQuestionTags(tx *gorm.DB, links []model.QuestionTag) ([]model.QuestionTag, error) {
	questionIDs := make([]any, 0, len(links))
	seen := make(map[string]bool, len(links))
	for _, l := range links {
		if !seen[l.QuestionID.String()] {
			seen[l.QuestionID.String()] = true
			questionIDs = append(questionIDs, l.QuestionID)
		}
	}
	store := repository.NewStore[model.QuestionTag](tx)
	existing, err := store.Filter("question_id IN ?", questionIDs)
	if err != nil {
		return nil, err
	}
	type pair struct{ q, t string }
	havePair := make(map[pair]bool, len(existing))
	for _, l := range existing {
		havePair[pair{l.QuestionID.String(), l.TagID.String()}] = true
	}
	var fresh []model.QuestionTag
	for _, l := range links {
		if !havePair[pair{l.QuestionID.String(), l.TagID.String()}] {
			havePair[pair{l.QuestionID.String(), l.TagID.String()}] = true
			fresh = append(fresh, l)
		}
	}
	created, err := store.CreateBulk(fresh)
	if err != nil {
		return nil, err
	}
	byPair := make(map[pair]model.QuestionTag, len(existing)+len(created))
	for _, l := range append(existing, created...) {
		byPair[pair{l.QuestionID.String(), l.TagID.String()}] = l
	}
	out := make([]model.QuestionTag, len(links))
	for i, l := range links {
		out[i] = byPair[pair{l.QuestionID.String(), l.TagID.String()}]
	}
	return out, nil
}

var instructionCaser = cases.Title(xlanguage.English)

// normalizeInstructions trims and title-cases so that templates with the same
// instructions in different casing dedupe to one row.
func normalizeInstructions(instructions string) string {
	return instructionCaser.String(strings.TrimSpace(instructions))
}

// canonicalSettings serializes the exam pattern into its canonical JSON form.
// The calculator type is forced to null when the calculator is not allowed;
// key order is fixed by field declaration order.
func canonicalSettings(settings dto.ExamPatternSettings) (string, error) {
	if !settings.IsCalculatorAllowed {
		settings.CalculatorType = nil
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// resolveTemplate content-addresses templates: an identical
// (settings, instructions) pair reuses the existing row.
func resolveTemplate(tx *gorm.DB, name string, settings dto.ExamPatternSettings, instructions string) (*model.Template, error) {
	canon, err := canonicalSettings(settings)
	if err != nil {
		return nil, err
	}
	normalized := normalizeInstructions(instructions)
	templates := repository.NewStore[model.Template](tx)
	existing, err := templates.Filter("settings = ? AND instructions = ?", canon, normalized)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		log.Info().Str("template_id", existing[0].ID.String()).Msg("template already exists, reusing")
		return &existing[0], nil
	}
	template := model.Template{Name: name, Settings: canon, Instructions: normalized}
	if err := templates.Create(&template); err != nil {
		return nil, err
	}
	return &template, nil
}
