package service

import (
	"strings"

	"pesantren_backend/internals/features/school/exams/model"
)

// parseBoolAnswer menerima bentuk umum jawaban benar/salah.
func parseBoolAnswer(s string) (val bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "t", "yes", "y", "benar":
		return true, true
	case "false", "0", "f", "no", "n", "salah":
		return false, true
	}
	return false, false
}

// IsCorrectAnswer mengembalikan nil untuk esai (butuh koreksi guru).
// Jawaban kosong selalu salah.
func IsCorrectAnswer(q *model.ExamQuestionModel, a *model.ExamStudentAnswerModel) *bool {
	if q.IsEssay() {
		return nil
	}
	given := a.AnswerValue()
	key := ""
	if q.ExamQuestionCorrectAnswer != nil {
		key = *q.ExamQuestionCorrectAnswer
	}

	var ok bool
	switch q.ExamQuestionType {
	case model.QuestionMultipleChoice:
		ok = given != "" && given == key
	case model.QuestionTrueFalse:
		g, gok := parseBoolAnswer(given)
		k, kok := parseBoolAnswer(key)
		ok = gok && kok && g == k
	case model.QuestionFillBlank:
		g := strings.TrimSpace(given)
		ok = g != "" && strings.EqualFold(g, strings.TrimSpace(key))
	}
	return &ok
}
