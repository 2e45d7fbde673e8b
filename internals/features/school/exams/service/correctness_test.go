package service

import (
	"testing"

	"pesantren_backend/internals/features/school/exams/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCorrectAnswer(t *testing.T) {
	examID := uuid.New()
	tests := []struct {
		name   string
		qType  model.QuestionType
		key    string
		answer model.ExamStudentAnswerModel
		want   bool
	}{
		{"mc exact option", model.QuestionMultipleChoice, "b", model.ExamStudentAnswerModel{ExamStudentAnswerSelectedOptions: []string{"b"}}, true},
		{"mc wrong option", model.QuestionMultipleChoice, "b", model.ExamStudentAnswerModel{ExamStudentAnswerSelectedOptions: []string{"c"}}, false},
		{"mc is case sensitive", model.QuestionMultipleChoice, "b", model.ExamStudentAnswerModel{ExamStudentAnswerText: strPtr("B")}, false},
		{"mc multiple selections", model.QuestionMultipleChoice, "b", model.ExamStudentAnswerModel{ExamStudentAnswerSelectedOptions: []string{"b", "c"}}, false},
		{"mc empty", model.QuestionMultipleChoice, "b", model.ExamStudentAnswerModel{}, false},
		{"tf true vs benar", model.QuestionTrueFalse, "true", model.ExamStudentAnswerModel{ExamStudentAnswerText: strPtr("Benar")}, true},
		{"tf 0 vs false", model.QuestionTrueFalse, "false", model.ExamStudentAnswerModel{ExamStudentAnswerText: strPtr("0")}, true},
		{"tf mismatch", model.QuestionTrueFalse, "true", model.ExamStudentAnswerModel{ExamStudentAnswerText: strPtr("salah")}, false},
		{"tf garbage", model.QuestionTrueFalse, "true", model.ExamStudentAnswerModel{ExamStudentAnswerText: strPtr("mungkin")}, false},
		{"tf empty", model.QuestionTrueFalse, "false", model.ExamStudentAnswerModel{}, false},
		{"fill trimmed case-insensitive", model.QuestionFillBlank, "Jakarta", model.ExamStudentAnswerModel{ExamStudentAnswerText: strPtr(" jakarta ")}, true},
		{"fill wrong", model.QuestionFillBlank, "Jakarta", model.ExamStudentAnswerModel{ExamStudentAnswerText: strPtr("Bandung")}, false},
		{"fill blank answer", model.QuestionFillBlank, "Jakarta", model.ExamStudentAnswerModel{ExamStudentAnswerText: strPtr("   ")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := question(examID, tt.qType, tt.key, 10)
			got := IsCorrectAnswer(&q, &tt.answer)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestIsCorrectAnswer_EssayIsNil(t *testing.T) {
	q := question(uuid.New(), model.QuestionEssay, "", 10)
	assert.Nil(t, IsCorrectAnswer(&q, &model.ExamStudentAnswerModel{ExamStudentAnswerText: strPtr("jawaban")}))
}

func TestFillBlankScenario(t *testing.T) {
	exam := newExam(false, 1)
	q := question(exam.ExamID, model.QuestionFillBlank, "Jakarta", 10)
	questions := []model.ExamQuestionModel{q}
	exam.ExamTotalQuestions, exam.ExamTotalPoints = Totals(questions)

	a := startAttempt(t, exam)
	a.Answers = []model.ExamStudentAnswerModel{answerText(q, " jakarta ")}
	require.NoError(t, Submit(a, exam, questions, a.ExamAttemptStartedAt))

	assert.Equal(t, 10.0, *a.Answers[0].ExamStudentAnswerPointsEarned)
	assert.True(t, *a.Answers[0].ExamStudentAnswerIsCorrect)
	assert.Equal(t, 100.0, a.ExamAttemptPercentage)
}
