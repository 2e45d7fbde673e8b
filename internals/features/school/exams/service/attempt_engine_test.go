package service

import (
	"testing"
	"time"

	"pesantren_backend/internals/features/school/exams/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var examStart = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newExam(allowRetake bool, maxAttempts int) *model.ExamModel {
	return &model.ExamModel{
		ExamID:              uuid.New(),
		ExamTitle:           "UTS Fiqih",
		ExamDurationMinutes: 60,
		ExamStartTime:       examStart,
		ExamEndTime:         examStart.Add(4 * time.Hour),
		ExamIsPublished:     true,
		ExamAllowRetake:     allowRetake,
		ExamMaxAttempts:     maxAttempts,
	}
}

func question(examID uuid.UUID, t model.QuestionType, answer string, points float64) model.ExamQuestionModel {
	q := model.ExamQuestionModel{
		ExamQuestionID:     uuid.New(),
		ExamQuestionExamID: examID,
		ExamQuestionType:   t,
		ExamQuestionPoints: points,
	}
	if answer != "" {
		q.ExamQuestionCorrectAnswer = strPtr(answer)
	}
	return q
}

func answerText(q model.ExamQuestionModel, text string) model.ExamStudentAnswerModel {
	return model.ExamStudentAnswerModel{
		ExamStudentAnswerID:         uuid.New(),
		ExamStudentAnswerQuestionID: q.ExamQuestionID,
		ExamStudentAnswerText:       strPtr(text),
	}
}

func answerOption(q model.ExamQuestionModel, key string) model.ExamStudentAnswerModel {
	return model.ExamStudentAnswerModel{
		ExamStudentAnswerID:              uuid.New(),
		ExamStudentAnswerQuestionID:      q.ExamQuestionID,
		ExamStudentAnswerSelectedOptions: []string{key},
	}
}

func startAttempt(t *testing.T, exam *model.ExamModel) *model.ExamAttemptModel {
	t.Helper()
	a, err := StartAttempt(exam, uuid.New(), 0, examStart.Add(time.Minute))
	require.NoError(t, err)
	return a
}

func TestEffectiveMaxAttempts(t *testing.T) {
	assert.Equal(t, 1, EffectiveMaxAttempts(newExam(false, 5)))
	assert.Equal(t, 3, EffectiveMaxAttempts(newExam(true, 3)))
	assert.Equal(t, 1, EffectiveMaxAttempts(newExam(true, 0)))
}

func TestIsExamActive(t *testing.T) {
	exam := newExam(false, 1)
	assert.False(t, IsExamActive(exam, examStart.Add(-time.Second)))
	assert.True(t, IsExamActive(exam, examStart))
	assert.True(t, IsExamActive(exam, exam.ExamEndTime))
	assert.False(t, IsExamActive(exam, exam.ExamEndTime.Add(time.Second)))

	exam.ExamIsPublished = false
	assert.False(t, IsExamActive(exam, examStart.Add(time.Hour)))
}

func TestStartAttempt(t *testing.T) {
	exam := newExam(true, 2)
	sid := uuid.New()
	now := examStart.Add(10 * time.Minute)

	a, err := StartAttempt(exam, sid, 1, now)
	require.NoError(t, err)
	assert.Equal(t, 2, a.ExamAttemptNumber)
	assert.Equal(t, model.AttemptInProgress, a.ExamAttemptStatus)
	assert.Equal(t, now, a.ExamAttemptStartedAt)
	assert.Equal(t, now.Add(60*time.Minute), a.ExamAttemptExpiresAt)
	assert.Equal(t, sid, a.ExamAttemptStudentID)
	assert.Equal(t, exam.ExamID, a.ExamAttemptExamID)

	_, err = StartAttempt(exam, sid, 2, now)
	assert.ErrorIs(t, err, ErrMaxAttemptsReached)
}

func TestStartAttempt_MaxCheckedBeforeWindow(t *testing.T) {
	exam := newExam(false, 1)
	exam.ExamIsPublished = false

	_, err := StartAttempt(exam, uuid.New(), 1, examStart)
	assert.ErrorIs(t, err, ErrMaxAttemptsReached)

	_, err = StartAttempt(exam, uuid.New(), 0, examStart)
	assert.ErrorIs(t, err, ErrExamNotActive)
}

func TestExpiryAndRemainingTime(t *testing.T) {
	exam := newExam(false, 1)
	a := startAttempt(t, exam)

	assert.Equal(t, 60, RemainingTimeMinutes(a, a.ExamAttemptStartedAt))
	assert.Equal(t, 29, RemainingTimeMinutes(a, a.ExamAttemptStartedAt.Add(30*time.Minute+30*time.Second)))
	assert.False(t, IsExpired(a, a.ExamAttemptExpiresAt))
	assert.True(t, CanSubmit(a, a.ExamAttemptExpiresAt))

	late := a.ExamAttemptExpiresAt.Add(time.Second)
	assert.True(t, IsExpired(a, late))
	assert.False(t, CanSubmit(a, late))
	assert.Equal(t, 0, RemainingTimeMinutes(a, late))

	assert.False(t, Expire(a, a.ExamAttemptStartedAt))
	assert.True(t, Expire(a, late))
	assert.Equal(t, model.AttemptExpired, a.ExamAttemptStatus)
	assert.False(t, Expire(a, late))
}

func TestSubmit_HalfCorrectIsGradedF(t *testing.T) {
	exam := newExam(false, 1)
	q1 := question(exam.ExamID, model.QuestionMultipleChoice, "a", 50)
	q2 := question(exam.ExamID, model.QuestionMultipleChoice, "c", 50)
	questions := []model.ExamQuestionModel{q1, q2}
	exam.ExamTotalQuestions, exam.ExamTotalPoints = Totals(questions)

	a := startAttempt(t, exam)
	a.Answers = []model.ExamStudentAnswerModel{answerOption(q1, "a"), answerOption(q2, "b")}

	now := a.ExamAttemptStartedAt.Add(25*time.Minute + 50*time.Second)
	require.NoError(t, Submit(a, exam, questions, now))

	assert.Equal(t, 50.0, a.ExamAttemptScore)
	assert.Equal(t, 50.0, a.ExamAttemptPercentage)
	assert.Equal(t, model.AttemptGraded, a.ExamAttemptStatus)
	assert.Equal(t, "F", ExamGrade(a.ExamAttemptPercentage))
	require.NotNil(t, a.ExamAttemptSubmittedAt)
	require.NotNil(t, a.ExamAttemptTimeSpentMinutes)
	assert.Equal(t, 25, *a.ExamAttemptTimeSpentMinutes)

	assert.True(t, *a.Answers[0].ExamStudentAnswerIsCorrect)
	assert.Equal(t, 50.0, *a.Answers[0].ExamStudentAnswerPointsEarned)
	assert.False(t, *a.Answers[1].ExamStudentAnswerIsCorrect)
	assert.Equal(t, 0.0, *a.Answers[1].ExamStudentAnswerPointsEarned)
}

func TestSubmit_EssayStaysSubmitted(t *testing.T) {
	exam := newExam(false, 1)
	q1 := question(exam.ExamID, model.QuestionTrueFalse, "true", 40)
	q2 := question(exam.ExamID, model.QuestionEssay, "", 60)
	questions := []model.ExamQuestionModel{q1, q2}
	exam.ExamTotalQuestions, exam.ExamTotalPoints = Totals(questions)

	a := startAttempt(t, exam)
	a.Answers = []model.ExamStudentAnswerModel{answerText(q1, "Benar"), answerText(q2, "Wudhu adalah ...")}

	require.NoError(t, Submit(a, exam, questions, a.ExamAttemptStartedAt.Add(time.Minute)))
	assert.Equal(t, model.AttemptSubmitted, a.ExamAttemptStatus)
	assert.Equal(t, 40.0, a.ExamAttemptScore)
	assert.Equal(t, 40.0, a.ExamAttemptPercentage)
	assert.Nil(t, a.Answers[1].ExamStudentAnswerPointsEarned)
	assert.Nil(t, a.Answers[1].ExamStudentAnswerIsCorrect)
}

func TestSubmit_ZeroTotalPoints(t *testing.T) {
	exam := newExam(false, 1)
	q := question(exam.ExamID, model.QuestionFillBlank, "Jakarta", 0)
	a := startAttempt(t, exam)
	a.Answers = []model.ExamStudentAnswerModel{answerText(q, "Jakarta")}

	require.NoError(t, Submit(a, exam, []model.ExamQuestionModel{q}, a.ExamAttemptStartedAt))
	assert.Equal(t, 0.0, a.ExamAttemptPercentage)
	assert.Equal(t, model.AttemptGraded, a.ExamAttemptStatus)
	assert.False(t, *a.Answers[0].ExamStudentAnswerIsCorrect)
}

func TestSubmit_NotSubmittable(t *testing.T) {
	exam := newExam(false, 1)
	a := startAttempt(t, exam)

	err := Submit(a, exam, nil, a.ExamAttemptExpiresAt.Add(time.Minute))
	assert.ErrorIs(t, err, ErrAttemptNotSubmittable)
	assert.Equal(t, model.AttemptInProgress, a.ExamAttemptStatus)
	assert.Nil(t, a.ExamAttemptSubmittedAt)

	require.NoError(t, Submit(a, exam, nil, a.ExamAttemptStartedAt))
	err = Submit(a, exam, nil, a.ExamAttemptStartedAt)
	assert.ErrorIs(t, err, ErrAttemptNotSubmittable)
}

func TestApplyAnswer(t *testing.T) {
	exam := newExam(false, 1)
	q := question(exam.ExamID, model.QuestionFillBlank, "Makkah", 10)
	a := startAttempt(t, exam)
	now := a.ExamAttemptStartedAt.Add(time.Minute)

	ans, err := ApplyAnswer(a, &q, strPtr("Madinah"), nil, now)
	require.NoError(t, err)
	firstID := ans.ExamStudentAnswerID

	ans, err = ApplyAnswer(a, &q, strPtr("Makkah"), nil, now)
	require.NoError(t, err)
	assert.Equal(t, firstID, ans.ExamStudentAnswerID)
	require.Len(t, a.Answers, 1)
	assert.Equal(t, "Makkah", *a.Answers[0].ExamStudentAnswerText)

	other := question(uuid.New(), model.QuestionFillBlank, "x", 1)
	_, err = ApplyAnswer(a, &other, strPtr("x"), nil, now)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = ApplyAnswer(a, &q, strPtr("x"), nil, a.ExamAttemptExpiresAt.Add(time.Second))
	assert.ErrorIs(t, err, ErrAttemptNotSubmittable)
}

func TestGradeEssay(t *testing.T) {
	exam := newExam(false, 1)
	mc := question(exam.ExamID, model.QuestionMultipleChoice, "a", 50)
	e1 := question(exam.ExamID, model.QuestionEssay, "", 25)
	e2 := question(exam.ExamID, model.QuestionEssay, "", 25)
	questions := []model.ExamQuestionModel{mc, e1, e2}
	exam.ExamTotalQuestions, exam.ExamTotalPoints = Totals(questions)

	a := startAttempt(t, exam)
	a.Answers = []model.ExamStudentAnswerModel{answerOption(mc, "a"), answerText(e1, "..."), answerText(e2, "...")}
	now := a.ExamAttemptStartedAt.Add(time.Minute)

	// belum submit
	_, err := GradeEssay(a, exam, questions, a.Answers[1].ExamStudentAnswerID, 10, nil, now)
	assert.ErrorIs(t, err, ErrAttemptNotGradable)

	require.NoError(t, Submit(a, exam, questions, now))
	require.Equal(t, model.AttemptSubmitted, a.ExamAttemptStatus)

	_, err = GradeEssay(a, exam, questions, a.Answers[0].ExamStudentAnswerID, 10, nil, now)
	assert.ErrorIs(t, err, ErrNotEssay)
	_, err = GradeEssay(a, exam, questions, a.Answers[1].ExamStudentAnswerID, 30, nil, now)
	assert.ErrorIs(t, err, ErrInvalidPoints)
	_, err = GradeEssay(a, exam, questions, uuid.New(), 1, nil, now)
	assert.ErrorIs(t, err, ErrAnswerNotFound)

	ans, err := GradeEssay(a, exam, questions, a.Answers[1].ExamStudentAnswerID, 20, strPtr("Bagus"), now)
	require.NoError(t, err)
	assert.Equal(t, 20.0, *ans.ExamStudentAnswerPointsEarned)
	assert.Equal(t, "Bagus", *ans.ExamStudentAnswerTeacherFeedback)
	assert.Equal(t, model.AttemptSubmitted, a.ExamAttemptStatus)

	_, err = GradeEssay(a, exam, questions, a.Answers[2].ExamStudentAnswerID, 25, nil, now)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptGraded, a.ExamAttemptStatus)
	assert.Equal(t, 95.0, a.ExamAttemptScore)
	assert.Equal(t, 95.0, a.ExamAttemptPercentage)
	assert.Equal(t, "A", ExamGrade(a.ExamAttemptPercentage))

	// koreksi ulang tetap boleh setelah graded
	_, err = GradeEssay(a, exam, questions, a.Answers[2].ExamStudentAnswerID, 0, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 70.0, a.ExamAttemptScore)
	assert.False(t, *a.Answers[2].ExamStudentAnswerIsCorrect)
}

func TestExamGradeBands(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A"}, {90, "A"}, {89.9, "B"}, {80, "B"}, {79, "C"},
		{70, "C"}, {69.99, "D"}, {60, "D"}, {59.9, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExamGrade(tt.pct), "pct=%v", tt.pct)
	}
}
