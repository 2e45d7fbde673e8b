package service

import (
	"time"

	"pesantren_backend/internals/features/school/exams/model"

	"github.com/google/uuid"
)

/* =========================================================
   State machine attempt:
   in_progress → {submitted, expired} → graded
   expired & graded terminal. Tidak ada I/O di file ini.
========================================================= */

// EffectiveMaxAttempts: tanpa retake hanya 1 percobaan.
func EffectiveMaxAttempts(exam *model.ExamModel) int {
	if !exam.ExamAllowRetake {
		return 1
	}
	if exam.ExamMaxAttempts < 1 {
		return 1
	}
	return exam.ExamMaxAttempts
}

// IsExamActive: published && start <= now <= end.
func IsExamActive(exam *model.ExamModel, now time.Time) bool {
	if !exam.ExamIsPublished {
		return false
	}
	return !now.Before(exam.ExamStartTime) && !now.After(exam.ExamEndTime)
}

// StartAttempt membuat attempt baru. Cek max attempt lebih dulu, lalu jendela aktif.
func StartAttempt(exam *model.ExamModel, studentID uuid.UUID, priorAttempts int, now time.Time) (*model.ExamAttemptModel, error) {
	if priorAttempts >= EffectiveMaxAttempts(exam) {
		return nil, attemptErr("start", exam.ExamID, studentID, ErrMaxAttemptsReached)
	}
	if !IsExamActive(exam, now) {
		return nil, attemptErr("start", exam.ExamID, studentID, ErrExamNotActive)
	}
	return &model.ExamAttemptModel{
		ExamAttemptID:        uuid.New(),
		ExamAttemptExamID:    exam.ExamID,
		ExamAttemptStudentID: studentID,
		ExamAttemptNumber:    priorAttempts + 1,
		ExamAttemptStartedAt: now,
		ExamAttemptExpiresAt: now.Add(time.Duration(exam.ExamDurationMinutes) * time.Minute),
		ExamAttemptStatus:    model.AttemptInProgress,
	}, nil
}

func IsExpired(a *model.ExamAttemptModel, now time.Time) bool {
	return now.After(a.ExamAttemptExpiresAt)
}

func CanSubmit(a *model.ExamAttemptModel, now time.Time) bool {
	return a.ExamAttemptStatus == model.AttemptInProgress && !IsExpired(a, now)
}

// Expire menandai attempt in_progress yang lewat waktu. true jika status berubah.
func Expire(a *model.ExamAttemptModel, now time.Time) bool {
	if a.ExamAttemptStatus != model.AttemptInProgress || !IsExpired(a, now) {
		return false
	}
	a.ExamAttemptStatus = model.AttemptExpired
	return true
}

// RemainingTimeMinutes: 0 setelah lewat expires_at.
func RemainingTimeMinutes(a *model.ExamAttemptModel, now time.Time) int {
	if !now.Before(a.ExamAttemptExpiresAt) {
		return 0
	}
	return int(a.ExamAttemptExpiresAt.Sub(now) / time.Minute)
}

// ExamGrade: band persentase ujian (beda dengan GradeLetter nilai rapor).
func ExamGrade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

func indexQuestions(questions []model.ExamQuestionModel) map[uuid.UUID]*model.ExamQuestionModel {
	idx := make(map[uuid.UUID]*model.ExamQuestionModel, len(questions))
	for i := range questions {
		idx[questions[i].ExamQuestionID] = &questions[i]
	}
	return idx
}

func percentageOf(score, totalPoints float64) float64 {
	if totalPoints <= 0 {
		return 0
	}
	return score / totalPoints * 100
}

// Submit: error jika attempt tidak bisa disubmit; selain itu langsung AutoGrade.
func Submit(a *model.ExamAttemptModel, exam *model.ExamModel, questions []model.ExamQuestionModel, now time.Time) error {
	if !CanSubmit(a, now) {
		return attemptErr("submit", a.ExamAttemptExamID, a.ExamAttemptStudentID, ErrAttemptNotSubmittable)
	}
	submitted := now
	spent := int(submitted.Sub(a.ExamAttemptStartedAt) / time.Minute)
	if spent < 0 {
		spent = 0
	}
	a.ExamAttemptSubmittedAt = &submitted
	a.ExamAttemptTimeSpentMinutes = &spent
	a.ExamAttemptStatus = model.AttemptSubmitted

	AutoGrade(a, exam, questions, now)
	return nil
}

// AutoGrade menilai jawaban non-esai. Ada esai → tetap submitted.
// Jawaban untuk soal yang tidak dikenal dilewati.
func AutoGrade(a *model.ExamAttemptModel, exam *model.ExamModel, questions []model.ExamQuestionModel, now time.Time) {
	idx := indexQuestions(questions)
	var score float64
	hasEssay := false

	for i := range a.Answers {
		ans := &a.Answers[i]
		q, ok := idx[ans.ExamStudentAnswerQuestionID]
		if !ok {
			continue
		}
		if q.IsEssay() {
			hasEssay = true
			continue
		}
		points := 0.0
		if c := IsCorrectAnswer(q, ans); c != nil && *c {
			points = q.ExamQuestionPoints
		}
		correct := points > 0
		gradedAt := now
		ans.ExamStudentAnswerPointsEarned = &points
		ans.ExamStudentAnswerIsCorrect = &correct
		ans.ExamStudentAnswerGradedAt = &gradedAt
		score += points
	}

	a.ExamAttemptScore = score
	a.ExamAttemptPercentage = percentageOf(score, exam.ExamTotalPoints)
	if !hasEssay {
		a.ExamAttemptStatus = model.AttemptGraded
	}
}

// ApplyAnswer mengisi/menimpa jawaban untuk satu soal pada attempt yang masih berjalan.
func ApplyAnswer(a *model.ExamAttemptModel, q *model.ExamQuestionModel, text *string, selected []string, now time.Time) (*model.ExamStudentAnswerModel, error) {
	if !CanSubmit(a, now) {
		return nil, attemptErr("answer", a.ExamAttemptExamID, a.ExamAttemptStudentID, ErrAttemptNotSubmittable)
	}
	if q.ExamQuestionExamID != a.ExamAttemptExamID {
		return nil, attemptErr("answer", a.ExamAttemptExamID, a.ExamAttemptStudentID, ErrQuestionNotFound)
	}
	for i := range a.Answers {
		if a.Answers[i].ExamStudentAnswerQuestionID == q.ExamQuestionID {
			a.Answers[i].ExamStudentAnswerText = text
			a.Answers[i].ExamStudentAnswerSelectedOptions = selected
			return &a.Answers[i], nil
		}
	}
	a.Answers = append(a.Answers, model.ExamStudentAnswerModel{
		ExamStudentAnswerID:              uuid.New(),
		ExamStudentAnswerAttemptID:       a.ExamAttemptID,
		ExamStudentAnswerQuestionID:      q.ExamQuestionID,
		ExamStudentAnswerText:            text,
		ExamStudentAnswerSelectedOptions: selected,
	})
	return &a.Answers[len(a.Answers)-1], nil
}

// GradeEssay memberi nilai manual satu jawaban esai. Kalau semua esai sudah
// dinilai, skor & persentase dihitung ulang dari seluruh jawaban dan status → graded.
func GradeEssay(a *model.ExamAttemptModel, exam *model.ExamModel, questions []model.ExamQuestionModel, answerID uuid.UUID, points float64, feedback *string, now time.Time) (*model.ExamStudentAnswerModel, error) {
	if a.ExamAttemptStatus != model.AttemptSubmitted && a.ExamAttemptStatus != model.AttemptGraded {
		return nil, attemptErr("grade", a.ExamAttemptExamID, a.ExamAttemptStudentID, ErrAttemptNotGradable)
	}
	idx := indexQuestions(questions)

	var target *model.ExamStudentAnswerModel
	for i := range a.Answers {
		if a.Answers[i].ExamStudentAnswerID == answerID {
			target = &a.Answers[i]
			break
		}
	}
	if target == nil {
		return nil, ErrAnswerNotFound
	}
	q, ok := idx[target.ExamStudentAnswerQuestionID]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	if !q.IsEssay() {
		return nil, ErrNotEssay
	}
	if points < 0 || points > q.ExamQuestionPoints {
		return nil, ErrInvalidPoints
	}

	correct := points > 0
	gradedAt := now
	target.ExamStudentAnswerPointsEarned = &points
	target.ExamStudentAnswerIsCorrect = &correct
	target.ExamStudentAnswerTeacherFeedback = feedback
	target.ExamStudentAnswerGradedAt = &gradedAt

	var score float64
	pending := false
	for i := range a.Answers {
		ans := &a.Answers[i]
		if _, known := idx[ans.ExamStudentAnswerQuestionID]; !known {
			continue
		}
		if ans.ExamStudentAnswerPointsEarned == nil {
			pending = true
			continue
		}
		score += *ans.ExamStudentAnswerPointsEarned
	}
	if !pending {
		a.ExamAttemptScore = score
		a.ExamAttemptPercentage = percentageOf(score, exam.ExamTotalPoints)
		a.ExamAttemptStatus = model.AttemptGraded
	}
	return target, nil
}

// Totals: jumlah soal & total poin dari daftar soal.
func Totals(questions []model.ExamQuestionModel) (count int, points float64) {
	for i := range questions {
		points += questions[i].ExamQuestionPoints
	}
	return len(questions), points
}
