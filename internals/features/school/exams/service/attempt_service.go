package service

import (
	"context"
	"errors"
	"log"
	"time"

	"pesantren_backend/internals/features/school/exams/model"
	studentModel "pesantren_backend/internals/features/school/students/model"
	helper "pesantren_backend/internals/helpers"
	"pesantren_backend/internals/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttemptService menjalankan state machine attempt di dalam transaksi gorm.
// Start mengunci baris siswa; submit/answer/grade mengunci baris attempt.
type AttemptService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{DB: db, Now: time.Now}
}

func lockAttempt(tx *gorm.DB, attemptID uuid.UUID, studentID *uuid.UUID) (*model.ExamAttemptModel, error) {
	var a model.ExamAttemptModel
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("exam_attempt_id = ?", attemptID)
	if studentID != nil {
		q = q.Where("exam_attempt_student_id = ?", *studentID)
	}
	if err := q.First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	if err := tx.Where("exam_student_answer_attempt_id = ?", a.ExamAttemptID).
		Order("exam_student_answer_created_at ASC").
		Find(&a.Answers).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func loadExamWithQuestions(tx *gorm.DB, examID uuid.UUID) (*model.ExamModel, error) {
	var exam model.ExamModel
	if err := tx.Unscoped().Where("exam_id = ?", examID).First(&exam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	qs, err := loadQuestions(tx, examID)
	if err != nil {
		return nil, err
	}
	exam.Questions = qs
	return &exam, nil
}

func saveAttemptState(tx *gorm.DB, a *model.ExamAttemptModel) error {
	return tx.Model(&model.ExamAttemptModel{}).
		Where("exam_attempt_id = ?", a.ExamAttemptID).
		Updates(map[string]any{
			"exam_attempt_status":             a.ExamAttemptStatus,
			"exam_attempt_submitted_at":       a.ExamAttemptSubmittedAt,
			"exam_attempt_time_spent_minutes": a.ExamAttemptTimeSpentMinutes,
			"exam_attempt_score":              a.ExamAttemptScore,
			"exam_attempt_percentage":         a.ExamAttemptPercentage,
		}).Error
}

func saveAnswerGrade(tx *gorm.DB, ans *model.ExamStudentAnswerModel) error {
	return tx.Model(&model.ExamStudentAnswerModel{}).
		Where("exam_student_answer_id = ?", ans.ExamStudentAnswerID).
		Updates(map[string]any{
			"exam_student_answer_points_earned":    ans.ExamStudentAnswerPointsEarned,
			"exam_student_answer_is_correct":       ans.ExamStudentAnswerIsCorrect,
			"exam_student_answer_teacher_feedback": ans.ExamStudentAnswerTeacherFeedback,
			"exam_student_answer_graded_at":        ans.ExamStudentAnswerGradedAt,
		}).Error
}

// expireIfDue: lazy expiry, dipanggil tiap kali attempt disentuh.
func expireIfDue(tx *gorm.DB, a *model.ExamAttemptModel, now time.Time) (bool, error) {
	if !Expire(a, now) {
		return false, nil
	}
	metrics.ObserveExamAttempt("expired")
	return true, tx.Model(&model.ExamAttemptModel{}).
		Where("exam_attempt_id = ?", a.ExamAttemptID).
		Update("exam_attempt_status", a.ExamAttemptStatus).Error
}

func logUnexpected(op string, err error) {
	var ae *AttemptError
	if err == nil || errors.As(err, &ae) {
		return
	}
	for _, known := range []error{
		ErrExamNotFound, ErrQuestionNotFound, ErrAttemptNotFound, ErrAnswerNotFound,
		ErrNotInExamClass, ErrAttemptInProgress, ErrNotEssay, ErrInvalidPoints, ErrStudentNotFound,
		ErrAttemptNotGradable,
	} {
		if errors.Is(err, known) {
			return
		}
	}
	log.Printf("[AttemptService] %s: %v", op, err)
}

/* =========================================================
   START
========================================================= */

func (s *AttemptService) Start(ctx context.Context, examID, studentID uuid.UUID) (a *model.ExamAttemptModel, err error) {
	defer func() {
		if err == nil {
			metrics.ObserveExamAttempt("started")
		} else if errors.Is(err, ErrMaxAttemptsReached) {
			metrics.ObserveExamAttempt("max_attempts_reached")
		} else if errors.Is(err, ErrExamNotActive) {
			metrics.ObserveExamAttempt("not_active")
		}
		logUnexpected("start", err)
	}()

	now := s.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st studentModel.StudentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", studentID).First(&st).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		// FOR SHARE: AddQuestion/DeleteQuestion (FOR UPDATE) menunggu attempt ini commit
		var exam model.ExamModel
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Where("exam_id = ?", examID).First(&exam).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExamNotFound
			}
			return err
		}
		if exam.ExamClassID != nil && (st.StudentClassID == nil || *st.StudentClassID != *exam.ExamClassID) {
			return ErrNotInExamClass
		}

		var prior []model.ExamAttemptModel
		if err := tx.Where("exam_attempt_exam_id = ? AND exam_attempt_student_id = ?", examID, studentID).
			Order("exam_attempt_number ASC").Find(&prior).Error; err != nil {
			return err
		}
		running := false
		for i := range prior {
			if _, err := expireIfDue(tx, &prior[i], now); err != nil {
				return err
			}
			if prior[i].ExamAttemptStatus == model.AttemptInProgress {
				running = true
			}
		}

		next, err := StartAttempt(&exam, studentID, len(prior), now)
		if err != nil {
			return err
		}
		if running {
			return ErrAttemptInProgress
		}
		if err := tx.Create(next).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return attemptErr("start", examID, studentID, ErrMaxAttemptsReached)
			}
			return err
		}
		a = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

/* =========================================================
   ANSWER
========================================================= */

type AnswerInput struct {
	QuestionID      uuid.UUID
	Text            *string
	SelectedOptions []string
}

func (s *AttemptService) SaveAnswer(ctx context.Context, attemptID, studentID uuid.UUID, in AnswerInput) (ans *model.ExamStudentAnswerModel, err error) {
	defer func() { logUnexpected("answer", err) }()

	now := s.Now()
	expired := false
	examID := uuid.Nil
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := lockAttempt(tx, attemptID, &studentID)
		if err != nil {
			return err
		}
		examID = a.ExamAttemptExamID
		if expired, err = expireIfDue(tx, a, now); err != nil || expired {
			return err
		}

		var q model.ExamQuestionModel
		if err := tx.Where("exam_question_id = ? AND exam_question_exam_id = ?", in.QuestionID, a.ExamAttemptExamID).
			First(&q).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}

		ans, err = ApplyAnswer(a, &q, in.Text, in.SelectedOptions, now)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "exam_student_answer_attempt_id"},
				{Name: "exam_student_answer_question_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"exam_student_answer_text",
				"exam_student_answer_selected_options",
				"exam_student_answer_updated_at",
			}),
		}).Create(ans).Error
	})
	if err != nil {
		return nil, err
	}
	if expired {
		// status expired sudah tersimpan; jawaban ditolak
		return nil, attemptErr("answer", examID, studentID, ErrAttemptNotSubmittable)
	}
	return ans, nil
}

/* =========================================================
   SUBMIT
========================================================= */

func (s *AttemptService) Submit(ctx context.Context, attemptID, studentID uuid.UUID) (a *model.ExamAttemptModel, err error) {
	defer func() {
		if err == nil {
			metrics.ObserveExamAttempt(string(a.ExamAttemptStatus))
		}
		logUnexpected("submit", err)
	}()

	now := s.Now()
	expired := false
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if a, err = lockAttempt(tx, attemptID, &studentID); err != nil {
			return err
		}
		if expired, err = expireIfDue(tx, a, now); err != nil || expired {
			return err
		}
		exam, err := loadExamWithQuestions(tx, a.ExamAttemptExamID)
		if err != nil {
			return err
		}
		if err := Submit(a, exam, exam.Questions, now); err != nil {
			return err
		}
		for i := range a.Answers {
			if a.Answers[i].ExamStudentAnswerGradedAt == nil {
				continue
			}
			if err := saveAnswerGrade(tx, &a.Answers[i]); err != nil {
				return err
			}
		}
		return saveAttemptState(tx, a)
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, attemptErr("submit", a.ExamAttemptExamID, studentID, ErrAttemptNotSubmittable)
	}
	return a, nil
}

/* =========================================================
   READ
========================================================= */

// Get: studentID nil untuk akses guru/admin.
func (s *AttemptService) Get(ctx context.Context, attemptID uuid.UUID, studentID *uuid.UUID) (*model.ExamAttemptModel, error) {
	var a *model.ExamAttemptModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if a, err = lockAttempt(tx, attemptID, studentID); err != nil {
			return err
		}
		_, err = expireIfDue(tx, a, s.Now())
		return err
	})
	if err != nil {
		logUnexpected("get", err)
		return nil, err
	}
	return a, nil
}

func (s *AttemptService) ListForStudent(ctx context.Context, examID, studentID uuid.UUID) ([]model.ExamAttemptModel, error) {
	var rows []model.ExamAttemptModel
	now := s.Now()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_attempt_exam_id = ? AND exam_attempt_student_id = ?", examID, studentID).
			Order("exam_attempt_number ASC").Find(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			if _, err := expireIfDue(tx, &rows[i], now); err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

/* =========================================================
   ESSAY GRADING
========================================================= */

type EssayGradeInput struct {
	AttemptID uuid.UUID
	AnswerID  uuid.UUID
	Points    float64
	Feedback  *string
}

func (s *AttemptService) GradeEssay(ctx context.Context, in EssayGradeInput) (a *model.ExamAttemptModel, err error) {
	defer func() {
		if err == nil && a.ExamAttemptStatus == model.AttemptGraded {
			metrics.ObserveExamAttempt("graded")
		}
		logUnexpected("grade", err)
	}()

	now := s.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if a, err = lockAttempt(tx, in.AttemptID, nil); err != nil {
			return err
		}
		exam, err := loadExamWithQuestions(tx, a.ExamAttemptExamID)
		if err != nil {
			return err
		}
		ans, err := GradeEssay(a, exam, exam.Questions, in.AnswerID, in.Points, in.Feedback, now)
		if err != nil {
			return err
		}
		if err := saveAnswerGrade(tx, ans); err != nil {
			return err
		}
		return saveAttemptState(tx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
