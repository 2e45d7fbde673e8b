package service

import (
	"context"
	"errors"
	"time"

	"pesantren_backend/internals/features/school/exams/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExamService: authoring ujian & soal. Total poin/soal selalu dihitung ulang dari tabel soal.
type ExamService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewExamService(db *gorm.DB) *ExamService {
	return &ExamService{DB: db, Now: time.Now}
}

func lockExam(tx *gorm.DB, examID uuid.UUID) (*model.ExamModel, error) {
	var e model.ExamModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("exam_id = ?", examID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return &e, nil
}

func loadQuestions(tx *gorm.DB, examID uuid.UUID) ([]model.ExamQuestionModel, error) {
	var qs []model.ExamQuestionModel
	err := tx.Where("exam_question_exam_id = ?", examID).
		Order("exam_question_order ASC, exam_question_created_at ASC").
		Find(&qs).Error
	return qs, err
}

func hasAttempts(tx *gorm.DB, examID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&model.ExamAttemptModel{}).Where("exam_attempt_exam_id = ?", examID).Count(&n).Error
	return n > 0, err
}

func syncTotals(tx *gorm.DB, exam *model.ExamModel) error {
	qs, err := loadQuestions(tx, exam.ExamID)
	if err != nil {
		return err
	}
	exam.ExamTotalQuestions, exam.ExamTotalPoints = Totals(qs)
	exam.Questions = qs
	return tx.Model(exam).Updates(map[string]any{
		"exam_total_questions": exam.ExamTotalQuestions,
		"exam_total_points":    exam.ExamTotalPoints,
	}).Error
}

// CreateExam menyimpan ujian beserta soal awal (opsional).
func (s *ExamService) CreateExam(ctx context.Context, exam *model.ExamModel, questions []model.ExamQuestionModel) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exam.ExamTotalQuestions, exam.ExamTotalPoints = Totals(questions)
		exam.Questions = nil
		if err := tx.Create(exam).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ExamQuestionExamID = exam.ExamID
			if questions[i].ExamQuestionOrder == 0 {
				questions[i].ExamQuestionOrder = i + 1
			}
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		exam.Questions = questions
		return nil
	})
}

// AddQuestion ditolak (ErrExamLocked) jika ujian sudah punya attempt.
func (s *ExamService) AddQuestion(ctx context.Context, examID uuid.UUID, q *model.ExamQuestionModel) (*model.ExamModel, error) {
	var exam *model.ExamModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if exam, err = lockExam(tx, examID); err != nil {
			return err
		}
		locked, err := hasAttempts(tx, examID)
		if err != nil {
			return err
		}
		if locked {
			return ErrExamLocked
		}
		q.ExamQuestionExamID = examID
		if q.ExamQuestionOrder == 0 {
			q.ExamQuestionOrder = exam.ExamTotalQuestions + 1
		}
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		return syncTotals(tx, exam)
	})
	if err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) DeleteQuestion(ctx context.Context, examID, questionID uuid.UUID) (*model.ExamModel, error) {
	var exam *model.ExamModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if exam, err = lockExam(tx, examID); err != nil {
			return err
		}
		locked, err := hasAttempts(tx, examID)
		if err != nil {
			return err
		}
		if locked {
			return ErrExamLocked
		}
		res := tx.Where("exam_question_id = ? AND exam_question_exam_id = ?", questionID, examID).
			Delete(&model.ExamQuestionModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuestionNotFound
		}
		return syncTotals(tx, exam)
	})
	if err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) SetPublished(ctx context.Context, examID uuid.UUID, published bool) (*model.ExamModel, error) {
	var exam *model.ExamModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if exam, err = lockExam(tx, examID); err != nil {
			return err
		}
		exam.ExamIsPublished = published
		return tx.Model(exam).Update("exam_is_published", published).Error
	})
	if err != nil {
		return nil, err
	}
	return exam, nil
}

// Get memuat ujian; withQuestions untuk tampilan guru/pengerjaan.
func (s *ExamService) Get(ctx context.Context, examID uuid.UUID, withQuestions bool) (*model.ExamModel, error) {
	var exam model.ExamModel
	db := s.DB.WithContext(ctx)
	if err := db.Where("exam_id = ?", examID).First(&exam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	if withQuestions {
		qs, err := loadQuestions(db, examID)
		if err != nil {
			return nil, err
		}
		exam.Questions = qs
	}
	return &exam, nil
}
