package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamType string

const (
	ExamTypeQuiz    ExamType = "quiz"
	ExamTypeDaily   ExamType = "daily"
	ExamTypeMidterm ExamType = "midterm"
	ExamTypeFinal   ExamType = "final"
)

/* ======================================================
   Model: exams
====================================================== */

type ExamModel struct {
	ExamID        uuid.UUID  `gorm:"column:exam_id;type:uuid;default:gen_random_uuid();primaryKey" json:"exam_id"`
	ExamClassID   *uuid.UUID `gorm:"column:exam_class_id;type:uuid;index" json:"exam_class_id,omitempty"`
	ExamTeacherID *uuid.UUID `gorm:"column:exam_teacher_id;type:uuid" json:"exam_teacher_id,omitempty"`

	ExamTitle       string   `gorm:"column:exam_title;type:varchar(180);not null" json:"exam_title"`
	ExamDescription *string  `gorm:"column:exam_description;type:text" json:"exam_description,omitempty"`
	ExamType        ExamType `gorm:"column:exam_type;type:varchar(16);not null;default:'quiz'" json:"exam_type"`

	ExamDurationMinutes int     `gorm:"column:exam_duration_minutes;not null" json:"exam_duration_minutes"`
	ExamTotalQuestions  int     `gorm:"column:exam_total_questions;not null;default:0" json:"exam_total_questions"`
	ExamTotalPoints     float64 `gorm:"column:exam_total_points;type:numeric(8,2);not null;default:0" json:"exam_total_points"`

	// Jendela aktif: start <= now <= end && published
	ExamStartTime   time.Time `gorm:"column:exam_start_time;type:timestamptz;not null" json:"exam_start_time"`
	ExamEndTime     time.Time `gorm:"column:exam_end_time;type:timestamptz;not null" json:"exam_end_time"`
	ExamIsPublished bool      `gorm:"column:exam_is_published;not null;default:false" json:"exam_is_published"`

	ExamAllowRetake bool `gorm:"column:exam_allow_retake;not null;default:false" json:"exam_allow_retake"`
	ExamMaxAttempts int  `gorm:"column:exam_max_attempts;not null;default:1" json:"exam_max_attempts"`

	Questions []ExamQuestionModel `gorm:"foreignKey:ExamQuestionExamID;references:ExamID" json:"questions,omitempty"`

	ExamCreatedAt time.Time      `gorm:"column:exam_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"exam_created_at"`
	ExamUpdatedAt time.Time      `gorm:"column:exam_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"exam_updated_at"`
	ExamDeletedAt gorm.DeletedAt `gorm:"column:exam_deleted_at;index" json:"exam_deleted_at,omitempty"`
}

func (ExamModel) TableName() string {
	return "exams"
}

func (m *ExamModel) BeforeCreate(tx *gorm.DB) error { return m.ensureConsistency() }
func (m *ExamModel) BeforeUpdate(tx *gorm.DB) error { return m.ensureConsistency() }

func (m *ExamModel) ensureConsistency() error {
	m.ExamTitle = strings.TrimSpace(m.ExamTitle)
	if m.ExamTitle == "" {
		return errors.New("exam_title wajib diisi")
	}
	if m.ExamDurationMinutes <= 0 {
		return errors.New("exam_duration_minutes harus > 0")
	}
	if m.ExamEndTime.Before(m.ExamStartTime) {
		return errors.New("exam_end_time harus >= exam_start_time")
	}
	if m.ExamMaxAttempts < 1 {
		m.ExamMaxAttempts = 1
	}
	return nil
}
