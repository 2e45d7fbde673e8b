package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptExpired    AttemptStatus = "expired"
	AttemptGraded     AttemptStatus = "graded"
)

/* ======================================================
   Model: exam_attempts
   UNIQUE (exam_id, student_id, attempt_number)
====================================================== */

type ExamAttemptModel struct {
	ExamAttemptID        uuid.UUID `gorm:"column:exam_attempt_id;type:uuid;default:gen_random_uuid();primaryKey" json:"exam_attempt_id"`
	ExamAttemptExamID    uuid.UUID `gorm:"column:exam_attempt_exam_id;type:uuid;not null;uniqueIndex:uq_exam_attempt_number,priority:1" json:"exam_attempt_exam_id"`
	ExamAttemptStudentID uuid.UUID `gorm:"column:exam_attempt_student_id;type:uuid;not null;uniqueIndex:uq_exam_attempt_number,priority:2;index" json:"exam_attempt_student_id"`
	ExamAttemptNumber    int       `gorm:"column:exam_attempt_number;not null;uniqueIndex:uq_exam_attempt_number,priority:3" json:"exam_attempt_number"`

	ExamAttemptStartedAt   time.Time  `gorm:"column:exam_attempt_started_at;type:timestamptz;not null" json:"exam_attempt_started_at"`
	ExamAttemptSubmittedAt *time.Time `gorm:"column:exam_attempt_submitted_at;type:timestamptz" json:"exam_attempt_submitted_at,omitempty"`
	ExamAttemptExpiresAt   time.Time  `gorm:"column:exam_attempt_expires_at;type:timestamptz;not null" json:"exam_attempt_expires_at"`

	ExamAttemptScore            float64       `gorm:"column:exam_attempt_score;type:numeric(8,2);not null;default:0" json:"exam_attempt_score"`
	ExamAttemptPercentage       float64       `gorm:"column:exam_attempt_percentage;type:numeric(6,2);not null;default:0" json:"exam_attempt_percentage"`
	ExamAttemptStatus           AttemptStatus `gorm:"column:exam_attempt_status;type:varchar(16);not null;default:'in_progress'" json:"exam_attempt_status"`
	ExamAttemptTimeSpentMinutes *int          `gorm:"column:exam_attempt_time_spent_minutes" json:"exam_attempt_time_spent_minutes,omitempty"`

	Answers []ExamStudentAnswerModel `gorm:"foreignKey:ExamStudentAnswerAttemptID;references:ExamAttemptID" json:"answers,omitempty"`

	ExamAttemptCreatedAt time.Time `gorm:"column:exam_attempt_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"exam_attempt_created_at"`
	ExamAttemptUpdatedAt time.Time `gorm:"column:exam_attempt_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"exam_attempt_updated_at"`
}

func (ExamAttemptModel) TableName() string {
	return "exam_attempts"
}

/* ======================================================
   Model: exam_student_answers
   UNIQUE (attempt_id, question_id)
====================================================== */

type ExamStudentAnswerModel struct {
	ExamStudentAnswerID         uuid.UUID `gorm:"column:exam_student_answer_id;type:uuid;default:gen_random_uuid();primaryKey" json:"exam_student_answer_id"`
	ExamStudentAnswerAttemptID  uuid.UUID `gorm:"column:exam_student_answer_attempt_id;type:uuid;not null;uniqueIndex:uq_exam_answer_attempt_question,priority:1" json:"exam_student_answer_attempt_id"`
	ExamStudentAnswerQuestionID uuid.UUID `gorm:"column:exam_student_answer_question_id;type:uuid;not null;uniqueIndex:uq_exam_answer_attempt_question,priority:2" json:"exam_student_answer_question_id"`

	ExamStudentAnswerText            *string        `gorm:"column:exam_student_answer_text;type:text" json:"exam_student_answer_text,omitempty"`
	ExamStudentAnswerSelectedOptions pq.StringArray `gorm:"column:exam_student_answer_selected_options;type:text[]" json:"exam_student_answer_selected_options,omitempty"`

	// NULL sampai dinilai (auto-grade / koreksi esai)
	ExamStudentAnswerPointsEarned    *float64   `gorm:"column:exam_student_answer_points_earned;type:numeric(6,2)" json:"exam_student_answer_points_earned,omitempty"`
	ExamStudentAnswerIsCorrect       *bool      `gorm:"column:exam_student_answer_is_correct" json:"exam_student_answer_is_correct,omitempty"`
	ExamStudentAnswerTeacherFeedback *string    `gorm:"column:exam_student_answer_teacher_feedback;type:text" json:"exam_student_answer_teacher_feedback,omitempty"`
	ExamStudentAnswerGradedAt        *time.Time `gorm:"column:exam_student_answer_graded_at;type:timestamptz" json:"exam_student_answer_graded_at,omitempty"`

	ExamStudentAnswerCreatedAt time.Time `gorm:"column:exam_student_answer_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"exam_student_answer_created_at"`
	ExamStudentAnswerUpdatedAt time.Time `gorm:"column:exam_student_answer_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"exam_student_answer_updated_at"`
}

func (ExamStudentAnswerModel) TableName() string {
	return "exam_student_answers"
}

// AnswerValue: answer_text kalau ada, fallback ke pilihan tunggal.
func (m *ExamStudentAnswerModel) AnswerValue() string {
	if m.ExamStudentAnswerText != nil && *m.ExamStudentAnswerText != "" {
		return *m.ExamStudentAnswerText
	}
	if len(m.ExamStudentAnswerSelectedOptions) == 1 {
		return m.ExamStudentAnswerSelectedOptions[0]
	}
	return ""
}
