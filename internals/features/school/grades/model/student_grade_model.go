package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ======================================================
   Model: student_grades
====================================================== */

type StudentGradeModel struct {
	StudentGradeID        uuid.UUID `gorm:"column:student_grade_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_grade_id"`
	StudentGradeStudentID uuid.UUID `gorm:"column:student_grade_student_id;type:uuid;not null;index" json:"student_grade_student_id"`

	StudentGradeSubject      string  `gorm:"column:student_grade_subject;type:varchar(120);not null" json:"student_grade_subject"`
	StudentGradeAcademicYear string  `gorm:"column:student_grade_academic_year;type:varchar(20)" json:"student_grade_academic_year"`
	StudentGradeTerm         string  `gorm:"column:student_grade_term;type:varchar(20)" json:"student_grade_term"`
	StudentGradeScore        float64 `gorm:"column:student_grade_score;type:numeric(5,2);not null" json:"student_grade_score"`
	StudentGradeNotes        *string `gorm:"column:student_grade_notes;type:text" json:"student_grade_notes,omitempty"`

	StudentGradeCreatedAt time.Time      `gorm:"column:student_grade_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"student_grade_created_at"`
	StudentGradeUpdatedAt time.Time      `gorm:"column:student_grade_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"student_grade_updated_at"`
	StudentGradeDeletedAt gorm.DeletedAt `gorm:"column:student_grade_deleted_at;index" json:"student_grade_deleted_at,omitempty"`
}

func (StudentGradeModel) TableName() string {
	return "student_grades"
}
