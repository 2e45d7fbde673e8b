package model

import (
	"time"

	"github.com/google/uuid"
)

/* ======================================================
   ENUM: student_enrollment_status
====================================================== */

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

/* ======================================================
   Model: student_enrollments
   Partial unique index (lihat databases.Migrate):
   satu baris 'enrolled' per student.
====================================================== */

type StudentEnrollmentModel struct {
	StudentEnrollmentID uuid.UUID `gorm:"column:student_enrollment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_enrollment_id"`

	StudentEnrollmentStudentID uuid.UUID `gorm:"column:student_enrollment_student_id;type:uuid;not null;index" json:"student_enrollment_student_id"`
	StudentEnrollmentClassID   uuid.UUID `gorm:"column:student_enrollment_class_id;type:uuid;not null;index" json:"student_enrollment_class_id"`

	StudentEnrollmentDate   time.Time        `gorm:"column:student_enrollment_date;type:date;not null" json:"student_enrollment_date"`
	StudentEnrollmentStatus EnrollmentStatus `gorm:"column:student_enrollment_status;type:varchar(16);not null;default:'enrolled'" json:"student_enrollment_status"`
	StudentEnrollmentNotes  *string          `gorm:"column:student_enrollment_notes;type:text" json:"student_enrollment_notes,omitempty"`

	StudentEnrollmentDroppedAt   *time.Time `gorm:"column:student_enrollment_dropped_at;type:timestamptz" json:"student_enrollment_dropped_at,omitempty"`
	StudentEnrollmentCompletedAt *time.Time `gorm:"column:student_enrollment_completed_at;type:timestamptz" json:"student_enrollment_completed_at,omitempty"`

	StudentEnrollmentCreatedAt time.Time `gorm:"column:student_enrollment_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"student_enrollment_created_at"`
	StudentEnrollmentUpdatedAt time.Time `gorm:"column:student_enrollment_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"student_enrollment_updated_at"`
}

func (StudentEnrollmentModel) TableName() string {
	return "student_enrollments"
}

func (m *StudentEnrollmentModel) IsEnrolled() bool {
	return m.StudentEnrollmentStatus == EnrollmentEnrolled
}
