package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ======================================================
   ENUM: student_status
====================================================== */

type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
)

/* ======================================================
   Model: students
====================================================== */

type StudentModel struct {
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_id"`

	// Identitas
	StudentName        string     `gorm:"column:student_name;type:varchar(120);not null" json:"student_name"`
	StudentCode        *string    `gorm:"column:student_code;type:varchar(50);uniqueIndex:uq_students_code" json:"student_code,omitempty"`
	StudentNIS         *string    `gorm:"column:student_nis;type:varchar(30)" json:"student_nis,omitempty"`
	StudentNISN        *string    `gorm:"column:student_nisn;type:varchar(30)" json:"student_nisn,omitempty"`
	StudentGender      *string    `gorm:"column:student_gender;type:varchar(10)" json:"student_gender,omitempty"`
	StudentBirthPlace  *string    `gorm:"column:student_birth_place;type:varchar(80)" json:"student_birth_place,omitempty"`
	StudentBirthDate   *time.Time `gorm:"column:student_birth_date;type:date" json:"student_birth_date,omitempty"`
	StudentAddress     *string    `gorm:"column:student_address;type:text" json:"student_address,omitempty"`
	StudentParentName  *string    `gorm:"column:student_parent_name;type:varchar(120)" json:"student_parent_name,omitempty"`
	StudentParentPhone *string    `gorm:"column:student_parent_phone;type:varchar(30)" json:"student_parent_phone,omitempty"`

	// Kelas aktif (hanya diubah lewat enrollment)
	StudentClassID   *uuid.UUID `gorm:"column:student_class_id;type:uuid;index" json:"student_class_id,omitempty"`
	StudentClassName *string    `gorm:"column:student_class_name;type:varchar(120)" json:"student_class_name,omitempty"`

	StudentAcademicYear string        `gorm:"column:student_academic_year;type:varchar(20)" json:"student_academic_year"`
	StudentStatus       StudentStatus `gorm:"column:student_status;type:varchar(16);not null;default:'active'" json:"student_status"`

	// ===== Snapshot performa (cache, bukan sumber kebenaran) =====
	StudentAverageGrade         *float64   `gorm:"column:student_average_grade;type:numeric(5,2)" json:"student_average_grade,omitempty"`
	StudentAttendanceRate       *float64   `gorm:"column:student_attendance_rate;type:numeric(5,2)" json:"student_attendance_rate,omitempty"`
	StudentPerformanceStatus    *string    `gorm:"column:student_performance_status;type:varchar(32)" json:"student_performance_status,omitempty"`
	StudentPerformanceUpdatedAt *time.Time `gorm:"column:student_performance_updated_at;type:timestamptz" json:"student_performance_updated_at,omitempty"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string {
	return "students"
}

// IsActive true jika status active.
func (m *StudentModel) IsActive() bool {
	return m.StudentStatus == StudentStatusActive
}
