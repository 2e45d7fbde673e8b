package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ======================================================
   ENUM: student_class_status
====================================================== */

type ClassStatus string

const (
	ClassStatusActive   ClassStatus = "active"
	ClassStatusInactive ClassStatus = "inactive"
)

/* ======================================================
   Model: student_classes
====================================================== */

type StudentClassModel struct {
	StudentClassID uuid.UUID `gorm:"column:student_class_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_class_id"`

	StudentClassName         string `gorm:"column:student_class_name;type:varchar(120);not null" json:"student_class_name"`
	StudentClassGrade        string `gorm:"column:student_class_grade;type:varchar(20)" json:"student_class_grade"`
	StudentClassAcademicYear string `gorm:"column:student_class_academic_year;type:varchar(20);index" json:"student_class_academic_year"`

	// Kapasitas & counter (denormalized; hanya EnrollmentManager yang boleh ubah counter)
	StudentClassCapacity        int `gorm:"column:student_class_capacity;not null;default:1" json:"student_class_capacity"`
	StudentClassCurrentStudents int `gorm:"column:student_class_current_students;not null;default:0" json:"student_class_current_students"`

	StudentClassStatus ClassStatus `gorm:"column:student_class_status;type:varchar(16);not null;default:'active'" json:"student_class_status"`

	// Kode gabung (bcrypt hash), NULL = self-join dimatikan
	StudentClassJoinCodeHash  []byte     `gorm:"column:student_class_join_code_hash;type:bytea" json:"-"`
	StudentClassJoinCodeSetAt *time.Time `gorm:"column:student_class_join_code_set_at;type:timestamptz" json:"student_class_join_code_set_at,omitempty"`

	StudentClassCreatedAt time.Time      `gorm:"column:student_class_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"student_class_created_at"`
	StudentClassUpdatedAt time.Time      `gorm:"column:student_class_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"student_class_updated_at"`
	StudentClassDeletedAt gorm.DeletedAt `gorm:"column:student_class_deleted_at;index" json:"student_class_deleted_at,omitempty"`
}

func (StudentClassModel) TableName() string {
	return "student_classes"
}

/* ======================================================
   Hooks (mirror CHECK constraint di DB)
====================================================== */

func (m *StudentClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentClassStatus == "" {
		m.StudentClassStatus = ClassStatusActive
	}
	return m.ensureConsistency()
}

func (m *StudentClassModel) BeforeUpdate(tx *gorm.DB) error {
	return m.ensureConsistency()
}

func (m *StudentClassModel) ensureConsistency() error {
	m.StudentClassName = strings.TrimSpace(m.StudentClassName)
	if m.StudentClassCapacity < 1 {
		return errors.New("student_class_capacity minimal 1")
	}
	if m.StudentClassCurrentStudents < 0 || m.StudentClassCurrentStudents > m.StudentClassCapacity {
		return errors.New("student_class_current_students harus di antara 0 dan capacity")
	}
	switch m.StudentClassStatus {
	case ClassStatusActive, ClassStatusInactive, "":
	default:
		return errors.New("student_class_status tidak valid")
	}
	return nil
}

func (m *StudentClassModel) HasJoinCode() bool {
	return len(m.StudentClassJoinCodeHash) > 0
}
