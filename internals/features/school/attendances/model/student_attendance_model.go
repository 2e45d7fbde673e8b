package model

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceSick    AttendanceStatus = "sick"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceSick, AttendanceExcused:
		return true
	}
	return false
}

/* ======================================================
   Model: student_attendances
   UNIQUE (student_id, date): satu catatan per siswa per hari
====================================================== */

type StudentAttendanceModel struct {
	StudentAttendanceID uuid.UUID `gorm:"column:student_attendance_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_attendance_id"`

	StudentAttendanceStudentID uuid.UUID `gorm:"column:student_attendance_student_id;type:uuid;not null;uniqueIndex:uq_student_attendance_student_date,priority:1" json:"student_attendance_student_id"`
	StudentAttendanceClassID   uuid.UUID `gorm:"column:student_attendance_class_id;type:uuid;not null;index" json:"student_attendance_class_id"`
	StudentAttendanceDate      time.Time `gorm:"column:student_attendance_date;type:date;not null;uniqueIndex:uq_student_attendance_student_date,priority:2" json:"student_attendance_date"`

	StudentAttendanceStatus     AttendanceStatus `gorm:"column:student_attendance_status;type:varchar(16);not null" json:"student_attendance_status"`
	StudentAttendanceNotes      *string          `gorm:"column:student_attendance_notes;type:text" json:"student_attendance_notes,omitempty"`
	StudentAttendanceRecordedBy *uuid.UUID       `gorm:"column:student_attendance_recorded_by;type:uuid" json:"student_attendance_recorded_by,omitempty"`

	StudentAttendanceCreatedAt time.Time `gorm:"column:student_attendance_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"student_attendance_created_at"`
	StudentAttendanceUpdatedAt time.Time `gorm:"column:student_attendance_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"student_attendance_updated_at"`
}

func (StudentAttendanceModel) TableName() string {
	return "student_attendances"
}
