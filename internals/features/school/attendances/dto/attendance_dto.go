package dto

import (
	"strings"
	"time"

	"pesantren_backend/internals/features/school/attendances/model"
	attendanceService "pesantren_backend/internals/features/school/attendances/service"

	"github.com/google/uuid"
)

/* =========================================================
   REQUEST
========================================================= */

type AttendanceEntry struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=present absent late sick excused"`
	Notes     *string   `json:"notes" validate:"omitempty,max=500"`
}

// POST /api/a/attendances/classes/:class_id/batch
type RecordBatchRequest struct {
	Date    string            `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,max=200,dive"`
}

func (r *RecordBatchRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	for i := range r.Entries {
		r.Entries[i].Status = strings.ToLower(strings.TrimSpace(r.Entries[i].Status))
		if r.Entries[i].Notes != nil {
			n := strings.TrimSpace(*r.Entries[i].Notes)
			if n == "" {
				r.Entries[i].Notes = nil
			} else {
				r.Entries[i].Notes = &n
			}
		}
	}
}

func (r *RecordBatchRequest) ToServiceEntries() []attendanceService.BatchEntry {
	out := make([]attendanceService.BatchEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, attendanceService.BatchEntry{
			StudentID: e.StudentID,
			Status:    model.AttendanceStatus(e.Status),
			Notes:     e.Notes,
		})
	}
	return out
}

/* =========================================================
   RESPONSE
========================================================= */

type AttendanceResponse struct {
	ID        uuid.UUID              `json:"student_attendance_id"`
	StudentID uuid.UUID              `json:"student_id"`
	ClassID   uuid.UUID              `json:"class_id"`
	Date      string                 `json:"date"`
	Status    model.AttendanceStatus `json:"status"`
	Notes     *string                `json:"notes,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func FromModel(m *model.StudentAttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		ID:        m.StudentAttendanceID,
		StudentID: m.StudentAttendanceStudentID,
		ClassID:   m.StudentAttendanceClassID,
		Date:      m.StudentAttendanceDate.Format("2006-01-02"),
		Status:    m.StudentAttendanceStatus,
		Notes:     m.StudentAttendanceNotes,
		UpdatedAt: m.StudentAttendanceUpdatedAt,
	}
}

func FromModels(rows []model.StudentAttendanceModel) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type SummaryResponse struct {
	From    *string                             `json:"from,omitempty"`
	To      *string                             `json:"to,omitempty"`
	Summary attendanceService.AttendanceSummary `json:"summary"`
}

type StudentMonthlyResponse struct {
	StudentID uuid.UUID                             `json:"student_id"`
	Months    int                                   `json:"months"`
	Items     []attendanceService.MonthlyAttendance `json:"items"`
}
