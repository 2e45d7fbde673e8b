package dto

import (
	"time"

	"pesantren_backend/internals/features/school/classes/model"

	"github.com/google/uuid"
)

// POST /api/a/classes/:id/enrollments
type EnrollRequest struct {
	StudentID      uuid.UUID `json:"student_id" validate:"required"`
	EnrollmentDate string    `json:"enrollment_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string   `json:"notes" validate:"omitempty,max=500"`
}

// POST /api/a/classes/enrollments/transfer
type TransferRequest struct {
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	FromClassID uuid.UUID `json:"from_class_id" validate:"required"`
	ToClassID   uuid.UUID `json:"to_class_id" validate:"required"`
}

// POST /api/u/classes/join
type JoinClassRequest struct {
	ClassID  uuid.UUID `json:"class_id" validate:"required"`
	JoinCode string    `json:"join_code" validate:"required,min=4,max=32"`
}

type EnrollmentResponse struct {
	ID          uuid.UUID              `json:"student_enrollment_id"`
	StudentID   uuid.UUID              `json:"student_id"`
	ClassID     uuid.UUID              `json:"class_id"`
	Date        string                 `json:"enrollment_date"`
	Status      model.EnrollmentStatus `json:"status"`
	Notes       *string                `json:"notes,omitempty"`
	DroppedAt   *time.Time             `json:"dropped_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

func FromEnrollmentModel(m *model.StudentEnrollmentModel) EnrollmentResponse {
	return EnrollmentResponse{
		ID:          m.StudentEnrollmentID,
		StudentID:   m.StudentEnrollmentStudentID,
		ClassID:     m.StudentEnrollmentClassID,
		Date:        m.StudentEnrollmentDate.Format("2006-01-02"),
		Status:      m.StudentEnrollmentStatus,
		Notes:       m.StudentEnrollmentNotes,
		DroppedAt:   m.StudentEnrollmentDroppedAt,
		CompletedAt: m.StudentEnrollmentCompletedAt,
		CreatedAt:   m.StudentEnrollmentCreatedAt,
	}
}

func FromEnrollmentModels(rows []model.StudentEnrollmentModel) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromEnrollmentModel(&rows[i]))
	}
	return out
}

type TransferResponse struct {
	Dropped  EnrollmentResponse `json:"dropped"`
	Enrolled EnrollmentResponse `json:"enrolled"`
}
