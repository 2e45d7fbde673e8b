package dto

import (
	"strings"
	"time"

	"pesantren_backend/internals/features/school/classes/model"

	"github.com/google/uuid"
)

/* =========================================================
   CLASS
========================================================= */

type CreateClassRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=120"`
	Grade        string  `json:"grade" validate:"omitempty,max=20"`
	AcademicYear string  `json:"academic_year" validate:"required,max=20"`
	Capacity     int     `json:"capacity" validate:"required,gte=1,lte=1000"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *CreateClassRequest) ToModel() *model.StudentClassModel {
	status := model.ClassStatusActive
	if r.Status != nil {
		status = model.ClassStatus(*r.Status)
	}
	return &model.StudentClassModel{
		StudentClassName:         strings.TrimSpace(r.Name),
		StudentClassGrade:        strings.TrimSpace(r.Grade),
		StudentClassAcademicYear: strings.TrimSpace(r.AcademicYear),
		StudentClassCapacity:     r.Capacity,
		StudentClassStatus:       status,
	}
}

// PATCH: semua opsional. current_students tidak bisa diubah dari sini.
type PatchClassRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=120"`
	Grade        *string `json:"grade" validate:"omitempty,max=20"`
	AcademicYear *string `json:"academic_year" validate:"omitempty,max=20"`
	Capacity     *int    `json:"capacity" validate:"omitempty,gte=1,lte=1000"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// Apply mengembalikan map kolom yang berubah.
func (r *PatchClassRequest) Apply(m *model.StudentClassModel) map[string]any {
	changed := map[string]any{}
	if r.Name != nil {
		m.StudentClassName = strings.TrimSpace(*r.Name)
		changed["student_class_name"] = m.StudentClassName
	}
	if r.Grade != nil {
		m.StudentClassGrade = strings.TrimSpace(*r.Grade)
		changed["student_class_grade"] = m.StudentClassGrade
	}
	if r.AcademicYear != nil {
		m.StudentClassAcademicYear = strings.TrimSpace(*r.AcademicYear)
		changed["student_class_academic_year"] = m.StudentClassAcademicYear
	}
	if r.Capacity != nil {
		m.StudentClassCapacity = *r.Capacity
		changed["student_class_capacity"] = m.StudentClassCapacity
	}
	if r.Status != nil {
		m.StudentClassStatus = model.ClassStatus(*r.Status)
		changed["student_class_status"] = m.StudentClassStatus
	}
	return changed
}

type SetJoinCodeRequest struct {
	Code string `json:"code" validate:"required,min=4,max=32"`
}

type ClassResponse struct {
	ID              uuid.UUID         `json:"student_class_id"`
	Name            string            `json:"name"`
	Grade           string            `json:"grade"`
	AcademicYear    string            `json:"academic_year"`
	Capacity        int               `json:"capacity"`
	CurrentStudents int               `json:"current_students"`
	AvailableSeats  int               `json:"available_seats"`
	Status          model.ClassStatus `json:"status"`
	HasJoinCode     bool              `json:"has_join_code"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func FromClassModel(m *model.StudentClassModel) ClassResponse {
	seats := m.StudentClassCapacity - m.StudentClassCurrentStudents
	if seats < 0 {
		seats = 0
	}
	return ClassResponse{
		ID:              m.StudentClassID,
		Name:            m.StudentClassName,
		Grade:           m.StudentClassGrade,
		AcademicYear:    m.StudentClassAcademicYear,
		Capacity:        m.StudentClassCapacity,
		CurrentStudents: m.StudentClassCurrentStudents,
		AvailableSeats:  seats,
		Status:          m.StudentClassStatus,
		HasJoinCode:     m.HasJoinCode(),
		CreatedAt:       m.StudentClassCreatedAt,
		UpdatedAt:       m.StudentClassUpdatedAt,
	}
}

func FromClassModels(rows []model.StudentClassModel) []ClassResponse {
	out := make([]ClassResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromClassModel(&rows[i]))
	}
	return out
}
