package dto

import (
	"strings"
	"time"

	"pesantren_backend/internals/features/school/students/model"
	"pesantren_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

type CreateStudentRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=120"`
	Code         *string `json:"code" validate:"omitempty,max=50"`
	NIS          *string `json:"nis" validate:"omitempty,max=30"`
	NISN         *string `json:"nisn" validate:"omitempty,max=30"`
	Gender       *string `json:"gender" validate:"omitempty,oneof=male female"`
	BirthPlace   *string `json:"birth_place" validate:"omitempty,max=80"`
	BirthDate    string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
	ParentName   *string `json:"parent_name" validate:"omitempty,max=120"`
	ParentPhone  *string `json:"parent_phone" validate:"omitempty,max=30"`
	AcademicYear string  `json:"academic_year" validate:"omitempty,max=20"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (r *CreateStudentRequest) ToModel() (*model.StudentModel, error) {
	bd, err := dbtime.ParseDatePtr(r.BirthDate)
	if err != nil {
		return nil, err
	}
	return &model.StudentModel{
		StudentName:         strings.TrimSpace(r.Name),
		StudentCode:         trimPtr(r.Code),
		StudentNIS:          trimPtr(r.NIS),
		StudentNISN:         trimPtr(r.NISN),
		StudentGender:       trimPtr(r.Gender),
		StudentBirthPlace:   trimPtr(r.BirthPlace),
		StudentBirthDate:    bd,
		StudentAddress:      trimPtr(r.Address),
		StudentParentName:   trimPtr(r.ParentName),
		StudentParentPhone:  trimPtr(r.ParentPhone),
		StudentAcademicYear: strings.TrimSpace(r.AcademicYear),
		StudentStatus:       model.StudentStatusActive,
	}, nil
}

// PATCH: kelas aktif tidak bisa diubah dari sini, pakai enrollment.
type PatchStudentRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=120"`
	NIS          *string `json:"nis" validate:"omitempty,max=30"`
	NISN         *string `json:"nisn" validate:"omitempty,max=30"`
	Gender       *string `json:"gender" validate:"omitempty,oneof=male female"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
	ParentName   *string `json:"parent_name" validate:"omitempty,max=120"`
	ParentPhone  *string `json:"parent_phone" validate:"omitempty,max=30"`
	AcademicYear *string `json:"academic_year" validate:"omitempty,max=20"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r *PatchStudentRequest) Apply(m *model.StudentModel) map[string]any {
	changed := map[string]any{}
	if r.Name != nil {
		m.StudentName = strings.TrimSpace(*r.Name)
		changed["student_name"] = m.StudentName
	}
	if r.NIS != nil {
		m.StudentNIS = trimPtr(r.NIS)
		changed["student_nis"] = m.StudentNIS
	}
	if r.NISN != nil {
		m.StudentNISN = trimPtr(r.NISN)
		changed["student_nisn"] = m.StudentNISN
	}
	if r.Gender != nil {
		m.StudentGender = trimPtr(r.Gender)
		changed["student_gender"] = m.StudentGender
	}
	if r.Address != nil {
		m.StudentAddress = trimPtr(r.Address)
		changed["student_address"] = m.StudentAddress
	}
	if r.ParentName != nil {
		m.StudentParentName = trimPtr(r.ParentName)
		changed["student_parent_name"] = m.StudentParentName
	}
	if r.ParentPhone != nil {
		m.StudentParentPhone = trimPtr(r.ParentPhone)
		changed["student_parent_phone"] = m.StudentParentPhone
	}
	if r.AcademicYear != nil {
		m.StudentAcademicYear = strings.TrimSpace(*r.AcademicYear)
		changed["student_academic_year"] = m.StudentAcademicYear
	}
	if r.Status != nil {
		m.StudentStatus = model.StudentStatus(*r.Status)
		changed["student_status"] = m.StudentStatus
	}
	return changed
}

type StudentResponse struct {
	ID                   uuid.UUID           `json:"student_id"`
	Name                 string              `json:"name"`
	Code                 *string             `json:"code,omitempty"`
	NIS                  *string             `json:"nis,omitempty"`
	NISN                 *string             `json:"nisn,omitempty"`
	Gender               *string             `json:"gender,omitempty"`
	BirthDate            *string             `json:"birth_date,omitempty"`
	ParentName           *string             `json:"parent_name,omitempty"`
	ParentPhone          *string             `json:"parent_phone,omitempty"`
	ClassID              *uuid.UUID          `json:"class_id,omitempty"`
	ClassName            *string             `json:"class_name,omitempty"`
	AcademicYear         string              `json:"academic_year"`
	Status               model.StudentStatus `json:"status"`
	AverageGrade         *float64            `json:"average_grade,omitempty"`
	AttendanceRate       *float64            `json:"attendance_rate,omitempty"`
	PerformanceStatus    *string             `json:"performance_status,omitempty"`
	PerformanceUpdatedAt *time.Time          `json:"performance_updated_at,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

func FromModel(m *model.StudentModel) StudentResponse {
	var bd *string
	if m.StudentBirthDate != nil {
		s := m.StudentBirthDate.Format(dbtime.DateLayout)
		bd = &s
	}
	return StudentResponse{
		ID:                   m.StudentID,
		Name:                 m.StudentName,
		Code:                 m.StudentCode,
		NIS:                  m.StudentNIS,
		NISN:                 m.StudentNISN,
		Gender:               m.StudentGender,
		BirthDate:            bd,
		ParentName:           m.StudentParentName,
		ParentPhone:          m.StudentParentPhone,
		ClassID:              m.StudentClassID,
		ClassName:            m.StudentClassName,
		AcademicYear:         m.StudentAcademicYear,
		Status:               m.StudentStatus,
		AverageGrade:         m.StudentAverageGrade,
		AttendanceRate:       m.StudentAttendanceRate,
		PerformanceStatus:    m.StudentPerformanceStatus,
		PerformanceUpdatedAt: m.StudentPerformanceUpdatedAt,
		CreatedAt:            m.StudentCreatedAt,
		UpdatedAt:            m.StudentUpdatedAt,
	}
}

func FromModels(rows []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
