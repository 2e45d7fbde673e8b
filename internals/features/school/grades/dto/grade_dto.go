package dto

import (
	"strings"
	"time"

	"pesantren_backend/internals/features/school/grades/model"
	gradeService "pesantren_backend/internals/features/school/grades/service"

	"github.com/google/uuid"
)

type CreateGradeRequest struct {
	StudentID    uuid.UUID `json:"student_id" validate:"required"`
	Subject      string    `json:"subject" validate:"required,min=1,max=120"`
	AcademicYear string    `json:"academic_year" validate:"omitempty,max=20"`
	Term         string    `json:"term" validate:"omitempty,max=20"`
	Score        *float64  `json:"score" validate:"required,gte=0,lte=100"`
	Notes        *string   `json:"notes" validate:"omitempty,max=1000"`
}

func (r *CreateGradeRequest) ToModel() *model.StudentGradeModel {
	return &model.StudentGradeModel{
		StudentGradeStudentID:    r.StudentID,
		StudentGradeSubject:      strings.TrimSpace(r.Subject),
		StudentGradeAcademicYear: strings.TrimSpace(r.AcademicYear),
		StudentGradeTerm:         strings.TrimSpace(r.Term),
		StudentGradeScore:        *r.Score,
		StudentGradeNotes:        r.Notes,
	}
}

type GradeResponse struct {
	ID           uuid.UUID                    `json:"student_grade_id"`
	StudentID    uuid.UUID                    `json:"student_id"`
	Subject      string                       `json:"subject"`
	AcademicYear string                       `json:"academic_year"`
	Term         string                       `json:"term"`
	Score        float64                      `json:"score"`
	Letter       gradeService.Letter          `json:"letter"`
	PassStatus   gradeService.PassStatusValue `json:"pass_status"`
	Notes        *string                      `json:"notes,omitempty"`
	CreatedAt    time.Time                    `json:"created_at"`
}

func FromModel(m *model.StudentGradeModel) GradeResponse {
	return GradeResponse{
		ID:           m.StudentGradeID,
		StudentID:    m.StudentGradeStudentID,
		Subject:      m.StudentGradeSubject,
		AcademicYear: m.StudentGradeAcademicYear,
		Term:         m.StudentGradeTerm,
		Score:        m.StudentGradeScore,
		Letter:       gradeService.GradeLetter(m.StudentGradeScore),
		PassStatus:   gradeService.PassStatus(m.StudentGradeScore),
		Notes:        m.StudentGradeNotes,
		CreatedAt:    m.StudentGradeCreatedAt,
	}
}

func FromModels(rows []model.StudentGradeModel) []GradeResponse {
	out := make([]GradeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// Rekap nilai siswa: daftar + rata-rata.
type StudentGradesResponse struct {
	StudentID uuid.UUID                    `json:"student_id"`
	Items     []GradeResponse              `json:"items"`
	Average   float64                      `json:"average"`
	Letter    gradeService.Letter          `json:"letter"`
	Status    gradeService.PassStatusValue `json:"status"`
}

func BuildStudentGrades(studentID uuid.UUID, rows []model.StudentGradeModel) StudentGradesResponse {
	scores := make([]float64, 0, len(rows))
	for _, r := range rows {
		scores = append(scores, r.StudentGradeScore)
	}
	avg := 0.0
	if len(scores) > 0 {
		for _, s := range scores {
			avg += s
		}
		avg /= float64(len(scores))
	}
	return StudentGradesResponse{
		StudentID: studentID,
		Items:     FromModels(rows),
		Average:   avg,
		Letter:    gradeService.GradeLetter(avg),
		Status:    gradeService.PassStatus(avg),
	}
}
