package service

import (
	"context"
	"log"
	"time"

	attendanceModel "pesantren_backend/internals/features/school/attendances/model"
	attendanceService "pesantren_backend/internals/features/school/attendances/service"
	"pesantren_backend/internals/features/school/grades/model"
	studentModel "pesantren_backend/internals/features/school/students/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GradeService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewGradeService(db *gorm.DB) *GradeService {
	return &GradeService{DB: db, Now: time.Now}
}

// RecomputeStudentPerformance menghitung ulang snapshot performa lalu menulis
// tiga kolom denormalized di students (satu transaksi, baris siswa dikunci).
func (s *GradeService) RecomputeStudentPerformance(ctx context.Context, studentID uuid.UUID) (*Performance, error) {
	var perf Performance
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st studentModel.StudentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", studentID).
			First(&st).Error; err != nil {
			return err
		}

		var scores []float64
		if err := tx.Model(&model.StudentGradeModel{}).
			Where("student_grade_student_id = ?", studentID).
			Pluck("student_grade_score", &scores).Error; err != nil {
			return err
		}

		var att []attendanceModel.StudentAttendanceModel
		if err := tx.Where("student_attendance_student_id = ?", studentID).
			Find(&att).Error; err != nil {
			return err
		}

		perf = BuildPerformance(scores, attendanceService.Summarize(att, nil))
		now := s.Now()
		status := string(perf.PerformanceStatus)
		return tx.Model(&studentModel.StudentModel{}).
			Where("student_id = ?", studentID).
			Updates(map[string]any{
				"student_average_grade":          perf.AverageGrade,
				"student_attendance_rate":        perf.AttendanceRate,
				"student_performance_status":     status,
				"student_performance_updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[GradeService] performance student=%s avg=%.2f att=%.2f status=%s",
		studentID, perf.AverageGrade, perf.AttendanceRate, perf.PerformanceStatus)
	return &perf, nil
}

func (s *GradeService) ListByStudent(ctx context.Context, studentID uuid.UUID, academicYear, term string) ([]model.StudentGradeModel, error) {
	q := s.DB.WithContext(ctx).Where("student_grade_student_id = ?", studentID)
	if academicYear != "" {
		q = q.Where("student_grade_academic_year = ?", academicYear)
	}
	if term != "" {
		q = q.Where("student_grade_term = ?", term)
	}
	var rows []model.StudentGradeModel
	if err := q.Order("student_grade_academic_year DESC, student_grade_term, student_grade_subject").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
