package database

import (
	"fmt"
	"log"

	attendanceModel "pesantren_backend/internals/features/school/attendances/model"
	classModel "pesantren_backend/internals/features/school/classes/model"
	examModel "pesantren_backend/internals/features/school/exams/model"
	gradeModel "pesantren_backend/internals/features/school/grades/model"
	studentModel "pesantren_backend/internals/features/school/students/model"

	"gorm.io/gorm"
)

// Constraint yang tidak bisa diekspresikan lewat tag gorm.
var constraintStatements = []string{
	// satu enrollment 'enrolled' per siswa
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_student_enrollments_one_enrolled
	   ON student_enrollments (student_enrollment_student_id)
	   WHERE student_enrollment_status = 'enrolled'`,

	`DO $$ BEGIN
	   ALTER TABLE student_classes ADD CONSTRAINT ck_student_classes_counter
	     CHECK (student_class_capacity >= 1
	        AND student_class_current_students >= 0
	        AND student_class_current_students <= student_class_capacity);
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
	   ALTER TABLE student_enrollments ADD CONSTRAINT ck_student_enrollments_status
	     CHECK (student_enrollment_status IN ('enrolled','completed','dropped'));
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
	   ALTER TABLE student_attendances ADD CONSTRAINT ck_student_attendances_status
	     CHECK (student_attendance_status IN ('present','absent','late','sick','excused'));
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
	   ALTER TABLE student_grades ADD CONSTRAINT ck_student_grades_score
	     CHECK (student_grade_score BETWEEN 0 AND 100);
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
	   ALTER TABLE exam_attempts ADD CONSTRAINT ck_exam_attempts_status
	     CHECK (exam_attempt_status IN ('in_progress','submitted','expired','graded'));
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
}

// Migrate membuat/menyesuaikan tabel fitur sekolah lalu memasang constraint tambahan.
func Migrate(db *gorm.DB) error {
	models := []any{
		&studentModel.StudentModel{},
		&classModel.StudentClassModel{},
		&classModel.StudentEnrollmentModel{},
		&attendanceModel.StudentAttendanceModel{},
		&gradeModel.StudentGradeModel{},
		&examModel.ExamModel{},
		&examModel.ExamQuestionModel{},
		&examModel.ExamAttemptModel{},
		&examModel.ExamStudentAnswerModel{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for i, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint #%d: %w", i, err)
		}
	}
	log.Printf("[Migrate] %d tabel, %d constraint OK", len(models), len(constraintStatements))
	return nil
}
