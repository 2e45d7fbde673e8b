package service

import (
	attendanceService "pesantren_backend/internals/features/school/attendances/service"
)

// Performance: snapshot yang ditulis ke kolom denormalized students.
type Performance struct {
	AverageGrade      float64         `json:"average_grade"`
	AttendanceRate    float64         `json:"attendance_rate"`
	PerformanceStatus PassStatusValue `json:"performance_status"`
	GradeLetter       Letter          `json:"grade_letter"`
	GradeCount        int             `json:"grade_count"`
}

func BuildPerformance(scores []float64, attendance attendanceService.AttendanceSummary) Performance {
	avg := 0.0
	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		avg = sum / float64(len(scores))
	}
	return Performance{
		AverageGrade:      avg,
		AttendanceRate:    attendance.Percentage,
		PerformanceStatus: PassStatus(avg),
		GradeLetter:       GradeLetter(avg),
		GradeCount:        len(scores),
	}
}
