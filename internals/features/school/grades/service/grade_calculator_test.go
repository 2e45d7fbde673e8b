package service

import (
	"testing"

	attendanceService "pesantren_backend/internals/features/school/attendances/service"

	"github.com/stretchr/testify/assert"
)

func TestGradeLetter(t *testing.T) {
	tests := []struct {
		score float64
		want  Letter
	}{
		{100, LetterA},
		{85, LetterA},
		{84.99, LetterB},
		{75, LetterB},
		{74.5, LetterC},
		{65, LetterC},
		{64, LetterD},
		{55, LetterD},
		{54.9, LetterE},
		{0, LetterE},
		{-10, LetterE},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeLetter(tt.score), "score=%v", tt.score)
	}
}

func TestPassStatus(t *testing.T) {
	assert.Equal(t, PassStatusPass, PassStatus(75))
	assert.Equal(t, PassStatusNeedsImprovement, PassStatus(74.99))
	assert.Equal(t, PassStatusPass, PassStatus(60, 60))
	assert.Equal(t, PassStatusNeedsImprovement, PassStatus(59, 60))
}

func TestBuildPerformance(t *testing.T) {
	att := attendanceService.AttendanceSummary{Present: 3, Total: 4, Percentage: 75}

	p := BuildPerformance([]float64{80, 90, 70}, att)
	assert.InDelta(t, 80.0, p.AverageGrade, 1e-9)
	assert.Equal(t, 75.0, p.AttendanceRate)
	assert.Equal(t, PassStatusPass, p.PerformanceStatus)
	assert.Equal(t, LetterB, p.GradeLetter)
	assert.Equal(t, 3, p.GradeCount)

	empty := BuildPerformance(nil, attendanceService.AttendanceSummary{})
	assert.Equal(t, 0.0, empty.AverageGrade)
	assert.Equal(t, 0.0, empty.AttendanceRate)
	assert.Equal(t, PassStatusNeedsImprovement, empty.PerformanceStatus)
	assert.Equal(t, LetterE, empty.GradeLetter)
}
