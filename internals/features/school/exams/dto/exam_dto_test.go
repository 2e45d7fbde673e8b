package dto

import (
	"testing"
	"time"

	"pesantren_backend/internals/features/school/exams/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestQuestionRequest_Check(t *testing.T) {
	opts := []model.QuestionOption{{Key: "a", Text: "Makkah"}, {Key: "b", Text: "Madinah"}}

	cases := []struct {
		name string
		req  QuestionRequest
		want map[string][]string
	}{
		{
			name: "pilihan ganda valid",
			req:  QuestionRequest{Type: "multiple_choice", Options: opts, CorrectAnswer: ptr("b")},
			want: map[string][]string{},
		},
		{
			name: "pilihan ganda jawaban bukan key",
			req:  QuestionRequest{Type: "multiple_choice", Options: opts, CorrectAnswer: ptr("c")},
			want: map[string][]string{"q.correct_answer": {"harus salah satu key opsi"}},
		},
		{
			name: "pilihan ganda kurang opsi",
			req:  QuestionRequest{Type: "multiple_choice", Options: opts[:1], CorrectAnswer: ptr("a")},
			want: map[string][]string{"q.options": {"minimal 2 opsi"}},
		},
		{
			name: "isian tanpa jawaban",
			req:  QuestionRequest{Type: "fill_blank", CorrectAnswer: ptr("  ")},
			want: map[string][]string{"q.correct_answer": {"wajib diisi"}},
		},
		{
			name: "essay tanpa jawaban",
			req:  QuestionRequest{Type: "essay"},
			want: map[string][]string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.req.Check("q"))
		})
	}
}

func TestCreateExamRequest_CheckPrefixesQuestions(t *testing.T) {
	req := CreateExamRequest{Questions: []QuestionRequest{
		{Type: "essay"},
		{Type: "true_false"},
	}}
	assert.Equal(t, map[string][]string{"questions[1].correct_answer": {"wajib diisi"}}, req.Check())
}

func TestCreateExamRequest_ToModel(t *testing.T) {
	start := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	req := CreateExamRequest{
		Title:           "  Ujian Fiqih ",
		DurationMinutes: 60,
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		Questions: []QuestionRequest{{
			Type:          "multiple_choice",
			Text:          "Ibu kota?",
			Options:       []model.QuestionOption{{Key: "a", Text: "Jakarta"}, {Key: "b", Text: "Bandung"}},
			CorrectAnswer: ptr(" a "),
			Points:        10,
		}},
	}
	exam, qs, err := req.ToModel(nil)
	require.NoError(t, err)
	assert.Equal(t, "Ujian Fiqih", exam.ExamTitle)
	assert.Equal(t, model.ExamTypeQuiz, exam.ExamType)
	require.Len(t, qs, 1)
	assert.Equal(t, "a", *qs[0].ExamQuestionCorrectAnswer)

	opts, err := qs[0].Options()
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}
