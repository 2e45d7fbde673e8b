package dto

import (
	"fmt"
	"strings"
	"time"

	"pesantren_backend/internals/features/school/exams/model"

	"github.com/google/uuid"
)

/* =========================================================
   REQUEST
========================================================= */

type QuestionRequest struct {
	Type          string                 `json:"type" validate:"required,oneof=multiple_choice true_false fill_blank essay"`
	Text          string                 `json:"text" validate:"required"`
	Options       []model.QuestionOption `json:"options" validate:"omitempty,dive"`
	CorrectAnswer *string                `json:"correct_answer"`
	Explanation   *string                `json:"explanation"`
	Points        float64                `json:"points" validate:"gte=0,lte=1000"`
	Order         int                    `json:"order" validate:"gte=0"`
}

// Check aturan per tipe soal; kembalikan map error per field.
func (r *QuestionRequest) Check(prefix string) map[string][]string {
	errs := map[string][]string{}
	key := func(f string) string {
		if prefix == "" {
			return f
		}
		return prefix + "." + f
	}
	qt := model.QuestionType(r.Type)
	hasAnswer := r.CorrectAnswer != nil && strings.TrimSpace(*r.CorrectAnswer) != ""

	switch qt {
	case model.QuestionMultipleChoice:
		if len(r.Options) < 2 {
			errs[key("options")] = append(errs[key("options")], "minimal 2 opsi")
		}
		if !hasAnswer {
			errs[key("correct_answer")] = append(errs[key("correct_answer")], "wajib diisi")
		} else {
			found := false
			for _, o := range r.Options {
				if o.Key == *r.CorrectAnswer {
					found = true
					break
				}
			}
			if !found {
				errs[key("correct_answer")] = append(errs[key("correct_answer")], "harus salah satu key opsi")
			}
		}
	case model.QuestionTrueFalse, model.QuestionFillBlank:
		if !hasAnswer {
			errs[key("correct_answer")] = append(errs[key("correct_answer")], "wajib diisi")
		}
	}
	return errs
}

func (r *QuestionRequest) ToModel() (*model.ExamQuestionModel, error) {
	opts, err := model.EncodeOptions(r.Options)
	if err != nil {
		return nil, err
	}
	var answer *string
	if r.CorrectAnswer != nil {
		v := strings.TrimSpace(*r.CorrectAnswer)
		answer = &v
	}
	return &model.ExamQuestionModel{
		ExamQuestionType:          model.QuestionType(r.Type),
		ExamQuestionText:          strings.TrimSpace(r.Text),
		ExamQuestionOptions:       opts,
		ExamQuestionCorrectAnswer: answer,
		ExamQuestionExplanation:   r.Explanation,
		ExamQuestionPoints:        r.Points,
		ExamQuestionOrder:         r.Order,
	}, nil
}

type CreateExamRequest struct {
	ClassID         *uuid.UUID        `json:"class_id"`
	Title           string            `json:"title" validate:"required,min=1,max=180"`
	Description     *string           `json:"description"`
	Type            string            `json:"type" validate:"omitempty,oneof=quiz daily midterm final"`
	DurationMinutes int               `json:"duration_minutes" validate:"required,gte=1,lte=1440"`
	StartTime       time.Time         `json:"start_time" validate:"required"`
	EndTime         time.Time         `json:"end_time" validate:"required,gtefield=StartTime"`
	IsPublished     bool              `json:"is_published"`
	AllowRetake     bool              `json:"allow_retake"`
	MaxAttempts     int               `json:"max_attempts" validate:"omitempty,gte=1,lte=20"`
	Questions       []QuestionRequest `json:"questions" validate:"omitempty,dive"`
}

func (r *CreateExamRequest) Check() map[string][]string {
	errs := map[string][]string{}
	for i := range r.Questions {
		for k, v := range r.Questions[i].Check(fmt.Sprintf("questions[%d]", i)) {
			errs[k] = append(errs[k], v...)
		}
	}
	return errs
}

func (r *CreateExamRequest) ToModel(teacherID *uuid.UUID) (*model.ExamModel, []model.ExamQuestionModel, error) {
	t := model.ExamTypeQuiz
	if r.Type != "" {
		t = model.ExamType(r.Type)
	}
	exam := &model.ExamModel{
		ExamClassID:         r.ClassID,
		ExamTeacherID:       teacherID,
		ExamTitle:           strings.TrimSpace(r.Title),
		ExamDescription:     r.Description,
		ExamType:            t,
		ExamDurationMinutes: r.DurationMinutes,
		ExamStartTime:       r.StartTime,
		ExamEndTime:         r.EndTime,
		ExamIsPublished:     r.IsPublished,
		ExamAllowRetake:     r.AllowRetake,
		ExamMaxAttempts:     r.MaxAttempts,
	}
	qs := make([]model.ExamQuestionModel, 0, len(r.Questions))
	for i := range r.Questions {
		q, err := r.Questions[i].ToModel()
		if err != nil {
			return nil, nil, err
		}
		qs = append(qs, *q)
	}
	return exam, qs, nil
}

type PublishRequest struct {
	Published *bool `json:"published" validate:"required"`
}

type SaveAnswerRequest struct {
	QuestionID      uuid.UUID `json:"question_id" validate:"required"`
	AnswerText      *string   `json:"answer_text" validate:"omitempty,max=10000"`
	SelectedOptions []string  `json:"selected_options" validate:"omitempty,max=20,dive,max=50"`
}

type GradeEssayRequest struct {
	Points   *float64 `json:"points" validate:"required,gte=0"`
	Feedback *string  `json:"feedback" validate:"omitempty,max=2000"`
}

/* =========================================================
   RESPONSE
========================================================= */

// Soal untuk siswa: tanpa kunci jawaban.
type QuestionResponse struct {
	ID          uuid.UUID              `json:"exam_question_id"`
	Type        model.QuestionType     `json:"type"`
	Text        string                 `json:"text"`
	Options     []model.QuestionOption `json:"options,omitempty"`
	Points      float64                `json:"points"`
	Order       int                    `json:"order"`
	Explanation *string                `json:"explanation,omitempty"`
}

func FromQuestionModel(q *model.ExamQuestionModel, withExplanation bool) QuestionResponse {
	opts, _ := q.Options()
	out := QuestionResponse{
		ID:      q.ExamQuestionID,
		Type:    q.ExamQuestionType,
		Text:    q.ExamQuestionText,
		Options: opts,
		Points:  q.ExamQuestionPoints,
		Order:   q.ExamQuestionOrder,
	}
	if withExplanation {
		out.Explanation = q.ExamQuestionExplanation
	}
	return out
}

type ExamResponse struct {
	ID              uuid.UUID          `json:"exam_id"`
	ClassID         *uuid.UUID         `json:"class_id,omitempty"`
	Title           string             `json:"title"`
	Description     *string            `json:"description,omitempty"`
	Type            model.ExamType     `json:"type"`
	DurationMinutes int                `json:"duration_minutes"`
	TotalQuestions  int                `json:"total_questions"`
	TotalPoints     float64            `json:"total_points"`
	StartTime       time.Time          `json:"start_time"`
	EndTime         time.Time          `json:"end_time"`
	IsPublished     bool               `json:"is_published"`
	AllowRetake     bool               `json:"allow_retake"`
	MaxAttempts     int                `json:"max_attempts"`
	IsActive        bool               `json:"is_active"`
	Questions       []QuestionResponse `json:"questions,omitempty"`
}

func FromExamModel(m *model.ExamModel, isActive bool, withExplanation bool) ExamResponse {
	out := ExamResponse{
		ID:              m.ExamID,
		ClassID:         m.ExamClassID,
		Title:           m.ExamTitle,
		Description:     m.ExamDescription,
		Type:            m.ExamType,
		DurationMinutes: m.ExamDurationMinutes,
		TotalQuestions:  m.ExamTotalQuestions,
		TotalPoints:     m.ExamTotalPoints,
		StartTime:       m.ExamStartTime,
		EndTime:         m.ExamEndTime,
		IsPublished:     m.ExamIsPublished,
		AllowRetake:     m.ExamAllowRetake,
		MaxAttempts:     m.ExamMaxAttempts,
		IsActive:        isActive,
	}
	for i := range m.Questions {
		out.Questions = append(out.Questions, FromQuestionModel(&m.Questions[i], withExplanation))
	}
	return out
}

type AnswerResponse struct {
	ID              uuid.UUID  `json:"exam_student_answer_id"`
	QuestionID      uuid.UUID  `json:"question_id"`
	AnswerText      *string    `json:"answer_text,omitempty"`
	SelectedOptions []string   `json:"selected_options,omitempty"`
	PointsEarned    *float64   `json:"points_earned,omitempty"`
	IsCorrect       *bool      `json:"is_correct,omitempty"`
	TeacherFeedback *string    `json:"teacher_feedback,omitempty"`
	GradedAt        *time.Time `json:"graded_at,omitempty"`
}

func FromAnswerModel(a *model.ExamStudentAnswerModel) AnswerResponse {
	return AnswerResponse{
		ID:              a.ExamStudentAnswerID,
		QuestionID:      a.ExamStudentAnswerQuestionID,
		AnswerText:      a.ExamStudentAnswerText,
		SelectedOptions: a.ExamStudentAnswerSelectedOptions,
		PointsEarned:    a.ExamStudentAnswerPointsEarned,
		IsCorrect:       a.ExamStudentAnswerIsCorrect,
		TeacherFeedback: a.ExamStudentAnswerTeacherFeedback,
		GradedAt:        a.ExamStudentAnswerGradedAt,
	}
}

type AttemptResponse struct {
	ID               uuid.UUID           `json:"exam_attempt_id"`
	ExamID           uuid.UUID           `json:"exam_id"`
	StudentID        uuid.UUID           `json:"student_id"`
	AttemptNumber    int                 `json:"attempt_number"`
	Status           model.AttemptStatus `json:"status"`
	StartedAt        time.Time           `json:"started_at"`
	ExpiresAt        time.Time           `json:"expires_at"`
	SubmittedAt      *time.Time          `json:"submitted_at,omitempty"`
	TimeSpentMinutes *int                `json:"time_spent_minutes,omitempty"`
	RemainingMinutes int                 `json:"remaining_minutes"`
	Score            float64             `json:"score"`
	Percentage       float64             `json:"percentage"`
	Grade            *string             `json:"grade,omitempty"`
	Answers          []AnswerResponse    `json:"answers,omitempty"`
}

// FromAttemptModel: remaining & grade dihitung oleh pemanggil (butuh clock).
func FromAttemptModel(a *model.ExamAttemptModel, remaining int, grade *string) AttemptResponse {
	out := AttemptResponse{
		ID:               a.ExamAttemptID,
		ExamID:           a.ExamAttemptExamID,
		StudentID:        a.ExamAttemptStudentID,
		AttemptNumber:    a.ExamAttemptNumber,
		Status:           a.ExamAttemptStatus,
		StartedAt:        a.ExamAttemptStartedAt,
		ExpiresAt:        a.ExamAttemptExpiresAt,
		SubmittedAt:      a.ExamAttemptSubmittedAt,
		TimeSpentMinutes: a.ExamAttemptTimeSpentMinutes,
		RemainingMinutes: remaining,
		Score:            a.ExamAttemptScore,
		Percentage:       a.ExamAttemptPercentage,
		Grade:            grade,
	}
	for i := range a.Answers {
		out.Answers = append(out.Answers, FromAnswerModel(&a.Answers[i]))
	}
	return out
}
