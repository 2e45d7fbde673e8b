package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionFillBlank      QuestionType = "fill_blank"
	QuestionEssay          QuestionType = "essay"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionFillBlank, QuestionEssay:
		return true
	}
	return false
}

// QuestionOption: satu pilihan jawaban (urutan disimpan apa adanya di jsonb array).
type QuestionOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

/* ======================================================
   Model: exam_questions
====================================================== */

type ExamQuestionModel struct {
	ExamQuestionID     uuid.UUID `gorm:"column:exam_question_id;type:uuid;default:gen_random_uuid();primaryKey" json:"exam_question_id"`
	ExamQuestionExamID uuid.UUID `gorm:"column:exam_question_exam_id;type:uuid;not null;index" json:"exam_question_exam_id"`

	ExamQuestionType          QuestionType   `gorm:"column:exam_question_type;type:varchar(20);not null" json:"exam_question_type"`
	ExamQuestionText          string         `gorm:"column:exam_question_text;type:text;not null" json:"exam_question_text"`
	ExamQuestionOptions       datatypes.JSON `gorm:"column:exam_question_options;type:jsonb" json:"exam_question_options,omitempty"`
	ExamQuestionCorrectAnswer *string        `gorm:"column:exam_question_correct_answer;type:text" json:"-"`
	ExamQuestionExplanation   *string        `gorm:"column:exam_question_explanation;type:text" json:"exam_question_explanation,omitempty"`
	ExamQuestionPoints        float64        `gorm:"column:exam_question_points;type:numeric(6,2);not null;default:0" json:"exam_question_points"`
	ExamQuestionOrder         int            `gorm:"column:exam_question_order;not null;default:0" json:"exam_question_order"`

	ExamQuestionCreatedAt time.Time `gorm:"column:exam_question_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"exam_question_created_at"`
	ExamQuestionUpdatedAt time.Time `gorm:"column:exam_question_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"exam_question_updated_at"`
}

func (ExamQuestionModel) TableName() string {
	return "exam_questions"
}

func (m *ExamQuestionModel) IsEssay() bool {
	return m.ExamQuestionType == QuestionEssay
}

// Options decode kolom jsonb ke slice terurut.
func (m *ExamQuestionModel) Options() ([]QuestionOption, error) {
	if len(m.ExamQuestionOptions) == 0 {
		return nil, nil
	}
	var out []QuestionOption
	if err := sonic.Unmarshal(m.ExamQuestionOptions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func EncodeOptions(opts []QuestionOption) (datatypes.JSON, error) {
	if len(opts) == 0 {
		return nil, nil
	}
	b, err := sonic.Marshal(opts)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
