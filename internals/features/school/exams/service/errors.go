package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrMaxAttemptsReached    = errors.New("maximum exam attempts reached")
	ErrExamNotActive         = errors.New("exam is not active")
	ErrAttemptNotSubmittable = errors.New("attempt can no longer be submitted")
	ErrAttemptInProgress     = errors.New("another attempt is still in progress")

	ErrExamNotFound     = errors.New("exam not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrNotInExamClass   = errors.New("student is not in the exam's class")
	ErrStudentNotFound  = errors.New("student not found")

	ErrNotEssay           = errors.New("answer is not an essay answer")
	ErrInvalidPoints      = errors.New("points out of range for question")
	ErrAttemptNotGradable = errors.New("attempt is not awaiting grading")
	ErrExamLocked         = errors.New("exam already has attempts")
)

// AttemptError: konteks ujian/siswa untuk kegagalan attempt.
type AttemptError struct {
	Op        string
	ExamID    uuid.UUID
	StudentID uuid.UUID
	Err       error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s exam=%s student=%s: %v", e.Op, e.ExamID, e.StudentID, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

func attemptErr(op string, examID, studentID uuid.UUID, err error) error {
	return &AttemptError{Op: op, ExamID: examID, StudentID: studentID, Err: err}
}
