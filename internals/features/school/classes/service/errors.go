package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrCapacityExceeded   = errors.New("class capacity exceeded or class not active")
	ErrAlreadyEnrolled    = errors.New("student already enrolled in this class")
	ErrEnrolledElsewhere  = errors.New("student is enrolled in another class")
	ErrNotEnrolled        = errors.New("student is not enrolled in this class")
	ErrInvariantViolation = errors.New("class counter invariant violated")

	ErrClassNotFound      = errors.New("class not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidJoinCode    = errors.New("invalid class join code")
	ErrStudentInactive    = errors.New("student is not active")
)

// EnrollmentError membawa konteks (operasi, siswa, kelas) dan unwrap ke sentinel.
type EnrollmentError struct {
	Op        string
	StudentID uuid.UUID
	ClassID   uuid.UUID
	Err       error
}

func (e *EnrollmentError) Error() string {
	return fmt.Sprintf("%s student=%s class=%s: %v", e.Op, e.StudentID, e.ClassID, e.Err)
}

func (e *EnrollmentError) Unwrap() error { return e.Err }

func opErr(op string, studentID, classID uuid.UUID, err error) error {
	return &EnrollmentError{Op: op, StudentID: studentID, ClassID: classID, Err: err}
}

// ResultLabel: label metrik untuk hasil operasi.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrAlreadyEnrolled):
		return "already_enrolled"
	case errors.Is(err, ErrEnrolledElsewhere):
		return "enrolled_elsewhere"
	case errors.Is(err, ErrNotEnrolled):
		return "not_enrolled"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	case errors.Is(err, ErrInvalidJoinCode):
		return "invalid_join_code"
	default:
		return "error"
	}
}
