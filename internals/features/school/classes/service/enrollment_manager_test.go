package service

import (
	"errors"
	"testing"
	"time"

	"pesantren_backend/internals/features/school/classes/model"
	studentModel "pesantren_backend/internals/features/school/students/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 7, 15, 8, 0, 0, 0, time.UTC)

func newClass(name string, capacity, current int) *model.StudentClassModel {
	return &model.StudentClassModel{
		StudentClassID:              uuid.New(),
		StudentClassName:            name,
		StudentClassCapacity:        capacity,
		StudentClassCurrentStudents: current,
		StudentClassStatus:          model.ClassStatusActive,
	}
}

func newStudent(name string) *studentModel.StudentModel {
	return &studentModel.StudentModel{
		StudentID:     uuid.New(),
		StudentName:   name,
		StudentStatus: studentModel.StudentStatusActive,
	}
}

func assertCounterInvariant(t *testing.T, c *model.StudentClassModel) {
	t.Helper()
	assert.GreaterOrEqual(t, c.StudentClassCurrentStudents, 0)
	assert.LessOrEqual(t, c.StudentClassCurrentStudents, c.StudentClassCapacity)
}

func TestCanEnroll(t *testing.T) {
	c := newClass("7A", 2, 1)
	assert.True(t, CanEnroll(c))

	c.StudentClassCurrentStudents = 2
	assert.False(t, CanEnroll(c))

	c.StudentClassCurrentStudents = 0
	c.StudentClassStatus = model.ClassStatusInactive
	assert.False(t, CanEnroll(c))
}

func TestEnroll_CapacityOne(t *testing.T) {
	class := newClass("7A", 1, 0)
	a, b := newStudent("Ahmad"), newStudent("Budi")

	e, err := Enroll(a, class, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentEnrolled, e.StudentEnrollmentStatus)
	assert.Equal(t, a.StudentID, e.StudentEnrollmentStudentID)
	assert.Equal(t, class.StudentClassID, e.StudentEnrollmentClassID)
	assert.Equal(t, 1, class.StudentClassCurrentStudents)
	require.NotNil(t, a.StudentClassID)
	assert.Equal(t, class.StudentClassID, *a.StudentClassID)
	assert.Equal(t, "7A", *a.StudentClassName)

	_, err = Enroll(b, class, nil, testNow)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 1, class.StudentClassCurrentStudents)
	assert.Nil(t, b.StudentClassID)
	assertCounterInvariant(t, class)
}

func TestEnroll_AlreadyEnrolledIsIdempotent(t *testing.T) {
	class := newClass("7A", 3, 0)
	st := newStudent("Ahmad")

	e, err := Enroll(st, class, nil, testNow)
	require.NoError(t, err)
	existing := []model.StudentEnrollmentModel{*e}

	_, err = Enroll(st, class, existing, testNow)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.Equal(t, 1, class.StudentClassCurrentStudents)

	var ee *EnrollmentError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "enroll", ee.Op)
	assert.Equal(t, st.StudentID, ee.StudentID)
}

func TestEnroll_AlreadyEnrolledWinsOverFullClass(t *testing.T) {
	class := newClass("7A", 1, 0)
	st := newStudent("Ahmad")
	e, err := Enroll(st, class, nil, testNow)
	require.NoError(t, err)

	_, err = Enroll(st, class, []model.StudentEnrollmentModel{*e}, testNow)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnroll_EnrolledElsewhere(t *testing.T) {
	a, b := newClass("7A", 3, 0), newClass("7B", 3, 0)
	st := newStudent("Ahmad")
	e, err := Enroll(st, a, nil, testNow)
	require.NoError(t, err)

	_, err = Enroll(st, b, []model.StudentEnrollmentModel{*e}, testNow)
	assert.ErrorIs(t, err, ErrEnrolledElsewhere)
	assert.Equal(t, 0, b.StudentClassCurrentStudents)
	assert.Equal(t, a.StudentClassID, *st.StudentClassID)
}

func TestRemove(t *testing.T) {
	class := newClass("7A", 2, 0)
	st := newStudent("Ahmad")
	e, err := Enroll(st, class, nil, testNow)
	require.NoError(t, err)
	enrollments := []model.StudentEnrollmentModel{*e}

	dropped, err := Remove(st, class, enrollments, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentDropped, dropped.StudentEnrollmentStatus)
	require.NotNil(t, dropped.StudentEnrollmentDroppedAt)
	assert.Equal(t, 0, class.StudentClassCurrentStudents)
	assert.Nil(t, st.StudentClassID)
	assert.Nil(t, st.StudentClassName)

	_, err = Remove(st, class, enrollments, testNow)
	assert.ErrorIs(t, err, ErrNotEnrolled)
	assert.Equal(t, 0, class.StudentClassCurrentStudents)
}

func TestRemove_CounterAtZeroIsInvariantViolation(t *testing.T) {
	class := newClass("7A", 2, 0)
	st := newStudent("Ahmad")
	enrollments := []model.StudentEnrollmentModel{{
		StudentEnrollmentID:        uuid.New(),
		StudentEnrollmentStudentID: st.StudentID,
		StudentEnrollmentClassID:   class.StudentClassID,
		StudentEnrollmentStatus:    model.EnrollmentEnrolled,
	}}

	_, err := Remove(st, class, enrollments, testNow)
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Equal(t, 0, class.StudentClassCurrentStudents)
	assert.Equal(t, model.EnrollmentEnrolled, enrollments[0].StudentEnrollmentStatus)
}

func TestTransfer_Success(t *testing.T) {
	from, to := newClass("7A", 2, 0), newClass("7B", 2, 0)
	st := newStudent("Ahmad")
	e, err := Enroll(st, from, nil, testNow)
	require.NoError(t, err)
	enrollments := []model.StudentEnrollmentModel{*e}

	res, err := Transfer(st, from, to, enrollments, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentDropped, res.Dropped.StudentEnrollmentStatus)
	assert.Equal(t, model.EnrollmentEnrolled, res.Enrolled.StudentEnrollmentStatus)
	assert.Equal(t, to.StudentClassID, res.Enrolled.StudentEnrollmentClassID)
	assert.Equal(t, 0, from.StudentClassCurrentStudents)
	assert.Equal(t, 1, to.StudentClassCurrentStudents)
	assert.Equal(t, to.StudentClassID, *st.StudentClassID)
}

func TestTransfer_FullTargetKeepsStudentInSource(t *testing.T) {
	from, to := newClass("7A", 2, 0), newClass("7B", 1, 1)
	st := newStudent("Ahmad")
	e, err := Enroll(st, from, nil, testNow)
	require.NoError(t, err)
	enrollments := []model.StudentEnrollmentModel{*e}

	_, err = Transfer(st, from, to, enrollments, testNow)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 1, from.StudentClassCurrentStudents)
	assert.Equal(t, 1, to.StudentClassCurrentStudents)
	assert.Equal(t, model.EnrollmentEnrolled, enrollments[0].StudentEnrollmentStatus)
	assert.Nil(t, enrollments[0].StudentEnrollmentDroppedAt)
	assert.Equal(t, from.StudentClassID, *st.StudentClassID)
}

func TestTransfer_CompensatesWhenEnrollFails(t *testing.T) {
	from, to := newClass("7A", 2, 0), newClass("7B", 2, 0)
	st := newStudent("Ahmad")
	e, err := Enroll(st, from, nil, testNow)
	require.NoError(t, err)

	// enrollment aktif yang "bocor" di kelas tujuan membuat Enroll gagal setelah Remove
	stale := model.StudentEnrollmentModel{
		StudentEnrollmentID:        uuid.New(),
		StudentEnrollmentStudentID: st.StudentID,
		StudentEnrollmentClassID:   to.StudentClassID,
		StudentEnrollmentStatus:    model.EnrollmentEnrolled,
	}
	enrollments := []model.StudentEnrollmentModel{*e, stale}

	_, err = Transfer(st, from, to, enrollments, testNow)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.Equal(t, 1, from.StudentClassCurrentStudents)
	assert.Equal(t, 0, to.StudentClassCurrentStudents)
	assert.Equal(t, model.EnrollmentEnrolled, enrollments[0].StudentEnrollmentStatus)
	assert.Equal(t, from.StudentClassID, *st.StudentClassID)
}

func TestTransfer_Guards(t *testing.T) {
	a, b := newClass("7A", 2, 0), newClass("7B", 2, 0)
	st := newStudent("Ahmad")

	_, err := Transfer(st, a, a, nil, testNow)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	_, err = Transfer(st, a, b, nil, testNow)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestReactivate(t *testing.T) {
	class := newClass("7A", 1, 0)
	st := newStudent("Ahmad")
	e, err := Enroll(st, class, nil, testNow)
	require.NoError(t, err)
	enrollments := []model.StudentEnrollmentModel{*e}
	_, err = Remove(st, class, enrollments, testNow)
	require.NoError(t, err)

	require.NoError(t, Reactivate(&enrollments[0], st, class, enrollments))
	assert.Equal(t, model.EnrollmentEnrolled, enrollments[0].StudentEnrollmentStatus)
	assert.Nil(t, enrollments[0].StudentEnrollmentDroppedAt)
	assert.Equal(t, 1, class.StudentClassCurrentStudents)
	assert.Equal(t, class.StudentClassID, *st.StudentClassID)

	err = Reactivate(&enrollments[0], st, class, enrollments)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.Equal(t, 1, class.StudentClassCurrentStudents)
}

func TestReactivate_FullClass(t *testing.T) {
	class := newClass("7A", 1, 1)
	st := newStudent("Ahmad")
	dropped := model.StudentEnrollmentModel{
		StudentEnrollmentID:        uuid.New(),
		StudentEnrollmentStudentID: st.StudentID,
		StudentEnrollmentClassID:   class.StudentClassID,
		StudentEnrollmentStatus:    model.EnrollmentDropped,
	}
	err := Reactivate(&dropped, st, class, nil)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, model.EnrollmentDropped, dropped.StudentEnrollmentStatus)
	assert.Equal(t, 1, class.StudentClassCurrentStudents)
}

func TestReactivate_EnrolledElsewhere(t *testing.T) {
	a, b := newClass("7A", 2, 0), newClass("7B", 2, 1)
	st := newStudent("Ahmad")
	dropped := model.StudentEnrollmentModel{
		StudentEnrollmentID:        uuid.New(),
		StudentEnrollmentStudentID: st.StudentID,
		StudentEnrollmentClassID:   a.StudentClassID,
		StudentEnrollmentStatus:    model.EnrollmentDropped,
	}
	active := model.StudentEnrollmentModel{
		StudentEnrollmentID:        uuid.New(),
		StudentEnrollmentStudentID: st.StudentID,
		StudentEnrollmentClassID:   b.StudentClassID,
		StudentEnrollmentStatus:    model.EnrollmentEnrolled,
	}
	err := Reactivate(&dropped, st, a, []model.StudentEnrollmentModel{dropped, active})
	assert.ErrorIs(t, err, ErrEnrolledElsewhere)
	assert.Equal(t, 0, a.StudentClassCurrentStudents)
}

func TestComplete(t *testing.T) {
	class := newClass("7A", 2, 0)
	st := newStudent("Ahmad")
	e, err := Enroll(st, class, nil, testNow)
	require.NoError(t, err)

	require.NoError(t, Complete(e, st, class, testNow))
	assert.Equal(t, model.EnrollmentCompleted, e.StudentEnrollmentStatus)
	require.NotNil(t, e.StudentEnrollmentCompletedAt)
	assert.Equal(t, 0, class.StudentClassCurrentStudents)
	assert.Nil(t, st.StudentClassID)

	assert.ErrorIs(t, Complete(e, st, class, testNow), ErrNotEnrolled)
}

func TestRecount(t *testing.T) {
	class := newClass("7A", 3, 1)
	require.NoError(t, Recount(class, 3))
	assert.Equal(t, 3, class.StudentClassCurrentStudents)

	assert.ErrorIs(t, Recount(class, 4), ErrInvariantViolation)
	assert.ErrorIs(t, Recount(class, -1), ErrInvariantViolation)
	assert.Equal(t, 3, class.StudentClassCurrentStudents)
}

func TestCounterInvariantAcrossSequence(t *testing.T) {
	class := newClass("7A", 2, 0)
	students := []*studentModel.StudentModel{newStudent("A"), newStudent("B"), newStudent("C")}
	var enrollments []model.StudentEnrollmentModel

	for _, st := range students {
		if e, err := Enroll(st, class, enrollments, testNow); err == nil {
			enrollments = append(enrollments, *e)
		}
		assertCounterInvariant(t, class)
	}
	assert.Equal(t, 2, class.StudentClassCurrentStudents)

	for _, st := range students {
		_, _ = Remove(st, class, enrollments, testNow)
		assertCounterInvariant(t, class)
	}
	assert.Equal(t, 0, class.StudentClassCurrentStudents)

	for i := range enrollments {
		_ = Reactivate(&enrollments[i], students[i], class, enrollments)
		assertCounterInvariant(t, class)
	}
	assert.Equal(t, 2, class.StudentClassCurrentStudents)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", ResultLabel(nil))
	assert.Equal(t, "capacity_exceeded", ResultLabel(opErr("enroll", uuid.Nil, uuid.Nil, ErrCapacityExceeded)))
	assert.Equal(t, "error", ResultLabel(errors.New("boom")))
}
