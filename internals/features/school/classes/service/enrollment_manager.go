package service

import (
	"time"

	"pesantren_backend/internals/features/school/classes/model"
	studentModel "pesantren_backend/internals/features/school/students/model"

	"github.com/google/uuid"
)

/*
Aturan enrollment (murni, tanpa I/O). Hanya fungsi di file ini yang mengubah
student_class_current_students dan status student_enrollments.

Invariant setelah setiap operasi: 0 <= current_students <= capacity.
Gagal = tidak ada field yang berubah.
*/

func CanEnroll(class *model.StudentClassModel) bool {
	return class.StudentClassStatus == model.ClassStatusActive &&
		class.StudentClassCurrentStudents < class.StudentClassCapacity
}

func findEnrolled(enrollments []model.StudentEnrollmentModel, studentID uuid.UUID, classID *uuid.UUID) int {
	for i := range enrollments {
		e := &enrollments[i]
		if e.StudentEnrollmentStudentID != studentID || !e.IsEnrolled() {
			continue
		}
		if classID == nil || e.StudentEnrollmentClassID == *classID {
			return i
		}
	}
	return -1
}

func linkStudent(st *studentModel.StudentModel, class *model.StudentClassModel) {
	id := class.StudentClassID
	name := class.StudentClassName
	st.StudentClassID = &id
	st.StudentClassName = &name
}

func unlinkStudent(st *studentModel.StudentModel, classID uuid.UUID) {
	if st.StudentClassID != nil && *st.StudentClassID != classID {
		return
	}
	st.StudentClassID = nil
	st.StudentClassName = nil
}

// Enroll membuat enrollment baru berstatus enrolled.
// enrollments = enrollment milik siswa yang sudah ada (status apa saja).
// Urutan cek: AlreadyEnrolled → EnrolledElsewhere → CapacityExceeded.
func Enroll(st *studentModel.StudentModel, class *model.StudentClassModel, enrollments []model.StudentEnrollmentModel, date time.Time) (*model.StudentEnrollmentModel, error) {
	const op = "enroll"
	sid, cid := st.StudentID, class.StudentClassID

	if findEnrolled(enrollments, sid, &cid) >= 0 {
		return nil, opErr(op, sid, cid, ErrAlreadyEnrolled)
	}
	if findEnrolled(enrollments, sid, nil) >= 0 {
		return nil, opErr(op, sid, cid, ErrEnrolledElsewhere)
	}
	if !CanEnroll(class) {
		return nil, opErr(op, sid, cid, ErrCapacityExceeded)
	}

	e := &model.StudentEnrollmentModel{
		StudentEnrollmentID:        uuid.New(),
		StudentEnrollmentStudentID: sid,
		StudentEnrollmentClassID:   cid,
		StudentEnrollmentDate:      date,
		StudentEnrollmentStatus:    model.EnrollmentEnrolled,
	}
	linkStudent(st, class)
	class.StudentClassCurrentStudents++
	return e, nil
}

// Remove: enrollment enrolled siswa di kelas ini → dropped, counter turun 1.
// Mengembalikan pointer ke elemen enrollments yang diubah.
func Remove(st *studentModel.StudentModel, class *model.StudentClassModel, enrollments []model.StudentEnrollmentModel, now time.Time) (*model.StudentEnrollmentModel, error) {
	const op = "remove"
	sid, cid := st.StudentID, class.StudentClassID

	i := findEnrolled(enrollments, sid, &cid)
	if i < 0 {
		return nil, opErr(op, sid, cid, ErrNotEnrolled)
	}
	if class.StudentClassCurrentStudents <= 0 {
		return nil, opErr(op, sid, cid, ErrInvariantViolation)
	}

	e := &enrollments[i]
	t := now
	e.StudentEnrollmentStatus = model.EnrollmentDropped
	e.StudentEnrollmentDroppedAt = &t
	unlinkStudent(st, cid)
	class.StudentClassCurrentStudents--
	return e, nil
}

// TransferResult: enrollment lama (dropped) dan baru (enrolled).
type TransferResult struct {
	Dropped  *model.StudentEnrollmentModel
	Enrolled *model.StudentEnrollmentModel
}

// Transfer = Remove(from) lalu Enroll(to). Kelas tujuan dicek lebih dulu;
// kalau Enroll tetap gagal, Remove dibatalkan sehingga siswa kembali di kelas asal.
func Transfer(st *studentModel.StudentModel, from, to *model.StudentClassModel, enrollments []model.StudentEnrollmentModel, now time.Time) (*TransferResult, error) {
	const op = "transfer"
	sid := st.StudentID

	if from.StudentClassID == to.StudentClassID {
		return nil, opErr(op, sid, to.StudentClassID, ErrAlreadyEnrolled)
	}
	if findEnrolled(enrollments, sid, &from.StudentClassID) < 0 {
		return nil, opErr(op, sid, from.StudentClassID, ErrNotEnrolled)
	}
	if !CanEnroll(to) {
		return nil, opErr(op, sid, to.StudentClassID, ErrCapacityExceeded)
	}

	prevClassID, prevClassName := st.StudentClassID, st.StudentClassName
	dropped, err := Remove(st, from, enrollments, now)
	if err != nil {
		return nil, err
	}
	enrolled, err := Enroll(st, to, enrollments, now)
	if err != nil {
		// kompensasi
		dropped.StudentEnrollmentStatus = model.EnrollmentEnrolled
		dropped.StudentEnrollmentDroppedAt = nil
		st.StudentClassID, st.StudentClassName = prevClassID, prevClassName
		from.StudentClassCurrentStudents++
		return nil, opErr(op, sid, to.StudentClassID, err)
	}
	return &TransferResult{Dropped: dropped, Enrolled: enrolled}, nil
}

// Reactivate: enrollment dropped/completed → enrolled lagi (record yang sama).
// others = enrollment lain milik siswa, untuk cek enrolled di kelas lain.
func Reactivate(e *model.StudentEnrollmentModel, st *studentModel.StudentModel, class *model.StudentClassModel, others []model.StudentEnrollmentModel) error {
	const op = "reactivate"
	sid, cid := st.StudentID, class.StudentClassID

	if e.IsEnrolled() {
		return opErr(op, sid, cid, ErrAlreadyEnrolled)
	}
	for i := range others {
		o := &others[i]
		if o.StudentEnrollmentID != e.StudentEnrollmentID && o.StudentEnrollmentStudentID == sid && o.IsEnrolled() {
			if o.StudentEnrollmentClassID == cid {
				return opErr(op, sid, cid, ErrAlreadyEnrolled)
			}
			return opErr(op, sid, cid, ErrEnrolledElsewhere)
		}
	}
	if !CanEnroll(class) {
		return opErr(op, sid, cid, ErrCapacityExceeded)
	}

	e.StudentEnrollmentStatus = model.EnrollmentEnrolled
	e.StudentEnrollmentDroppedAt = nil
	e.StudentEnrollmentCompletedAt = nil
	linkStudent(st, class)
	class.StudentClassCurrentStudents++
	return nil
}

// Complete: akhir tahun ajaran, enrolled → completed, kursi dibebaskan.
func Complete(e *model.StudentEnrollmentModel, st *studentModel.StudentModel, class *model.StudentClassModel, now time.Time) error {
	const op = "complete"
	sid, cid := st.StudentID, class.StudentClassID

	if !e.IsEnrolled() {
		return opErr(op, sid, cid, ErrNotEnrolled)
	}
	if class.StudentClassCurrentStudents <= 0 {
		return opErr(op, sid, cid, ErrInvariantViolation)
	}

	t := now
	e.StudentEnrollmentStatus = model.EnrollmentCompleted
	e.StudentEnrollmentCompletedAt = &t
	unlinkStudent(st, cid)
	class.StudentClassCurrentStudents--
	return nil
}

// Recount menyamakan counter dengan jumlah enrollment enrolled yang sebenarnya.
// Jumlah > capacity tidak bisa disimpan (CHECK), counter dibiarkan.
func Recount(class *model.StudentClassModel, enrolledCount int) error {
	if enrolledCount < 0 || enrolledCount > class.StudentClassCapacity {
		return opErr("recount", uuid.Nil, class.StudentClassID, ErrInvariantViolation)
	}
	class.StudentClassCurrentStudents = enrolledCount
	return nil
}
