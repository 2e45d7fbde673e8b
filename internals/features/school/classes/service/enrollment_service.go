package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"time"

	"pesantren_backend/internals/features/school/classes/model"
	studentModel "pesantren_backend/internals/features/school/students/model"
	helper "pesantren_backend/internals/helpers"
	"pesantren_backend/internals/metrics"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnrollmentService membungkus EnrollmentManager dengan transaksi gorm.
// Baris kelas lalu siswa dikunci FOR UPDATE sebelum cek kapasitas.
type EnrollmentService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{DB: db, Now: time.Now}
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func lockClass(tx *gorm.DB, classID uuid.UUID) (*model.StudentClassModel, error) {
	var c model.StudentClassModel
	if err := forUpdate(tx).Where("student_class_id = ?", classID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &c, nil
}

func lockStudent(tx *gorm.DB, studentID uuid.UUID) (*studentModel.StudentModel, error) {
	var s studentModel.StudentModel
	if err := forUpdate(tx).Where("student_id = ?", studentID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func loadEnrolled(tx *gorm.DB, studentID uuid.UUID) ([]model.StudentEnrollmentModel, error) {
	var rows []model.StudentEnrollmentModel
	err := forUpdate(tx).
		Where("student_enrollment_student_id = ? AND student_enrollment_status = ?", studentID, model.EnrollmentEnrolled).
		Find(&rows).Error
	return rows, err
}

func saveStudentLink(tx *gorm.DB, st *studentModel.StudentModel) error {
	return tx.Model(&studentModel.StudentModel{}).
		Where("student_id = ?", st.StudentID).
		Updates(map[string]any{
			"student_class_id":   st.StudentClassID,
			"student_class_name": st.StudentClassName,
		}).Error
}

func saveCounter(tx *gorm.DB, c *model.StudentClassModel) error {
	return tx.Model(c).Update("student_class_current_students", c.StudentClassCurrentStudents).Error
}

// unique index partial (satu enrolled per siswa) adalah backstop terakhir
func mapWriteErr(op string, studentID, classID uuid.UUID, err error) error {
	if helper.IsUniqueViolation(err) {
		return opErr(op, studentID, classID, ErrEnrolledElsewhere)
	}
	if helper.IsCheckViolation(err) {
		return opErr(op, studentID, classID, ErrInvariantViolation)
	}
	return err
}

func observe(op string, err error) {
	metrics.ObserveEnrollment(op, ResultLabel(err))
	if err != nil && !isDomainErr(err) {
		log.Printf("[EnrollmentService] %s: %v", op, err)
	}
}

func isDomainErr(err error) bool {
	var ee *EnrollmentError
	return errors.As(err, &ee) ||
		errors.Is(err, ErrClassNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound) ||
		errors.Is(err, ErrInvalidJoinCode) ||
		errors.Is(err, ErrStudentInactive)
}

type EnrollInput struct {
	StudentID uuid.UUID
	ClassID   uuid.UUID
	Date      *time.Time
	Notes     *string
}

func (s *EnrollmentService) Enroll(ctx context.Context, in EnrollInput) (e *model.StudentEnrollmentModel, err error) {
	defer func() { observe("enroll", err) }()

	date := s.Now()
	if in.Date != nil {
		date = *in.Date
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		class, err := lockClass(tx, in.ClassID)
		if err != nil {
			return err
		}
		st, err := lockStudent(tx, in.StudentID)
		if err != nil {
			return err
		}
		if !st.IsActive() {
			return ErrStudentInactive
		}
		existing, err := loadEnrolled(tx, st.StudentID)
		if err != nil {
			return err
		}

		e, err = Enroll(st, class, existing, date)
		if err != nil {
			return err
		}
		e.StudentEnrollmentNotes = in.Notes

		if err := tx.Create(e).Error; err != nil {
			return mapWriteErr("enroll", st.StudentID, class.StudentClassID, err)
		}
		if err := saveStudentLink(tx, st); err != nil {
			return err
		}
		return mapWriteErr("enroll", st.StudentID, class.StudentClassID, saveCounter(tx, class))
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EnrollmentService) Remove(ctx context.Context, studentID, classID uuid.UUID) (e *model.StudentEnrollmentModel, err error) {
	defer func() { observe("remove", err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		class, err := lockClass(tx, classID)
		if err != nil {
			return err
		}
		st, err := lockStudent(tx, studentID)
		if err != nil {
			return err
		}
		existing, err := loadEnrolled(tx, studentID)
		if err != nil {
			return err
		}

		e, err = Remove(st, class, existing, s.Now())
		if err != nil {
			return err
		}
		if err := tx.Save(e).Error; err != nil {
			return err
		}
		if err := saveStudentLink(tx, st); err != nil {
			return err
		}
		return mapWriteErr("remove", studentID, classID, saveCounter(tx, class))
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Transfer dalam satu transaksi; dua kelas dikunci urut id supaya tidak deadlock.
func (s *EnrollmentService) Transfer(ctx context.Context, studentID, fromID, toID uuid.UUID) (res *TransferResult, err error) {
	defer func() { observe("transfer", err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var from, to *model.StudentClassModel
		if fromID == toID {
			return opErr("transfer", studentID, toID, ErrAlreadyEnrolled)
		}
		first, second := fromID, toID
		if bytes.Compare(first[:], second[:]) > 0 {
			first, second = second, first
		}
		a, err := lockClass(tx, first)
		if err != nil {
			return err
		}
		b, err := lockClass(tx, second)
		if err != nil {
			return err
		}
		if a.StudentClassID == fromID {
			from, to = a, b
		} else {
			from, to = b, a
		}

		st, err := lockStudent(tx, studentID)
		if err != nil {
			return err
		}
		existing, err := loadEnrolled(tx, studentID)
		if err != nil {
			return err
		}

		res, err = Transfer(st, from, to, existing, s.Now())
		if err != nil {
			return err
		}
		if err := tx.Save(res.Dropped).Error; err != nil {
			return err
		}
		if err := tx.Create(res.Enrolled).Error; err != nil {
			return mapWriteErr("transfer", studentID, toID, err)
		}
		if err := saveStudentLink(tx, st); err != nil {
			return err
		}
		if err := saveCounter(tx, from); err != nil {
			return mapWriteErr("transfer", studentID, fromID, err)
		}
		return mapWriteErr("transfer", studentID, toID, saveCounter(tx, to))
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// loadEnrollmentScope: enrollment + kelas + siswa dikunci dengan urutan yang sama seperti Enroll.
func loadEnrollmentScope(tx *gorm.DB, enrollmentID uuid.UUID) (*model.StudentEnrollmentModel, *model.StudentClassModel, *studentModel.StudentModel, error) {
	var ref model.StudentEnrollmentModel
	if err := tx.Where("student_enrollment_id = ?", enrollmentID).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrEnrollmentNotFound
		}
		return nil, nil, nil, err
	}
	class, err := lockClass(tx, ref.StudentEnrollmentClassID)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := lockStudent(tx, ref.StudentEnrollmentStudentID)
	if err != nil {
		return nil, nil, nil, err
	}
	var e model.StudentEnrollmentModel
	if err := forUpdate(tx).Where("student_enrollment_id = ?", enrollmentID).First(&e).Error; err != nil {
		return nil, nil, nil, err
	}
	return &e, class, st, nil
}

func (s *EnrollmentService) Reactivate(ctx context.Context, enrollmentID uuid.UUID) (e *model.StudentEnrollmentModel, err error) {
	defer func() { observe("reactivate", err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		en, class, st, err := loadEnrollmentScope(tx, enrollmentID)
		if err != nil {
			return err
		}
		e = en
		others, err := loadEnrolled(tx, st.StudentID)
		if err != nil {
			return err
		}
		if err := Reactivate(e, st, class, others); err != nil {
			return err
		}
		if err := tx.Save(e).Error; err != nil {
			return mapWriteErr("reactivate", st.StudentID, class.StudentClassID, err)
		}
		if err := saveStudentLink(tx, st); err != nil {
			return err
		}
		return mapWriteErr("reactivate", st.StudentID, class.StudentClassID, saveCounter(tx, class))
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EnrollmentService) Complete(ctx context.Context, enrollmentID uuid.UUID) (e *model.StudentEnrollmentModel, err error) {
	defer func() { observe("complete", err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		en, class, st, err := loadEnrollmentScope(tx, enrollmentID)
		if err != nil {
			return err
		}
		e = en
		if err := Complete(e, st, class, s.Now()); err != nil {
			return err
		}
		if err := tx.Save(e).Error; err != nil {
			return err
		}
		if err := saveStudentLink(tx, st); err != nil {
			return err
		}
		return saveCounter(tx, class)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Recount: perbaiki counter dari jumlah enrollment enrolled. Mengembalikan jumlah sebenarnya.
func (s *EnrollmentService) Recount(ctx context.Context, classID uuid.UUID) (count int, err error) {
	defer func() { observe("recount", err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		class, err := lockClass(tx, classID)
		if err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.StudentEnrollmentModel{}).
			Where("student_enrollment_class_id = ? AND student_enrollment_status = ?", classID, model.EnrollmentEnrolled).
			Count(&n).Error; err != nil {
			return err
		}
		count = int(n)
		before := class.StudentClassCurrentStudents
		if err := Recount(class, count); err != nil {
			return err
		}
		if before != count {
			log.Printf("[EnrollmentService] recount class=%s %d → %d", classID, before, count)
		}
		return saveCounter(tx, class)
	})
	return count, err
}

// JoinByCode: siswa gabung sendiri pakai kode kelas (bcrypt).
func (s *EnrollmentService) JoinByCode(ctx context.Context, studentID, classID uuid.UUID, code string) (*model.StudentEnrollmentModel, error) {
	var class model.StudentClassModel
	if err := s.DB.WithContext(ctx).
		Select("student_class_id", "student_class_join_code_hash", "student_class_status").
		Where("student_class_id = ?", classID).
		First(&class).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observe("join", ErrClassNotFound)
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	if !class.HasJoinCode() || bcrypt.CompareHashAndPassword(class.StudentClassJoinCodeHash, []byte(code)) != nil {
		err := opErr("join", studentID, classID, ErrInvalidJoinCode)
		observe("join", err)
		return nil, err
	}
	return s.Enroll(ctx, EnrollInput{StudentID: studentID, ClassID: classID})
}

// HashJoinCode: untuk PUT /classes/:id/join-code
func HashJoinCode(code string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
}
