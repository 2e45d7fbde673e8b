package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"pesantren_backend/internals/features/school/attendances/model"
	classModel "pesantren_backend/internals/features/school/classes/model"
	"pesantren_backend/internals/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultMonthlyMonths = 6
	MaxMonthlyMonths     = 24
)

var (
	ErrClassNotFound = errors.New("class not found")
	ErrEmptyBatch    = errors.New("attendance batch is empty")
)

// NotInClassError: entri batch yang siswanya tidak sedang enrolled di kelas tsb.
type NotInClassError struct {
	ClassID uuid.UUID
	Indexes []int
}

func (e *NotInClassError) Error() string {
	return fmt.Sprintf("%d entri bukan siswa aktif kelas %s", len(e.Indexes), e.ClassID)
}

type BatchEntry struct {
	StudentID uuid.UUID
	Status    model.AttendanceStatus
	Notes     *string
}

type AttendanceService struct {
	DB    *gorm.DB
	Cache SummaryCache
	Now   func() time.Time
}

func NewAttendanceService(db *gorm.DB, cache SummaryCache) *AttendanceService {
	if cache == nil {
		cache = NewNoopSummaryCache()
	}
	return &AttendanceService{DB: db, Cache: cache, Now: time.Now}
}

// RecordBatch mencatat absensi satu kelas untuk satu hari dalam satu transaksi.
// Kirim ulang (student, date) yang sama → update baris lama.
func (s *AttendanceService) RecordBatch(ctx context.Context, classID uuid.UUID, date time.Time, recordedBy *uuid.UUID, entries []BatchEntry) ([]model.StudentAttendanceModel, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var rows []model.StudentAttendanceModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&classModel.StudentClassModel{}).
			Where("student_class_id = ?", classID).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrClassNotFound
		}

		ids := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.StudentID)
		}
		var enrolled []uuid.UUID
		if err := tx.Model(&classModel.StudentEnrollmentModel{}).
			Where("student_enrollment_class_id = ? AND student_enrollment_status = ? AND student_enrollment_student_id IN ?",
				classID, classModel.EnrollmentEnrolled, ids).
			Pluck("student_enrollment_student_id", &enrolled).Error; err != nil {
			return err
		}
		allowed := make(map[uuid.UUID]struct{}, len(enrolled))
		for _, id := range enrolled {
			allowed[id] = struct{}{}
		}

		var bad []int
		// entri ganda untuk siswa yang sama: yang terakhir menang
		byStudent := make(map[uuid.UUID]int, len(entries))
		for i, e := range entries {
			if _, ok := allowed[e.StudentID]; !ok {
				bad = append(bad, i)
				continue
			}
			byStudent[e.StudentID] = i
		}
		if len(bad) > 0 {
			return &NotInClassError{ClassID: classID, Indexes: bad}
		}

		idx := make([]int, 0, len(byStudent))
		for _, i := range byStudent {
			idx = append(idx, i)
		}
		sort.Ints(idx)

		rows = make([]model.StudentAttendanceModel, 0, len(idx))
		for _, i := range idx {
			e := entries[i]
			rows = append(rows, model.StudentAttendanceModel{
				StudentAttendanceStudentID:  e.StudentID,
				StudentAttendanceClassID:    classID,
				StudentAttendanceDate:       day,
				StudentAttendanceStatus:     e.Status,
				StudentAttendanceNotes:      e.Notes,
				StudentAttendanceRecordedBy: recordedBy,
			})
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "student_attendance_student_id"},
				{Name: "student_attendance_date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"student_attendance_class_id",
				"student_attendance_status",
				"student_attendance_notes",
				"student_attendance_recorded_by",
				"student_attendance_updated_at",
			}),
		}, clause.Returning{}).Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.AddAttendanceRecords(len(rows))
	for i := range rows {
		s.Cache.InvalidateStudent(ctx, rows[i].StudentAttendanceStudentID)
	}
	log.Printf("[AttendanceService] batch class=%s date=%s rows=%d", classID, day.Format("2006-01-02"), len(rows))
	return rows, nil
}

func (s *AttendanceService) loadStudentRecords(ctx context.Context, studentID uuid.UUID, window *DateWindow) ([]model.StudentAttendanceModel, error) {
	q := s.DB.WithContext(ctx).
		Model(&model.StudentAttendanceModel{}).
		Where("student_attendance_student_id = ?", studentID)
	if window != nil {
		q = q.Where("student_attendance_date BETWEEN ? AND ?",
			window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))
	}
	var rows []model.StudentAttendanceModel
	if err := q.Order("student_attendance_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// StudentSummary: window nil = seluruh riwayat.
func (s *AttendanceService) StudentSummary(ctx context.Context, studentID uuid.UUID, window *DateWindow) (AttendanceSummary, error) {
	rows, err := s.loadStudentRecords(ctx, studentID, window)
	if err != nil {
		return AttendanceSummary{}, err
	}
	return Summarize(rows, window), nil
}

type StudentAttendanceSummary struct {
	StudentID uuid.UUID         `json:"student_id"`
	Summary   AttendanceSummary `json:"summary"`
}

type ClassAttendanceSummary struct {
	ClassID  uuid.UUID                  `json:"class_id"`
	Overall  AttendanceSummary          `json:"overall"`
	Students []StudentAttendanceSummary `json:"students"`
}

func (s *AttendanceService) ClassSummary(ctx context.Context, classID uuid.UUID, window DateWindow) (*ClassAttendanceSummary, error) {
	var rows []model.StudentAttendanceModel
	if err := s.DB.WithContext(ctx).
		Where("student_attendance_class_id = ? AND student_attendance_date BETWEEN ? AND ?",
			classID, window.From.Format("2006-01-02"), window.To.Format("2006-01-02")).
		Order("student_attendance_student_id, student_attendance_date").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	per := make(map[uuid.UUID][]model.StudentAttendanceModel)
	order := make([]uuid.UUID, 0)
	for _, r := range rows {
		if _, ok := per[r.StudentAttendanceStudentID]; !ok {
			order = append(order, r.StudentAttendanceStudentID)
		}
		per[r.StudentAttendanceStudentID] = append(per[r.StudentAttendanceStudentID], r)
	}

	out := &ClassAttendanceSummary{
		ClassID:  classID,
		Overall:  Summarize(rows, &window),
		Students: make([]StudentAttendanceSummary, 0, len(order)),
	}
	for _, id := range order {
		out.Students = append(out.Students, StudentAttendanceSummary{
			StudentID: id,
			Summary:   Summarize(per[id], &window),
		})
	}
	return out, nil
}

// ClampMonths: default 6, maksimal 24.
func ClampMonths(months int) int {
	if months <= 0 {
		return DefaultMonthlyMonths
	}
	if months > MaxMonthlyMonths {
		return MaxMonthlyMonths
	}
	return months
}

func (s *AttendanceService) StudentMonthly(ctx context.Context, studentID uuid.UUID, months int) ([]MonthlyAttendance, error) {
	months = ClampMonths(months)
	now := s.Now()
	anchor := now.Format("2006-01")

	cached, ver, ok := s.Cache.GetMonthly(ctx, studentID, anchor, months)
	if ok {
		return cached, nil
	}

	window := MonthlyRange(now, months)
	rows, err := s.loadStudentRecords(ctx, studentID, &window)
	if err != nil {
		return nil, err
	}
	out := MonthlySummary(rows, now, months)
	s.Cache.SetMonthly(ctx, studentID, ver, anchor, months, out)
	return out, nil
}
