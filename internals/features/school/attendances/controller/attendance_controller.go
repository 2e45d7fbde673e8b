package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"pesantren_backend/internals/features/school/attendances/dto"
	"pesantren_backend/internals/features/school/attendances/service"
	helper "pesantren_backend/internals/helpers"
	helperAuth "pesantren_backend/internals/helpers/auth"
	"pesantren_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	DB        *gorm.DB
	Service   *service.AttendanceService
	validator *validator.Validate
}

func NewAttendanceController(db *gorm.DB, cache service.SummaryCache) *AttendanceController {
	return &AttendanceController{
		DB:        db,
		Service:   service.NewAttendanceService(db, cache),
		validator: helper.NewValidator(),
	}
}

// ?from=&to= → window (nil kalau dua-duanya kosong). Salah satu kosong → satu hari.
func parseWindow(c *fiber.Ctx) (*service.DateWindow, error) {
	from, err := dbtime.ParseDatePtr(c.Query("from"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	to, err := dbtime.ParseDatePtr(c.Query("to"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	switch {
	case from == nil && to == nil:
		return nil, nil
	case from == nil:
		from = to
	case to == nil:
		to = from
	}
	if to.Before(*from) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "to harus >= from")
	}
	return &service.DateWindow{From: *from, To: *to}, nil
}

func windowStrings(w *service.DateWindow) (*string, *string) {
	if w == nil {
		return nil, nil
	}
	f := w.From.Format(dbtime.DateLayout)
	t := w.To.Format(dbtime.DateLayout)
	return &f, &t
}

// POST /api/a/attendances/classes/:class_id/batch
func (ctl *AttendanceController) RecordBatch(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.RecordBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	date, err := dbtime.ParseDate(req.Date)
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"date": {err.Error()}})
	}

	rows, err := ctl.Service.RecordBatch(c.Context(), classID, date, helperAuth.OptionalUserID(c), req.ToServiceEntries())
	if err != nil {
		var nic *service.NotInClassError
		switch {
		case errors.As(err, &nic):
			fields := map[string][]string{}
			for _, i := range nic.Indexes {
				fields[fmt.Sprintf("entries[%d].student_id", i)] = []string{"siswa tidak terdaftar aktif di kelas ini"}
			}
			return helper.JsonValidationError(c, fields)
		case errors.Is(err, service.ErrClassNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
		case errors.Is(err, service.ErrEmptyBatch):
			return helper.JsonValidationError(c, map[string][]string{"entries": {"wajib diisi"}})
		}
		log.Printf("[AttendanceController] batch class=%s: %v", classID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan absensi")
	}
	return helper.JsonCreated(c, "Absensi tersimpan", dto.FromModels(rows))
}

// GET /api/a/attendances/classes/:class_id/summary?date= | ?from=&to=
func (ctl *AttendanceController) ClassSummary(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var window service.DateWindow
	if d := strings.TrimSpace(c.Query("date")); d != "" {
		day, err := dbtime.ParseDate(d)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		window = service.DayWindow(day)
	} else {
		w, err := parseWindow(c)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		if w == nil {
			window = service.DayWindow(dbtime.Now())
		} else {
			window = *w
		}
	}

	out, err := ctl.Service.ClassSummary(c.Context(), classID, window)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung rekap kelas")
	}
	return helper.JsonOK(c, "ok", out)
}

func (ctl *AttendanceController) studentSummary(c *fiber.Ctx, studentID uuid.UUID) error {
	w, err := parseWindow(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sum, err := ctl.Service.StudentSummary(c.Context(), studentID, w)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung rekap siswa")
	}
	from, to := windowStrings(w)
	return helper.JsonOK(c, "ok", dto.SummaryResponse{From: from, To: to, Summary: sum})
}

func (ctl *AttendanceController) studentMonthly(c *fiber.Ctx, studentID uuid.UUID) error {
	months := service.ClampMonths(helper.QueryInt(c, "months", service.DefaultMonthlyMonths))
	items, err := ctl.Service.StudentMonthly(c.Context(), studentID, months)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung rekap bulanan")
	}
	return helper.JsonOK(c, "ok", dto.StudentMonthlyResponse{StudentID: studentID, Months: months, Items: items})
}

// GET /api/a/attendances/students/:student_id/summary?from=&to=
func (ctl *AttendanceController) StudentSummary(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.studentSummary(c, studentID)
}

// GET /api/a/attendances/students/:student_id/monthly?months=
func (ctl *AttendanceController) StudentMonthly(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.studentMonthly(c, studentID)
}

// GET /api/u/me/attendance?from=&to=
func (ctl *AttendanceController) MySummary(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.studentSummary(c, studentID)
}

// GET /api/u/me/attendance/monthly?months=
func (ctl *AttendanceController) MyMonthly(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ctl.studentMonthly(c, studentID)
}
