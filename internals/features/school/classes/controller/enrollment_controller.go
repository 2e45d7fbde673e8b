package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pesantren_backend/internals/features/school/classes/dto"
	"pesantren_backend/internals/features/school/classes/model"
	"pesantren_backend/internals/features/school/classes/service"
	helper "pesantren_backend/internals/helpers"
	helperAuth "pesantren_backend/internals/helpers/auth"
	"pesantren_backend/internals/helpers/dbtime"
)

type EnrollmentController struct {
	DB        *gorm.DB
	Service   *service.EnrollmentService
	validator *validator.Validate
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	return &EnrollmentController{
		DB:        db,
		Service:   service.NewEnrollmentService(db),
		validator: helper.NewValidator(),
	}
}

// enrollmentErrorResponse memetakan error domain → HTTP.
func enrollmentErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCapacityExceeded):
		return helper.JsonError(c, fiber.StatusConflict, "Kelas penuh atau tidak aktif")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return helper.JsonError(c, fiber.StatusConflict, "Siswa sudah terdaftar di kelas ini")
	case errors.Is(err, service.ErrEnrolledElsewhere):
		return helper.JsonError(c, fiber.StatusConflict, "Siswa masih terdaftar di kelas lain, gunakan transfer")
	case errors.Is(err, service.ErrNotEnrolled):
		return helper.JsonError(c, fiber.StatusConflict, "Siswa tidak terdaftar aktif di kelas ini")
	case errors.Is(err, service.ErrInvariantViolation):
		return helper.JsonError(c, fiber.StatusConflict, "Counter kelas tidak konsisten, jalankan recount")
	case errors.Is(err, service.ErrInvalidJoinCode):
		return helper.JsonError(c, fiber.StatusForbidden, "Kode kelas salah")
	case errors.Is(err, service.ErrStudentInactive):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Siswa tidak aktif")
	case errors.Is(err, service.ErrClassNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
	case errors.Is(err, service.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
	case errors.Is(err, service.ErrEnrollmentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Enrollment tidak ditemukan")
	}
	log.Printf("[EnrollmentController] %s %s: %v", c.Method(), c.Path(), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses enrollment")
}

// POST /api/a/classes/:id/enrollments
func (ctl *EnrollmentController) Enroll(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	date, err := dbtime.ParseDatePtr(req.EnrollmentDate)
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"enrollment_date": {err.Error()}})
	}

	e, err := ctl.Service.Enroll(c.Context(), service.EnrollInput{
		StudentID: req.StudentID,
		ClassID:   classID,
		Date:      date,
		Notes:     req.Notes,
	})
	if err != nil {
		return enrollmentErrorResponse(c, err)
	}
	return helper.JsonCreated(c, "Siswa terdaftar di kelas", dto.FromEnrollmentModel(e))
}

// GET /api/a/classes/:id/enrollments?status=enrolled|completed|dropped
func (ctl *EnrollmentController) List(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 50, 200)

	q := ctl.DB.WithContext(c.Context()).
		Model(&model.StudentEnrollmentModel{}).
		Where("student_enrollment_class_id = ?", classID)
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		switch model.EnrollmentStatus(st) {
		case model.EnrollmentEnrolled, model.EnrollmentCompleted, model.EnrollmentDropped:
			q = q.Where("student_enrollment_status = ?", st)
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "status tidak valid")
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung enrollment")
	}
	var rows []model.StudentEnrollmentModel
	if err := q.Order("student_enrollment_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil enrollment")
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromEnrollmentModels(rows), &pg)
}

// POST /api/a/classes/:id/students/:student_id/remove
func (ctl *EnrollmentController) Remove(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	e, err := ctl.Service.Remove(c.Context(), studentID, classID)
	if err != nil {
		return enrollmentErrorResponse(c, err)
	}
	return helper.JsonOK(c, "Siswa dikeluarkan dari kelas", dto.FromEnrollmentModel(e))
}

// POST /api/a/classes/enrollments/transfer
func (ctl *EnrollmentController) Transfer(c *fiber.Ctx) error {
	var req dto.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	res, err := ctl.Service.Transfer(c.Context(), req.StudentID, req.FromClassID, req.ToClassID)
	if err != nil {
		return enrollmentErrorResponse(c, err)
	}
	return helper.JsonOK(c, "Siswa dipindahkan", dto.TransferResponse{
		Dropped:  dto.FromEnrollmentModel(res.Dropped),
		Enrolled: dto.FromEnrollmentModel(res.Enrolled),
	})
}

// POST /api/a/classes/enrollments/:enrollment_id/reactivate
func (ctl *EnrollmentController) Reactivate(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "enrollment_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	e, err := ctl.Service.Reactivate(c.Context(), id)
	if err != nil {
		return enrollmentErrorResponse(c, err)
	}
	return helper.JsonOK(c, "Enrollment diaktifkan kembali", dto.FromEnrollmentModel(e))
}

// POST /api/a/classes/enrollments/:enrollment_id/complete
func (ctl *EnrollmentController) Complete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "enrollment_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	e, err := ctl.Service.Complete(c.Context(), id)
	if err != nil {
		return enrollmentErrorResponse(c, err)
	}
	return helper.JsonOK(c, "Enrollment selesai", dto.FromEnrollmentModel(e))
}

// POST /api/a/classes/:id/recount
func (ctl *EnrollmentController) Recount(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	n, err := ctl.Service.Recount(c.Context(), classID)
	if err != nil {
		if errors.Is(err, service.ErrInvariantViolation) {
			return helper.JsonError(c, fiber.StatusConflict, "Jumlah siswa enrolled melebihi kapasitas kelas")
		}
		return enrollmentErrorResponse(c, err)
	}
	return helper.JsonOK(c, "Counter kelas disinkronkan", fiber.Map{
		"student_class_id": classID,
		"current_students": n,
	})
}

// POST /api/u/classes/join
func (ctl *EnrollmentController) JoinByCode(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.JoinClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.JoinCode = strings.TrimSpace(req.JoinCode)
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	e, err := ctl.Service.JoinByCode(c.Context(), studentID, req.ClassID, req.JoinCode)
	if err != nil {
		return enrollmentErrorResponse(c, err)
	}
	return helper.JsonCreated(c, "Berhasil bergabung ke kelas", dto.FromEnrollmentModel(e))
}
