package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pesantren_backend/internals/features/school/grades/dto"
	"pesantren_backend/internals/features/school/grades/model"
	"pesantren_backend/internals/features/school/grades/service"
	studentModel "pesantren_backend/internals/features/school/students/model"
	helper "pesantren_backend/internals/helpers"
	helperAuth "pesantren_backend/internals/helpers/auth"
)

type GradeController struct {
	DB        *gorm.DB
	Service   *service.GradeService
	validator *validator.Validate
}

func NewGradeController(db *gorm.DB) *GradeController {
	return &GradeController{
		DB:        db,
		Service:   service.NewGradeService(db),
		validator: helper.NewValidator(),
	}
}

// POST /api/a/grades
func (ctl *GradeController) Create(c *fiber.Ctx) error {
	var req dto.CreateGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Subject = strings.TrimSpace(req.Subject)
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var cnt int64
	if err := ctl.DB.WithContext(c.Context()).Model(&studentModel.StudentModel{}).
		Where("student_id = ?", req.StudentID).Count(&cnt).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal cek siswa")
	}
	if cnt == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		log.Printf("[GradeController] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan nilai")
	}
	return helper.JsonCreated(c, "Nilai tersimpan", dto.FromModel(m))
}

// GET /api/a/grades/students/:student_id?academic_year=&term=
func (ctl *GradeController) ListByStudent(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Service.ListByStudent(c.Context(), studentID,
		strings.TrimSpace(c.Query("academic_year")), strings.TrimSpace(c.Query("term")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil nilai")
	}
	return helper.JsonOK(c, "ok", dto.BuildStudentGrades(studentID, rows))
}

// GET /api/u/me/grades
func (ctl *GradeController) MyGrades(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Service.ListByStudent(c.Context(), studentID,
		strings.TrimSpace(c.Query("academic_year")), strings.TrimSpace(c.Query("term")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil nilai")
	}
	return helper.JsonOK(c, "ok", dto.BuildStudentGrades(studentID, rows))
}

// DELETE /api/a/grades/:id
func (ctl *GradeController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctl.DB.WithContext(c.Context()).Where("student_grade_id = ?", id).Delete(&model.StudentGradeModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus nilai")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Nilai tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Nilai dihapus", fiber.Map{"student_grade_id": id})
}

// POST /api/a/students/:student_id/performance/recompute
func (ctl *GradeController) RecomputePerformance(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	perf, err := ctl.Service.RecomputeStudentPerformance(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
		}
		log.Printf("[GradeController] recompute %s: %v", studentID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung performa")
	}
	return helper.JsonOK(c, "Performa diperbarui", perf)
}
