package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pesantren_backend/internals/features/school/students/dto"
	"pesantren_backend/internals/features/school/students/model"
	helper "pesantren_backend/internals/helpers"
	helperAuth "pesantren_backend/internals/helpers/auth"
)

type StudentController struct {
	DB        *gorm.DB
	validator *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, validator: helper.NewValidator()}
}

func (ctl *StudentController) find(c *fiber.Ctx, id any) (*model.StudentModel, error) {
	var m model.StudentModel
	if err := ctl.DB.WithContext(c.Context()).Where("student_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Siswa tidak ditemukan")
		}
		log.Printf("[StudentController] find %v: %v", id, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil siswa")
	}
	return &m, nil
}

// POST /api/a/students
func (ctl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	m, err := req.ToModel()
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"birth_date": {err.Error()}})
	}
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Kode siswa sudah dipakai")
		}
		log.Printf("[StudentController] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat siswa")
	}
	return helper.JsonCreated(c, "Siswa dibuat", dto.FromModel(m))
}

// GET /api/a/students?q=&class_id=&status=&page=&per_page=
func (ctl *StudentController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)

	q := ctl.DB.WithContext(c.Context()).Model(&model.StudentModel{})
	if v := strings.TrimSpace(c.Query("q")); v != "" {
		like := "%" + v + "%"
		q = q.Where("student_name ILIKE ? OR student_nis ILIKE ? OR student_code ILIKE ?", like, like, like)
	}
	classID, err := helper.ParseUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if classID != nil {
		q = q.Where("student_class_id = ?", *classID)
	}
	if v := strings.ToLower(strings.TrimSpace(c.Query("status"))); v != "" {
		if v != string(model.StudentStatusActive) && v != string(model.StudentStatusInactive) {
			return helper.JsonError(c, fiber.StatusBadRequest, "status harus active|inactive")
		}
		q = q.Where("student_status = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung siswa")
	}
	var rows []model.StudentModel
	if err := q.Order("student_name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil siswa")
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

// GET /api/a/students/:id
func (ctl *StudentController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.find(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// GET /api/u/me/profile
func (ctl *StudentController) Me(c *fiber.Ctx) error {
	sid, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.find(c, sid)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// PATCH /api/a/students/:id
func (ctl *StudentController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.PatchStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	m, err := ctl.find(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	changed := req.Apply(m)
	if len(changed) > 0 {
		if err := ctl.DB.WithContext(c.Context()).Model(m).Updates(changed).Error; err != nil {
			log.Printf("[StudentController] patch %s: %v", id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui siswa")
		}
	}
	return helper.JsonUpdated(c, "Siswa diperbarui", dto.FromModel(m))
}

// DELETE /api/a/students/:id (soft delete, harus keluar kelas dulu)
func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.find(c, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if m.StudentClassID != nil {
		return helper.JsonError(c, fiber.StatusConflict, "Siswa masih terdaftar di kelas")
	}
	if err := ctl.DB.WithContext(c.Context()).Delete(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus siswa")
	}
	return helper.JsonDeleted(c, "Siswa dihapus", fiber.Map{"student_id": m.StudentID})
}
