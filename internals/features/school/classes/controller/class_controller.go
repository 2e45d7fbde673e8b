package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pesantren_backend/internals/features/school/classes/dto"
	"pesantren_backend/internals/features/school/classes/model"
	"pesantren_backend/internals/features/school/classes/service"
	helper "pesantren_backend/internals/helpers"
)

type ClassController struct {
	DB        *gorm.DB
	validator *validator.Validate
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db, validator: helper.NewValidator()}
}

// POST /api/a/classes
func (ctl *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	m := req.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		log.Printf("[ClassController] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat kelas")
	}
	return helper.JsonCreated(c, "Kelas dibuat", dto.FromClassModel(m))
}

// GET /api/a/classes?academic_year=&status=&q=&page=&per_page=
func (ctl *ClassController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.StudentClassModel{})
	if v := strings.TrimSpace(c.Query("academic_year")); v != "" {
		q = q.Where("student_class_academic_year = ?", v)
	}
	if v := strings.ToLower(strings.TrimSpace(c.Query("status"))); v != "" {
		if v != string(model.ClassStatusActive) && v != string(model.ClassStatusInactive) {
			return helper.JsonError(c, fiber.StatusBadRequest, "status harus active|inactive")
		}
		q = q.Where("student_class_status = ?", v)
	}
	if v := strings.TrimSpace(c.Query("q")); v != "" {
		q = q.Where("student_class_name ILIKE ?", "%"+v+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung kelas")
	}
	var rows []model.StudentClassModel
	if err := q.Order("student_class_academic_year DESC, student_class_name ASC").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil kelas")
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromClassModels(rows), &pg)
}

func (ctl *ClassController) findClass(c *fiber.Ctx) (*model.StudentClassModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.StudentClassModel
	if err := ctl.DB.WithContext(c.Context()).Where("student_class_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil kelas")
	}
	return &m, nil
}

// GET /api/a/classes/:id
func (ctl *ClassController) Get(c *fiber.Ctx) error {
	m, err := ctl.findClass(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromClassModel(m))
}

// PATCH /api/a/classes/:id (capacity tidak boleh < current_students)
func (ctl *ClassController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.PatchClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var out model.StudentClassModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("student_class_id = ?", id).First(&out).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
			}
			return err
		}
		changed := req.Apply(&out)
		if out.StudentClassCapacity < out.StudentClassCurrentStudents {
			return fiber.NewError(fiber.StatusConflict, "capacity tidak boleh lebih kecil dari jumlah siswa saat ini")
		}
		if len(changed) == 0 {
			return nil
		}
		return tx.Model(&out).Updates(changed).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.FromFiberError(c, err)
		}
		log.Printf("[ClassController] patch %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui kelas")
	}
	return helper.JsonUpdated(c, "Kelas diperbarui", dto.FromClassModel(&out))
}

// DELETE /api/a/classes/:id (hanya jika tidak ada siswa aktif)
// Dicek dan dihapus dalam satu transaksi dengan baris kelas terkunci, sama seperti Enroll.
func (ctl *ClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.deleteLocked(c.Context(), id); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.FromFiberError(c, err)
		}
		log.Printf("[ClassController] delete %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus kelas")
	}
	return helper.JsonDeleted(c, "Kelas dihapus", fiber.Map{"student_class_id": id})
}

func (ctl *ClassController) deleteLocked(ctx context.Context, id uuid.UUID) error {
	return ctl.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.StudentClassModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("student_class_id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
			}
			return err
		}
		if m.StudentClassCurrentStudents > 0 {
			return fiber.NewError(fiber.StatusConflict, "Kelas masih memiliki siswa aktif")
		}
		return tx.Delete(&m).Error
	})
}

// PUT /api/a/classes/:id/join-code
func (ctl *ClassController) SetJoinCode(c *fiber.Ctx) error {
	m, err := ctl.findClass(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.SetJoinCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Code = strings.TrimSpace(req.Code)
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	hash, err := service.HashJoinCode(req.Code)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat kode")
	}
	now := time.Now()
	m.StudentClassJoinCodeHash = hash
	m.StudentClassJoinCodeSetAt = &now
	if err := ctl.DB.WithContext(c.Context()).Model(m).Updates(map[string]any{
		"student_class_join_code_hash":   hash,
		"student_class_join_code_set_at": now,
	}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan kode")
	}
	return helper.JsonUpdated(c, "Kode kelas diperbarui", dto.FromClassModel(m))
}

// DELETE /api/a/classes/:id/join-code
func (ctl *ClassController) ClearJoinCode(c *fiber.Ctx) error {
	m, err := ctl.findClass(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m.StudentClassJoinCodeHash = nil
	m.StudentClassJoinCodeSetAt = nil
	if err := ctl.DB.WithContext(c.Context()).Model(m).Updates(map[string]any{
		"student_class_join_code_hash":   nil,
		"student_class_join_code_set_at": nil,
	}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus kode")
	}
	return helper.JsonUpdated(c, "Kode kelas dihapus", dto.FromClassModel(m))
}
