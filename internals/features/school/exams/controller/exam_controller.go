package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pesantren_backend/internals/features/school/exams/dto"
	"pesantren_backend/internals/features/school/exams/service"
	helper "pesantren_backend/internals/helpers"
	helperAuth "pesantren_backend/internals/helpers/auth"
)

// examErrorResponse: sentinel service → status HTTP.
func examErrorResponse(c *fiber.Ctx, tag string, err error) error {
	switch {
	case errors.Is(err, service.ErrMaxAttemptsReached):
		return helper.JsonError(c, fiber.StatusConflict, "Batas jumlah percobaan ujian sudah tercapai")
	case errors.Is(err, service.ErrExamNotActive):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Ujian belum dibuka atau sudah ditutup")
	case errors.Is(err, service.ErrAttemptNotSubmittable):
		return helper.JsonError(c, fiber.StatusConflict, "Attempt sudah selesai atau waktu habis")
	case errors.Is(err, service.ErrAttemptInProgress):
		return helper.JsonError(c, fiber.StatusConflict, "Masih ada attempt yang berjalan")
	case errors.Is(err, service.ErrExamLocked):
		return helper.JsonError(c, fiber.StatusConflict, "Soal tidak bisa diubah, ujian sudah dikerjakan")
	case errors.Is(err, service.ErrAttemptNotGradable):
		return helper.JsonError(c, fiber.StatusConflict, "Attempt belum disubmit")
	case errors.Is(err, service.ErrNotInExamClass):
		return helper.JsonError(c, fiber.StatusForbidden, "Ujian ini bukan untuk kelas Anda")
	case errors.Is(err, service.ErrNotEssay):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Hanya jawaban esai yang dinilai manual")
	case errors.Is(err, service.ErrInvalidPoints):
		return helper.JsonValidationError(c, map[string][]string{"points": {"melebihi poin soal"}})
	case errors.Is(err, service.ErrExamNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Ujian tidak ditemukan")
	case errors.Is(err, service.ErrQuestionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Soal tidak ditemukan")
	case errors.Is(err, service.ErrAttemptNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Attempt tidak ditemukan")
	case errors.Is(err, service.ErrAnswerNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Jawaban tidak ditemukan")
	case errors.Is(err, service.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.FromFiberError(c, err)
	}
	log.Printf("[%s] %s %s: %v", tag, c.Method(), c.Path(), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan server")
}

type ExamController struct {
	DB        *gorm.DB
	Service   *service.ExamService
	validator *validator.Validate
}

func NewExamController(db *gorm.DB) *ExamController {
	return &ExamController{DB: db, Service: service.NewExamService(db), validator: helper.NewValidator()}
}

// POST /api/a/exams
func (ctl *ExamController) Create(c *fiber.Ctx) error {
	var req dto.CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if errs := req.Check(); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}
	exam, questions, err := req.ToModel(helperAuth.OptionalTeacherID(c))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Opsi soal tidak valid")
	}
	if err := ctl.Service.CreateExam(c.Context(), exam, questions); err != nil {
		return examErrorResponse(c, "ExamController", err)
	}
	return helper.JsonCreated(c, "Ujian dibuat", dto.FromExamModel(exam, false, true))
}

// GET /api/a/exams/:id (dengan soal, tanpa kunci)
func (ctl *ExamController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	exam, err := ctl.Service.Get(c.Context(), id, true)
	if err != nil {
		return examErrorResponse(c, "ExamController", err)
	}
	return helper.JsonOK(c, "ok", dto.FromExamModel(exam, service.IsExamActive(exam, ctl.Service.Now()), true))
}

// POST /api/a/exams/:id/questions
func (ctl *ExamController) AddQuestion(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if errs := req.Check(""); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}
	q, err := req.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Opsi soal tidak valid")
	}
	exam, err := ctl.Service.AddQuestion(c.Context(), id, q)
	if err != nil {
		return examErrorResponse(c, "ExamController", err)
	}
	return helper.JsonCreated(c, "Soal ditambahkan", dto.FromExamModel(exam, false, true))
}

// DELETE /api/a/exams/:id/questions/:question_id
func (ctl *ExamController) DeleteQuestion(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	qid, err := helper.ParseUUIDParam(c, "question_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	exam, err := ctl.Service.DeleteQuestion(c.Context(), id, qid)
	if err != nil {
		return examErrorResponse(c, "ExamController", err)
	}
	return helper.JsonDeleted(c, "Soal dihapus", dto.FromExamModel(exam, false, true))
}

// POST /api/a/exams/:id/publish {published: bool}
func (ctl *ExamController) Publish(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	exam, err := ctl.Service.SetPublished(c.Context(), id, *req.Published)
	if err != nil {
		return examErrorResponse(c, "ExamController", err)
	}
	return helper.JsonUpdated(c, "Status publikasi diperbarui", dto.FromExamModel(exam, false, false))
}
