package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pesantren_backend/internals/features/school/exams/dto"
	"pesantren_backend/internals/features/school/exams/model"
	"pesantren_backend/internals/features/school/exams/service"
	helper "pesantren_backend/internals/helpers"
	helperAuth "pesantren_backend/internals/helpers/auth"
)

type AttemptController struct {
	DB        *gorm.DB
	Exams     *service.ExamService
	Service   *service.AttemptService
	validator *validator.Validate
}

func NewAttemptController(db *gorm.DB) *AttemptController {
	return &AttemptController{
		DB:        db,
		Exams:     service.NewExamService(db),
		Service:   service.NewAttemptService(db),
		validator: helper.NewValidator(),
	}
}

func (ctl *AttemptController) toResponse(a *model.ExamAttemptModel) dto.AttemptResponse {
	remaining := 0
	if a.ExamAttemptStatus == model.AttemptInProgress {
		remaining = service.RemainingTimeMinutes(a, ctl.Service.Now())
	}
	var grade *string
	if a.ExamAttemptStatus == model.AttemptGraded {
		g := service.ExamGrade(a.ExamAttemptPercentage)
		grade = &g
	}
	return dto.FromAttemptModel(a, remaining, grade)
}

// GET /api/u/exams/:id (soal tanpa kunci & pembahasan)
func (ctl *AttemptController) ViewExam(c *fiber.Ctx) error {
	if _, err := helperAuth.GetStudentIDFromToken(c); err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	exam, err := ctl.Exams.Get(c.Context(), id, true)
	if err != nil {
		return examErrorResponse(c, "AttemptController", err)
	}
	active := service.IsExamActive(exam, ctl.Service.Now())
	if !exam.ExamIsPublished {
		return helper.JsonError(c, fiber.StatusNotFound, "Ujian tidak ditemukan")
	}
	if !active {
		// belum/sesudah jendela: metadata saja
		exam.Questions = nil
	}
	return helper.JsonOK(c, "ok", dto.FromExamModel(exam, active, false))
}

// POST /api/u/exams/:id/attempts
func (ctl *AttemptController) Start(c *fiber.Ctx) error {
	sid, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	examID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	a, err := ctl.Service.Start(c.Context(), examID, sid)
	if err != nil {
		return examErrorResponse(c, "AttemptController", err)
	}
	return helper.JsonCreated(c, "Ujian dimulai", ctl.toResponse(a))
}

// GET /api/u/exams/:id/attempts
func (ctl *AttemptController) ListMine(c *fiber.Ctx) error {
	sid, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	examID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := ctl.Service.ListForStudent(c.Context(), examID, sid)
	if err != nil {
		return examErrorResponse(c, "AttemptController", err)
	}
	out := make([]dto.AttemptResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ctl.toResponse(&rows[i]))
	}
	return helper.JsonOK(c, "ok", out)
}

// PUT /api/u/exam-attempts/:id/answers
func (ctl *AttemptController) SaveAnswer(c *fiber.Ctx) error {
	sid, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attemptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.SaveAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	ans, err := ctl.Service.SaveAnswer(c.Context(), attemptID, sid, service.AnswerInput{
		QuestionID:      req.QuestionID,
		Text:            req.AnswerText,
		SelectedOptions: req.SelectedOptions,
	})
	if err != nil {
		return examErrorResponse(c, "AttemptController", err)
	}
	return helper.JsonUpdated(c, "Jawaban disimpan", dto.FromAnswerModel(ans))
}

// POST /api/u/exam-attempts/:id/submit
func (ctl *AttemptController) Submit(c *fiber.Ctx) error {
	sid, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attemptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	a, err := ctl.Service.Submit(c.Context(), attemptID, sid)
	if err != nil {
		return examErrorResponse(c, "AttemptController", err)
	}
	return helper.JsonOK(c, "Ujian disubmit", ctl.toResponse(a))
}

// GET /api/u/exam-attempts/:id
func (ctl *AttemptController) GetMine(c *fiber.Ctx) error {
	sid, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attemptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	a, err := ctl.Service.Get(c.Context(), attemptID, &sid)
	if err != nil {
		return examErrorResponse(c, "AttemptController", err)
	}
	return helper.JsonOK(c, "ok", ctl.toResponse(a))
}

// GET /api/a/exam-attempts/:id
func (ctl *AttemptController) Get(c *fiber.Ctx) error {
	attemptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	a, err := ctl.Service.Get(c.Context(), attemptID, nil)
	if err != nil {
		return examErrorResponse(c, "AttemptController", err)
	}
	return helper.JsonOK(c, "ok", ctl.toResponse(a))
}

// POST /api/a/exam-attempts/:id/answers/:answer_id/grade
func (ctl *AttemptController) GradeEssay(c *fiber.Ctx) error {
	attemptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	answerID, err := helper.ParseUUIDParam(c, "answer_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.GradeEssayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	a, err := ctl.Service.GradeEssay(c.Context(), service.EssayGradeInput{
		AttemptID: attemptID,
		AnswerID:  answerID,
		Points:    *req.Points,
		Feedback:  req.Feedback,
	})
	if err != nil {
		return examErrorResponse(c, "AttemptController", err)
	}
	return helper.JsonOK(c, "Jawaban esai dinilai", ctl.toResponse(a))
}
