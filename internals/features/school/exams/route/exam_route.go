package route

import (
	"pesantren_backend/internals/features/school/exams/controller"
	authMiddleware "pesantren_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Admin/guru (prefix /api/a):
//   POST   /exams
//   GET    /exams/:id
//   POST   /exams/:id/questions
//   DELETE /exams/:id/questions/:question_id
//   POST   /exams/:id/publish
//   GET    /exam-attempts/:id
//   POST   /exam-attempts/:id/answers/:answer_id/grade
func ExamAdminRoutes(r fiber.Router, db *gorm.DB) {
	ex := controller.NewExamController(db)
	at := controller.NewAttemptController(db)

	g := r.Group("/exams")
	g.Post("/", ex.Create)
	g.Get("/:id", ex.Get)
	g.Post("/:id/questions", ex.AddQuestion)
	g.Delete("/:id/questions/:question_id", ex.DeleteQuestion)
	g.Post("/:id/publish", ex.Publish)

	a := r.Group("/exam-attempts")
	a.Get("/:id", at.Get)
	a.Post("/:id/answers/:answer_id/grade", at.GradeEssay)
}

// User (prefix /api/u). GET juga untuk orang tua; tulis hanya siswa:
//   GET  /exams/:id
//   POST /exams/:id/attempts          (siswa)
//   GET  /exams/:id/attempts
//   PUT  /exam-attempts/:id/answers   (siswa)
//   POST /exam-attempts/:id/submit    (siswa)
//   GET  /exam-attempts/:id
func ExamUserRoutes(r fiber.Router, db *gorm.DB) {
	at := controller.NewAttemptController(db)
	onlyStudent := authMiddleware.OnlyStudent()

	r.Get("/exams/:id", at.ViewExam)
	r.Post("/exams/:id/attempts", onlyStudent, at.Start)
	r.Get("/exams/:id/attempts", at.ListMine)

	a := r.Group("/exam-attempts")
	a.Put("/:id/answers", onlyStudent, at.SaveAnswer)
	a.Post("/:id/submit", onlyStudent, at.Submit)
	a.Get("/:id", at.GetMine)
}
