package route

import (
	"pesantren_backend/internals/features/school/grades/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Admin/guru (prefix /api/a):
//   POST   /grades
//   GET    /grades/students/:student_id
//   DELETE /grades/:id
//   POST   /students/:student_id/performance/recompute
func GradeAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewGradeController(db)

	g := r.Group("/grades")
	g.Post("/", ctl.Create)
	g.Get("/students/:student_id", ctl.ListByStudent)
	g.Delete("/:id", ctl.Delete)

	r.Post("/students/:student_id/performance/recompute", ctl.RecomputePerformance)
}

// User (prefix /api/u):
//   GET /me/grades
func GradeUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewGradeController(db)
	r.Get("/me/grades", ctl.MyGrades)
}
