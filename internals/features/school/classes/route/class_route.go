package route

import (
	"pesantren_backend/internals/features/school/classes/controller"
	"pesantren_backend/internals/middlewares"
	authMiddleware "pesantren_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Admin (prefix /api/a/classes):
//   POST   /                                  create
//   GET    /                                  list
//   GET    /:id                               detail
//   PATCH  /:id                               update
//   DELETE /:id                               soft delete
//   PUT    /:id/join-code | DELETE /:id/join-code
//   POST   /:id/enrollments                   enroll
//   GET    /:id/enrollments                   list enrollment
//   POST   /:id/students/:student_id/remove   remove
//   POST   /:id/recount                       sinkron counter
//   POST   /enrollments/transfer
//   POST   /enrollments/:enrollment_id/reactivate
//   POST   /enrollments/:enrollment_id/complete
func ClassAdminRoutes(r fiber.Router, db *gorm.DB) {
	cls := controller.NewClassController(db)
	enr := controller.NewEnrollmentController(db)

	g := r.Group("/classes")

	// statis dulu supaya tidak ketangkap /:id
	g.Post("/enrollments/transfer", enr.Transfer)
	g.Post("/enrollments/:enrollment_id/reactivate", enr.Reactivate)
	g.Post("/enrollments/:enrollment_id/complete", enr.Complete)

	g.Post("/", cls.Create)
	g.Get("/", cls.List)
	g.Get("/:id", cls.Get)
	g.Patch("/:id", cls.Patch)
	g.Delete("/:id", cls.Delete)
	g.Put("/:id/join-code", cls.SetJoinCode)
	g.Delete("/:id/join-code", cls.ClearJoinCode)

	g.Post("/:id/enrollments", enr.Enroll)
	g.Get("/:id/enrollments", enr.List)
	g.Post("/:id/students/:student_id/remove", enr.Remove)
	g.Post("/:id/recount", enr.Recount)
}

// User (prefix /api/u):
//   POST /classes/join (siswa)
func ClassUserRoutes(r fiber.Router, db *gorm.DB) {
	enr := controller.NewEnrollmentController(db)
	r.Post("/classes/join", middlewares.JoinClassRateLimiter(), authMiddleware.OnlyStudent(), enr.JoinByCode)
}
