package route

import (
	"pesantren_backend/internals/features/school/students/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Admin (prefix /api/a/students): POST / | GET / | GET /:id | PATCH /:id | DELETE /:id
func StudentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentController(db)

	g := r.Group("/students")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
}

// User: GET /me/profile
func StudentUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentController(db)
	r.Get("/me/profile", ctl.Me)
}
