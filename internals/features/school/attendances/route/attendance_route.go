package route

import (
	"pesantren_backend/internals/features/school/attendances/controller"
	"pesantren_backend/internals/features/school/attendances/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Admin/guru (prefix /api/a/attendances):
//   POST /classes/:class_id/batch
//   GET  /classes/:class_id/summary
//   GET  /students/:student_id/summary
//   GET  /students/:student_id/monthly
func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB, cache service.SummaryCache) {
	ctl := controller.NewAttendanceController(db, cache)

	g := r.Group("/attendances")
	g.Post("/classes/:class_id/batch", ctl.RecordBatch)
	g.Get("/classes/:class_id/summary", ctl.ClassSummary)
	g.Get("/students/:student_id/summary", ctl.StudentSummary)
	g.Get("/students/:student_id/monthly", ctl.StudentMonthly)
}

// User (prefix /api/u):
//   GET /me/attendance
//   GET /me/attendance/monthly
func AttendanceUserRoutes(r fiber.Router, db *gorm.DB, cache service.SummaryCache) {
	ctl := controller.NewAttendanceController(db, cache)

	r.Get("/me/attendance", ctl.MySummary)
	r.Get("/me/attendance/monthly", ctl.MyMonthly)
}
