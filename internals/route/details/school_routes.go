// internals/route/details/school_routes.go
package details

import (
	attendanceService "pesantren_backend/internals/features/school/attendances/service"

	AttendanceRoutes "pesantren_backend/internals/features/school/attendances/route"
	ClassRoutes "pesantren_backend/internals/features/school/classes/route"
	ExamRoutes "pesantren_backend/internals/features/school/exams/route"
	GradeRoutes "pesantren_backend/internals/features/school/grades/route"
	StudentRoutes "pesantren_backend/internals/features/school/students/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/* ===================== USER (PRIVATE) ===================== */
// Token siswa / orang tua
func SchoolUserRoutes(r fiber.Router, db *gorm.DB, cache attendanceService.SummaryCache) {
	StudentRoutes.StudentUserRoutes(r, db)
	ClassRoutes.ClassUserRoutes(r, db)
	AttendanceRoutes.AttendanceUserRoutes(r, db, cache)
	GradeRoutes.GradeUserRoutes(r, db)
	ExamRoutes.ExamUserRoutes(r, db)
}

/* ===================== ADMIN ===================== */
// Admin, dkm, guru
func SchoolAdminRoutes(r fiber.Router, db *gorm.DB, cache attendanceService.SummaryCache) {
	StudentRoutes.StudentAdminRoutes(r, db)
	ClassRoutes.ClassAdminRoutes(r, db)
	AttendanceRoutes.AttendanceAdminRoutes(r, db, cache)
	GradeRoutes.GradeAdminRoutes(r, db)
	ExamRoutes.ExamAdminRoutes(r, db)
}
