package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	helperAuth "pesantren_backend/internals/helpers/auth"
)

// OnlyRoles: lolos jika roles_global token memuat salah satu role.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	if customMessage == "" {
		customMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		if len(helperAuth.GetRolesGlobal(c)) == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		if helperAuth.HasGlobalRole(c, roles...) {
			return c.Next()
		}
		log.Printf("[OnlyRoles] ditolak: path=%s roles=%v butuh=%s",
			c.Path(), helperAuth.GetRolesGlobal(c), strings.Join(roles, ","))
		return fiber.NewError(fiber.StatusForbidden, customMessage)
	}
}

// IsSchoolStaff: admin, dkm, atau guru.
func IsSchoolStaff() fiber.Handler {
	return OnlyRoles("Hanya admin atau guru yang boleh mengakses",
		helperAuth.RoleAdmin, helperAuth.RoleDKM, helperAuth.RoleTeacher)
}

// OnlyStudent: aksi tulis milik siswa (mulai/jawab/submit ujian, gabung kelas).
// Token orang tua juga membawa student_id, jadi tidak cukup cek locals.
func OnlyStudent() fiber.Handler {
	return OnlyRoles("Hanya akun siswa yang boleh melakukan aksi ini", helperAuth.RoleStudent)
}
