package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Nama locals yang diisi middleware AuthJWT
const (
	LocUserID      = "user_id"      // string uuid
	LocStudentID   = "student_id"   // string uuid (token siswa / orang tua)
	LocTeacherID   = "teacher_id"   // string uuid
	LocRolesGlobal = "roles_global" // []string
	LocJWTClaims   = "jwt_claims"
)

const (
	RoleAdmin   = "admin"
	RoleDKM     = "dkm"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

func uuidFromLocals(c *fiber.Ctx, key, label string) (uuid.UUID, error) {
	v := c.Locals(key)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, label+" tidak ditemukan di token")
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case uuid.UUID:
		return t, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, label+" format tidak didukung")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, label+" tidak valid")
	}
	return id, nil
}

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocUserID, "user_id")
}

// GetStudentIDFromToken dipakai endpoint /api/u/me/* dan alur ujian siswa.
func GetStudentIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuidFromLocals(c, LocStudentID, "student_id")
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Akun ini tidak terhubung ke data siswa")
	}
	return id, nil
}

// OptionalUserID: nil jika tidak ada (mis. recorded_by).
func OptionalUserID(c *fiber.Ctx) *uuid.UUID {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &id
}

// OptionalTeacherID: teacher_id dari token guru, nil untuk admin/dkm.
func OptionalTeacherID(c *fiber.Ctx) *uuid.UUID {
	id, err := uuidFromLocals(c, LocTeacherID, "teacher_id")
	if err != nil {
		return nil
	}
	return &id
}

func GetRolesGlobal(c *fiber.Ctx) []string {
	v := c.Locals(LocRolesGlobal)
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		if s := strings.ToLower(strings.TrimSpace(t)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func HasGlobalRole(c *fiber.Ctx, roles ...string) bool {
	have := GetRolesGlobal(c)
	for _, want := range roles {
		want = strings.ToLower(strings.TrimSpace(want))
		for _, h := range have {
			if h == want {
				return true
			}
		}
	}
	return false
}

func IsAdmin(c *fiber.Ctx) bool   { return HasGlobalRole(c, RoleAdmin, RoleDKM) }
func IsTeacher(c *fiber.Ctx) bool { return HasGlobalRole(c, RoleTeacher) }
