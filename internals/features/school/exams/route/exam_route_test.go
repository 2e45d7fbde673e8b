package route

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authMiddleware "pesantren_backend/internals/middlewares/auth"
)

const testSecret = "rahasia-test"

func parentToken(t *testing.T) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":           uuid.NewString(),
		"student_id":   uuid.NewString(),
		"roles_global": []string{"parent"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestExamUserRoutes_ParentCannotWrite(t *testing.T) {
	app := fiber.New()
	u := app.Group("/api/u", authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{Secret: testSecret}))
	ExamUserRoutes(u, nil)

	token := parentToken(t)
	id := uuid.NewString()
	for _, rt := range []struct{ method, path string }{
		{"POST", "/api/u/exams/" + id + "/attempts"},
		{"PUT", "/api/u/exam-attempts/" + id + "/answers"},
		{"POST", "/api/u/exam-attempts/" + id + "/submit"},
	} {
		req := httptest.NewRequest(rt.method, rt.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, rt.path)
	}
}
