package route

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authMiddleware "pesantren_backend/internals/middlewares/auth"
)

func TestClassUserRoutes_ParentCannotJoin(t *testing.T) {
	const secret = "rahasia-test"
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":           uuid.NewString(),
		"student_id":   uuid.NewString(),
		"roles_global": []string{"parent"},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	app := fiber.New()
	u := app.Group("/api/u", authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{Secret: secret}))
	ClassUserRoutes(u, nil)

	body := `{"class_id":"` + uuid.NewString() + `","join_code":"ALFATIHAH"}`
	req := httptest.NewRequest("POST", "/api/u/classes/join", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
