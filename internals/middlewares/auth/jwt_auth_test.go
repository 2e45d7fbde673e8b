package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helperAuth "pesantren_backend/internals/helpers/auth"
)

const testSecret = "rahasia-test"

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newApp(opts AuthJWTOpts, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthJWT(opts)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		uid, err := helperAuth.GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		sid, _ := helperAuth.GetStudentIDFromToken(c)
		return c.JSON(fiber.Map{
			"user_id":    uid.String(),
			"student_id": sid.String(),
			"roles":      helperAuth.GetRolesGlobal(c),
		})
	})
	app.Get("/me", handlers...)
	return app
}

func call(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthJWT_PanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { AuthJWT(AuthJWTOpts{Secret: "  "}) })
}

func TestAuthJWT_Flow(t *testing.T) {
	uid, sid := uuid.New(), uuid.New()
	valid := sign(t, testSecret, jwt.MapClaims{
		"id":           uid.String(),
		"student_id":   sid.String(),
		"roles_global": []string{"Student"},
		"exp":          time.Now().Add(time.Hour).Unix(),
	})

	app := newApp(AuthJWTOpts{Secret: testSecret})

	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, ""))
	assert.Equal(t, fiber.StatusOK, call(t, app, valid))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, sign(t, "salah", jwt.MapClaims{"id": uid.String()})))

	expired := sign(t, testSecret, jwt.MapClaims{
		"id":  uid.String(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, expired))
}

func TestAuthJWT_Blacklist(t *testing.T) {
	uid := uuid.New()
	revoked := sign(t, testSecret, jwt.MapClaims{"sub": uid.String()})
	fine := sign(t, testSecret, jwt.MapClaims{"sub": uid.String(), "jti": "2"})

	app := newApp(AuthJWTOpts{
		Secret: testSecret,
		BlacklistChecker: func(raw string) (bool, error) {
			return raw == revoked, nil
		},
	})

	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, revoked))
	assert.Equal(t, fiber.StatusOK, call(t, app, fine))
}

func TestAuthJWT_CookieFallback(t *testing.T) {
	token := sign(t, testSecret, jwt.MapClaims{"user_id": uuid.NewString()})
	app := newApp(AuthJWTOpts{Secret: testSecret, AllowCookieFallback: true})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", "access_token="+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIsSchoolStaff(t *testing.T) {
	staff := sign(t, testSecret, jwt.MapClaims{"id": uuid.NewString(), "roles_global": []string{"teacher"}})
	student := sign(t, testSecret, jwt.MapClaims{"id": uuid.NewString(), "roles_global": []string{"student"}})
	noRole := sign(t, testSecret, jwt.MapClaims{"id": uuid.NewString()})

	app := newApp(AuthJWTOpts{Secret: testSecret}, IsSchoolStaff())

	assert.Equal(t, fiber.StatusOK, call(t, app, staff))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, student))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, noRole))
}

func TestOnlyStudent_RejectsParentToken(t *testing.T) {
	sid := uuid.NewString()
	student := sign(t, testSecret, jwt.MapClaims{"id": uuid.NewString(), "student_id": sid, "roles_global": []string{"student"}})
	parent := sign(t, testSecret, jwt.MapClaims{"id": uuid.NewString(), "student_id": sid, "roles_global": []string{"parent"}})

	app := newApp(AuthJWTOpts{Secret: testSecret}, OnlyStudent())

	assert.Equal(t, fiber.StatusOK, call(t, app, student))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, parent))
}
