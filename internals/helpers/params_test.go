package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUUIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/classes/:id", func(c *fiber.Ctx) error {
		id, err := ParseUUIDParam(c, "id")
		if err != nil {
			return FromFiberError(c, err)
		}
		return c.SendString(id.String())
	})

	good := uuid.New()
	resp, err := app.Test(httptest.NewRequest("GET", "/classes/"+good.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, bad := range []string{"abc", uuid.Nil.String()} {
		resp, err := app.Test(httptest.NewRequest("GET", "/classes/"+bad, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, bad)
	}
}

func TestParseUUIDQueryAndQueryInt(t *testing.T) {
	app := fiber.New()
	var (
		gotID  *uuid.UUID
		gotErr error
		gotN   int
	)
	app.Get("/", func(c *fiber.Ctx) error {
		gotID, gotErr = ParseUUIDQuery(c, "class_id")
		gotN = QueryInt(c, "months", 6)
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Nil(t, gotID)
	assert.NoError(t, gotErr)
	assert.Equal(t, 6, gotN)

	id := uuid.New()
	_, err = app.Test(httptest.NewRequest("GET", "/?class_id="+id.String()+"&months=12", nil))
	require.NoError(t, err)
	require.NotNil(t, gotID)
	assert.Equal(t, id, *gotID)
	assert.Equal(t, 12, gotN)

	_, err = app.Test(httptest.NewRequest("GET", "/?class_id=nope&months=x", nil))
	require.NoError(t, err)
	assert.Error(t, gotErr)
	assert.Equal(t, 6, gotN)
}
