package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"Bearer":             "",
		"Basic abc":          "",
		"Bearer abc.def.ghi": "abc.def.ghi",
		"bearer  token ":     "token",
	}

	for header, want := range cases {
		app := fiber.New()
		var got string
		app.Get("/", func(c *fiber.Ctx) error {
			got = bearerToken(c)
			return nil
		})

		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		_, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, want, got, "header %q", header)
	}
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
