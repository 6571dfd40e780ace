package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/stockbill-api/internal/interfaces/http"
)

func TestRequestLogger_UnaLineaPorPeticion(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(apphttp.RequestLogger(&buf))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/nada", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	out := buf.String()
	assert.Contains(t, out, "| 200 |")
	assert.Contains(t, out, "GET /ping")
	assert.Contains(t, out, "| 404 |")
	assert.Contains(t, out, "GET /nada")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}
