package http

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

// RequestLogger una línea por petición: hora, status, latencia, método y ruta.
func RequestLogger(out io.Writer) fiber.Handler {
	return fiberlogger.New(fiberlogger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${error}\n",
		TimeFormat: time.RFC3339,
		Output:     out,
	})
}
