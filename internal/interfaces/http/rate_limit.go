package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
)

// RateLimiter cuenta peticiones por clave. Lo implementa cache.FixedWindowLimiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit limita por IP las rutas del grupo. Sin limiter (Redis no disponible) deja pasar todo;
// si Redis falla a mitad de camino también deja pasar y lo registra.
func RateLimit(limiter RateLimiter, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		ok, err := limiter.Allow(c.UserContext(), scope+":"+c.IP())
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limit no disponible")
			return c.Next()
		}
		if !ok {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Error: "demasiadas peticiones, intente más tarde"})
		}
		return c.Next()
	}
}
