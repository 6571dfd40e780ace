// Package cache agrupa los usos de Redis: cliente, contador de rate limit y canal de eventos de stock.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/pkg/config"
	"github.com/jhoicas/stockbill-api/pkg/logger"
)

// NewClient conecta con Redis. Si no hay dirección configurada o el ping falla
// devuelve (nil, nil) y la API funciona sin Redis.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis no disponible, rate limit y eventos por redis desactivados")
		return nil, nil
	}
	return client, nil
}

// FixedWindowLimiter cuenta peticiones por clave en ventanas fijas (INCR + EXPIRE).
type FixedWindowLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// NewFixedWindowLimiter crea el limitador. limit <= 0 deja pasar todo.
func NewFixedWindowLimiter(client *redis.Client, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, limit: int64(limit), window: window, prefix: "rate_limit:"}
}

// Allow incrementa el contador de la clave y devuelve false si superó el límite de la ventana.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	k := l.prefix + key
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit: incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return true, fmt.Errorf("rate limit: expire: %w", err)
		}
	}
	return count <= l.limit, nil
}

var _ ports.StockEventPublisher = (*EventPublisher)(nil)

// StockChannel canal de Redis de los eventos de un usuario.
func StockChannel(userID string) string { return "stock:" + userID }

// EventPublisher publica cada evento en el canal de su usuario (PUBLISH).
type EventPublisher struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewEventPublisher crea el publicador.
func NewEventPublisher(client *redis.Client) *EventPublisher {
	return &EventPublisher{client: client, log: logger.Component("redis_events")}
}

// PublishStockUpdated implementa ports.StockEventPublisher en un pipeline.
func (p *EventPublisher) PublishStockUpdated(ctx context.Context, events []ports.StockEvent) {
	if len(events) == 0 {
		return
	}
	pipe := p.client.Pipeline()
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			p.log.Error().Err(err).Msg("serializar evento de stock")
			continue
		}
		pipe.Publish(ctx, StockChannel(ev.UserID), data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		p.log.Error().Err(err).Msg("publicar eventos en redis")
	}
}
