package http

import (
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/realtime"
)

// WSUpgrade exige un upgrade websocket autenticado. El token llega en ?token= porque
// el navegador no permite cabeceras propias en el handshake; también se acepta Authorization.
func WSUpgrade(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.Status(fiber.StatusUpgradeRequired).JSON(dto.ErrorResponse{Code: "UPGRADE_REQUIRED", Error: "se requiere websocket"})
		}
		token := c.Query("token")
		if token == "" {
			token = strings.TrimSpace(strings.TrimPrefix(c.Get("Authorization"), "Bearer "))
		}
		return authenticate(c, jwtSecret, token)
	}
}

// StockEvents registra la conexión en el hub y la mantiene hasta que el cliente cierra.
func StockEvents(hub *realtime.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(LocalUserID).(string)
		client := realtime.Client{UserID: userID, Conn: conn}
		if !hub.Register(client) {
			return
		}
		defer hub.Unregister(client)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
