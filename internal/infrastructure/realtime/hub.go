// Package realtime difunde los eventos de stock por websocket a las sesiones abiertas de cada usuario.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/pkg/logger"
)

var _ ports.StockEventPublisher = (*Hub)(nil)

// Conn lo mínimo que el hub necesita de una conexión websocket.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client conexión de un usuario autenticado.
type Client struct {
	UserID string
	Conn   Conn
}

type message struct {
	userID  string
	payload []byte
}

// Hub registra las conexiones por usuario y serializa todas las escrituras en Run.
type Hub struct {
	clients    map[string]map[Conn]struct{}
	register   chan Client
	unregister chan Client
	broadcast  chan message
	done       chan struct{}
	mu         sync.RWMutex
	log        zerolog.Logger
}

// NewHub crea el hub. Hay que lanzar Run en una goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[Conn]struct{}),
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
		log:        logger.Component("ws_hub"),
	}
}

// Run atiende altas, bajas y difusiones hasta que ctx se cancela; al salir cierra todas las conexiones.
// Run se lanza una sola vez por hub.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for userID, conns := range h.clients {
				for c := range conns {
					_ = c.Close()
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return

		case cl := <-h.register:
			h.mu.Lock()
			if h.clients[cl.UserID] == nil {
				h.clients[cl.UserID] = make(map[Conn]struct{})
			}
			h.clients[cl.UserID][cl.Conn] = struct{}{}
			h.mu.Unlock()
			h.log.Debug().Str("user_id", cl.UserID).Msg("cliente ws conectado")

		case cl := <-h.unregister:
			h.mu.Lock()
			h.drop(cl.UserID, cl.Conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients[msg.userID] {
				if err := c.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					h.log.Debug().Err(err).Str("user_id", msg.userID).Msg("cliente ws descartado")
					h.drop(msg.userID, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop requiere h.mu tomado.
func (h *Hub) drop(userID string, c Conn) {
	conns, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := conns[c]; ok {
		delete(conns, c)
		_ = c.Close()
	}
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
}

// Register da de alta una conexión; bloquea hasta que Run la atiende.
// Con el hub detenido la conexión se cierra y se devuelve false.
func (h *Hub) Register(c Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		_ = c.Conn.Close()
		return false
	}
}

// Unregister da de baja y cierra la conexión. Tras el apagado no hace nada: Run ya cerró todas.
func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connections número de conexiones abiertas del usuario.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// PublishStockUpdated envía cada evento solo a las sesiones de su usuario.
// Si la cola está llena el evento se descarta para no frenar la petición HTTP.
func (h *Hub) PublishStockUpdated(_ context.Context, events []ports.StockEvent) {
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			h.log.Error().Err(err).Msg("serializar evento de stock")
			continue
		}
		select {
		case h.broadcast <- message{userID: ev.UserID, payload: payload}:
		default:
			h.log.Warn().Str("product_id", ev.ProductID).Msg("cola ws llena, evento descartado")
		}
	}
}
