package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/yourusername/challenge-api/internal/websocket"
)

// WSHandler обрабатывает WebSocket соединения живого счетчика голосов
type WSHandler struct {
	hub *websocket.Hub
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(hub *websocket.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleConnection апгрейдит HTTP-соединение до WebSocket.
// Аутентификация не требуется: канал только раздает публичный счетчик голосов.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	websocket.ServeWS(h.hub, c.Writer, c.Request)
}
