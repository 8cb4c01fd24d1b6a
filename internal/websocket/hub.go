package websocket

import (
	"context"
	"encoding/json"
	"log"
)

// TotalVotesMessage — сообщение живого счетчика голосов
type TotalVotesMessage struct {
	Type    string `json:"type"`
	WeekKey string `json:"week_key"`
	Total   int    `json:"total"`
}

// Hub раздает обновления счетчика голосов всем подключенным клиентам.
// Клиенты только слушают: входящие сообщения от них игнорируются.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run обрабатывает регистрацию клиентов и рассылку до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Клиент не успевает читать — отключаем, чтобы не копить буферы
					delete(h.clients, client)
					close(client.send)
				}
			}
		case <-ctx.Done():
			log.Println("[WSHub] Завершение работы хаба")
			for client := range h.clients {
				close(client.send)
			}
			return
		}
	}
}

// BroadcastTotal рассылает обновленный счетчик голосов недели.
// Реализует service.VoteBroadcaster.
func (h *Hub) BroadcastTotal(weekKey string, total int) {
	data, err := json.Marshal(TotalVotesMessage{
		Type:    "total_votes",
		WeekKey: weekKey,
		Total:   total,
	})
	if err != nil {
		log.Printf("[WSHub] Ошибка сериализации сообщения счетчика: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// Канал рассылки переполнен: счетчик скоро обновится снова, потеря не критична
		log.Println("[WSHub] Канал рассылки переполнен, сообщение пропущено")
	}
}
