package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"

	"jariyah/internal/models"
)

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

// Hub fans impact alerts out to every open connection of a donor. A donor
// may have several tabs open.
type Hub struct {
	Clients        map[string]map[*Client]bool
	Register       chan *Client
	Unregister     chan *Client
	BroadcastAlert chan models.ImpactAlert

	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		Clients:        make(map[string]map[*Client]bool),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		BroadcastAlert: make(chan models.ImpactAlert, 64),
		done:           make(chan struct{}),
	}
}

// Join registers client. It reports false once the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters client. It returns at once when the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Publish queues an alert without blocking the donation that caused it.
// Alerts are dropped when the queue is full.
func (h *Hub) Publish(alert models.ImpactAlert) {
	select {
	case h.BroadcastAlert <- alert:
	default:
		log.Println("Alert queue full, dropping alert for user", alert.UserID)
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.Clients[client.UserID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.Clients, client.UserID)
	}
	close(client.Send)
}

// Run serves the hub until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.Clients {
				for client := range clients {
					h.remove(client)
				}
			}
			return

		case client := <-h.Register:
			if h.Clients[client.UserID] == nil {
				h.Clients[client.UserID] = make(map[*Client]bool)
			}
			h.Clients[client.UserID][client] = true
			log.Printf("WebSocket Client registered for user %s", client.UserID)

		case client := <-h.Unregister:
			h.remove(client)
			log.Printf("WebSocket Client unregistered for user %s", client.UserID)

		case alert := <-h.BroadcastAlert:
			clients := h.Clients[alert.UserID]
			if len(clients) == 0 {
				continue
			}
			jsonData, err := json.Marshal(alert)
			if err != nil {
				log.Println("Failed to marshal impact alert:", err)
				continue
			}
			for client := range clients {
				select {
				case client.Send <- jsonData:
					log.Printf("Sent alert to user %s", client.UserID)
				default:
					h.remove(client)
				}
			}
		}
	}
}
