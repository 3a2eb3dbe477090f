package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ovenlab/bakehouse-backend/pkg/logger"
)

// Event is a server push frame. Cart change events deliberately carry no
// cart payload: clients re-fetch the cart so every tab converges on the
// same persisted state.
type Event struct {
	Type string `json:"type"`
}

const EventCartChanged = "cart_changed"

// Hub tracks connected clients per user and fans server events out to
// every session of a user. Multiple devices per account are supported.
type Hub struct {
	// UserID -> sessions
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	events     chan *userEvent

	mu sync.RWMutex
}

type userEvent struct {
	UserID  uint
	Message []byte
}

// Client is one WebSocket session.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		events:     make(chan *userEvent, 1024),
	}
}

// Run processes registrations and event fanout. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": h.sessionCount(client.UserID),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id":            client.UserID,
				"remaining_sessions": h.sessionCount(client.UserID),
			})

		case event := <-h.events:
			h.mu.RLock()
			for _, client := range h.clients[event.UserID] {
				select {
				case client.Send <- event.Message:
				default:
					// Send buffer full - drop the session asynchronously.
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": event.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NotifyCartChanged pushes a cart_changed event to every session of userID.
// Delivery is best effort: a full event queue drops the notification.
func (h *Hub) NotifyCartChanged(userID uint) {
	data, err := json.Marshal(Event{Type: EventCartChanged})
	if err != nil {
		logger.Error("Failed to marshal cart event", err, nil)
		return
	}

	select {
	case h.events <- &userEvent{UserID: userID, Message: data}:
	default:
		logger.Warn("Event channel full, cart notification dropped", map[string]interface{}{
			"user_id": userID,
		})
	}
}

// Register adds a client session.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client session.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether the user has at least one session.
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) sessionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
