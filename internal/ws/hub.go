// Package ws is the live-update transport: a websocket hub that fans every
// queue change out to all connected clients. The store pushes changes to the
// backend; the hub pushes them on to browsers, so nobody polls.
package ws

import (
	"encoding/json"
	"log"
)

// Message is the JSON envelope every broadcast travels in.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub. Call Run in its own goroutine before serving
// connections.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set. All membership changes and broadcasts go through
// this loop, so no locking is needed anywhere else.
func (h *Hub) Run() {
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
					// Slow client; drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast queues an event for every connected client. Implements
// core.Broadcaster.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(Message{Type: event, Data: payload})
	if err != nil {
		log.Printf("Error encoding broadcast %q: %v", event, err)
		return
	}
	h.broadcast <- data
}
