package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub tracks every live connection by its opaque id and implements the
// router's broadcaster boundary. Deliveries only enqueue into the client's
// buffered send channel, so a fan-out performed inside a room's critical
// section never blocks on a slow receiver; a client that cannot keep up has
// the message dropped and logged instead.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]*Client),
	}
}

func (that *Hub) add(client *Client) {
	that.mu.Lock()
	that.clients[client.id] = client
	that.mu.Unlock()
}

func (that *Hub) remove(connID string) {
	that.mu.Lock()
	client, ok := that.clients[connID]
	if ok {
		delete(that.clients, connID)
	}
	that.mu.Unlock()

	if ok {
		close(client.send)
	}
}

// To delivers one event to one connection.
func (that *Hub) To(connID, name string, payload any) {
	raw, err := encode(name, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", name, "error", err)
		return
	}

	that.mu.RLock()
	client, ok := that.clients[connID]
	that.mu.RUnlock()

	if !ok {
		return
	}

	that.deliver(client, name, raw)
}

// ToMany delivers one event to the given connections, in the given order.
func (that *Hub) ToMany(connIDs []string, name string, payload any) {
	raw, err := encode(name, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", name, "error", err)
		return
	}

	for _, connID := range connIDs {
		that.mu.RLock()
		client, ok := that.clients[connID]
		that.mu.RUnlock()

		if !ok {
			continue
		}

		that.deliver(client, name, raw)
	}
}

// ToAll delivers one event to every live connection. Used only for the
// rooms_list_changed signal.
func (that *Hub) ToAll(name string, payload any) {
	raw, err := encode(name, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", name, "error", err)
		return
	}

	that.mu.RLock()
	clients := make([]*Client, 0, len(that.clients))
	for _, client := range that.clients {
		clients = append(clients, client)
	}
	that.mu.RUnlock()

	for _, client := range clients {
		that.deliver(client, name, raw)
	}
}

func (that *Hub) deliver(client *Client, name string, raw []byte) {
	select {
	case client.send <- raw:
	default:
		that.logger.Warn("send buffer full, dropping event", "connID", client.id, "event", name)
	}
}

func encode(name string, payload any) ([]byte, error) {
	msg := Message{Event: name}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = raw
	}

	return json.Marshal(msg)
}
