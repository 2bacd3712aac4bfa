package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type sessionRouter interface {
	ListRooms(connID string)
	CreateRoom(ctx context.Context, connID, roomName, playerName string) error
	Join(ctx context.Context, connID, playerName, roomID string) error
	MakeMove(ctx context.Context, connID string, row, col int) error
	ResetInRoom(ctx context.Context, connID string) error
	Leave(ctx context.Context, connID string)
	HandleDisconnect(ctx context.Context, connID string)
}

// Server accepts WebSocket connections, assigns each an opaque connection id
// and feeds inbound events to the session router. Everything outbound flows
// through the hub.
type Server struct {
	logger *slog.Logger
	router sessionRouter
	hub    *Hub

	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, connID string, payload json.RawMessage) error
}

func New(logger *slog.Logger, router sessionRouter, hub *Hub) *Server {
	server := &Server{
		logger: logger,
		router: router,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]func(context.Context, string, json.RawMessage) error),
	}

	server.handlers[listRoomsEvent] = server.handleListRooms
	server.handlers[createRoomEvent] = server.handleCreateRoom
	server.handlers[joinGameEvent] = server.handleJoinGame
	server.handlers[makeMoveEvent] = server.handleMakeMove
	server.handlers[resetGameEvent] = server.handleResetGame
	server.handlers[leaveRoomEvent] = server.handleLeaveRoom

	return server
}

// Start runs the WebSocket endpoint until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection upgrades the request and runs the read loop until the peer
// goes away. A dropped connection is handled exactly like an explicit leave.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(uuid.NewString(), conn)
	that.hub.add(client)

	log.Info("connection established", "connID", client.id)

	go client.writeLoop()

	that.readLoop(ctx, client)

	that.hub.remove(client.id)
	that.router.HandleDisconnect(ctx, client.id)

	log.Info("connection closed", "connID", client.id)
}

// readLoop consumes inbound events in arrival order. A malformed or unknown
// event is answered with a generic error and never tears the connection down.
func (that *Server) readLoop(ctx context.Context, client *Client) {
	log := that.logger.With("method", "readLoop", "connID", client.id)

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		var msg Message
		if err = json.Unmarshal(raw, &msg); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError(client.id, "malformed message")
			continue
		}

		handler, ok := that.handlers[msg.Event]
		if !ok {
			log.Error("unknown event", "event", msg.Event)
			that.sendError(client.id, "unknown event: "+msg.Event)
			continue
		}

		if err = handler(ctx, client.id, msg.Payload); err != nil {
			log.Info("event rejected", "event", msg.Event, "reason", err)
			that.sendError(client.id, err.Error())
		}
	}
}
