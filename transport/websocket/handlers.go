package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/event"
)

const (
	listRoomsEvent  = event.ListRooms
	createRoomEvent = event.CreateRoom
	joinGameEvent   = event.JoinGame
	makeMoveEvent   = event.MakeMove
	resetGameEvent  = event.ResetGameInRoom
	leaveRoomEvent  = event.LeaveRoom
)

func (that *Server) handleListRooms(_ context.Context, connID string, _ json.RawMessage) error {
	that.router.ListRooms(connID)
	return nil
}

func (that *Server) handleCreateRoom(ctx context.Context, connID string, payload json.RawMessage) error {
	var req createRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.router.CreateRoom(ctx, connID, req.RoomName, req.PlayerName)
}

func (that *Server) handleJoinGame(ctx context.Context, connID string, payload json.RawMessage) error {
	var req joinGamePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.router.Join(ctx, connID, req.PlayerName, req.RoomID)
}

func (that *Server) handleMakeMove(ctx context.Context, connID string, payload json.RawMessage) error {
	var req makeMovePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.router.MakeMove(ctx, connID, req.Row, req.Col)
}

func (that *Server) handleResetGame(ctx context.Context, connID string, _ json.RawMessage) error {
	return that.router.ResetInRoom(ctx, connID)
}

func (that *Server) handleLeaveRoom(ctx context.Context, connID string, _ json.RawMessage) error {
	that.router.Leave(ctx, connID)
	return nil
}

func (that *Server) sendError(connID, reason string) {
	that.hub.To(connID, event.Error, event.ErrorPayload{Error: reason})
}
