package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/event"
)

const defaultRoomName = "Quick match"

// Broadcaster delivers named events to connections. The transport implements
// it; the router is the only caller. Deliveries made while a room lock is
// held must not block on slow receivers, only enqueue.
type Broadcaster interface {
	To(connID, name string, payload any)
	ToMany(connIDs []string, name string, payload any)
	ToAll(name string, payload any)
}

type roomRegistry interface {
	CreateRoom(name string) *entity.Room
	Get(id string) (*entity.Room, error)
	ListJoinable() []entity.Summary
	FindAnyJoinable() *entity.Room
}

type roomDirectory interface {
	Upsert(ctx context.Context, summary entity.Summary) error
}

// SessionRouter maps connections to rooms and is the only component that
// mutates a room's member list, always in lockstep with its game engine.
// Rejections are returned to the caller; the transport surfaces them to the
// originating connection as error events.
type SessionRouter struct {
	logger      *slog.Logger
	registry    roomRegistry
	directory   roomDirectory
	broadcaster Broadcaster

	mu       sync.RWMutex
	sessions map[string]string // connID -> roomID
}

func NewSessionRouter(logger *slog.Logger, registry roomRegistry, directory roomDirectory, broadcaster Broadcaster) *SessionRouter {
	return &SessionRouter{
		logger:      logger,
		registry:    registry,
		directory:   directory,
		broadcaster: broadcaster,
		sessions:    make(map[string]string),
	}
}

// ListRooms sends the joinable-room listing to the requesting connection only.
func (that *SessionRouter) ListRooms(connID string) {
	rooms := that.registry.ListJoinable()
	that.broadcaster.To(connID, event.RoomsList, event.RoomsListPayload{Rooms: rooms})
}

// CreateRoom creates a named room and joins the caller as its first player.
// A caller already seated elsewhere leaves that room first, so a connection
// never occupies two rooms.
func (that *SessionRouter) CreateRoom(ctx context.Context, connID, roomName, playerName string) error {
	log := that.logger.With("method", "CreateRoom", "connID", connID)

	if playerName == "" {
		return apperror.ErrNameRequired
	}

	that.Leave(ctx, connID)

	room := that.registry.CreateRoom(roomName)

	room.Lock()

	player, err := room.Game.AddPlayer(connID, playerName)
	if err != nil {
		room.Unlock()
		return fmt.Errorf("failed to seat creator: %w", err)
	}

	room.AddConn(connID)
	that.setSession(connID, room.ID)

	that.broadcaster.To(connID, event.PlayerAssigned, player)
	that.broadcaster.To(connID, event.RoomCreated, event.RoomCreatedPayload{RoomID: room.ID, RoomName: room.Name})
	that.broadcaster.To(connID, event.Message, event.MessagePayload{
		Text: fmt.Sprintf("Room %q created. Waiting for another player...", room.Name),
	})

	summary := room.Summary()
	room.Unlock()

	that.broadcaster.ToAll(event.RoomsListChanged, nil)
	that.upsertDirectory(ctx, summary)

	log.Info("room created", "roomID", room.ID)

	return nil
}

// Join seats the caller in the requested room, or auto-matches when no room
// id is given: first joinable room wins, otherwise a default-named room is
// created. When the second player lands, game_started and the first
// game_state reach both members before any later move is processed.
func (that *SessionRouter) Join(ctx context.Context, connID, playerName, roomID string) error {
	log := that.logger.With("method", "Join", "connID", connID)

	if playerName == "" {
		return apperror.ErrNameRequired
	}

	that.Leave(ctx, connID)

	var room *entity.Room

	if roomID != "" {
		existing, err := that.registry.Get(roomID)
		if err != nil {
			return err
		}
		room = existing
	} else if room = that.registry.FindAnyJoinable(); room == nil {
		room = that.registry.CreateRoom(defaultRoomName)
	}

	room.Lock()

	player, err := room.Game.AddPlayer(connID, playerName)
	if err != nil {
		room.Unlock()

		// An auto-matched room can fill up between the registry scan and
		// the lock; fall back to a fresh room instead of failing the join.
		if roomID == "" {
			room = that.registry.CreateRoom(defaultRoomName)

			room.Lock()
			player, err = room.Game.AddPlayer(connID, playerName)
			if err != nil {
				room.Unlock()
				return fmt.Errorf("failed to seat player: %w", err)
			}
		} else {
			return fmt.Errorf("room %s: %w", roomID, err)
		}
	}

	room.AddConn(connID)
	that.setSession(connID, room.ID)

	that.broadcaster.To(connID, event.PlayerAssigned, player)

	if room.PlayerCount() == entity.MaxPlayers {
		members := room.Conns()
		that.broadcaster.ToMany(members, event.GameStarted, event.GameStartedPayload{Players: room.Game.Players()})
		that.broadcaster.ToMany(members, event.GameState, room.Game.Snapshot())
	} else {
		that.broadcaster.To(connID, event.Message, event.MessagePayload{Text: "Waiting for another player..."})
	}

	summary := room.Summary()
	room.Unlock()

	that.upsertDirectory(ctx, summary)

	log.Info("player joined room", "roomID", room.ID, "symbol", player.Symbol)

	return nil
}

// MakeMove validates and applies one move, then fans the fresh state out to
// the room. A terminal move additionally announces the result. Rejected moves
// leave the room untouched.
func (that *SessionRouter) MakeMove(ctx context.Context, connID string, row, col int) error {
	room, err := that.roomOf(connID)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()

	if err = room.Game.MakeMove(connID, row, col); err != nil {
		return err
	}

	members := room.Conns()
	that.broadcaster.ToMany(members, event.GameState, room.Game.Snapshot())

	if room.Game.IsEnded() {
		that.broadcaster.ToMany(members, event.GameEnded, event.GameEndedPayload{
			Winner: room.Game.Winner(),
			Board:  room.Game.Board(),
		})
	}

	return nil
}

// ResetInRoom restarts the match in the caller's room. The roster is kept;
// only the board, turn and outcome are cleared.
func (that *SessionRouter) ResetInRoom(ctx context.Context, connID string) error {
	room, err := that.roomOf(connID)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()

	room.Game.Reset()

	members := room.Conns()
	that.broadcaster.ToMany(members, event.GameState, room.Game.Snapshot())
	that.broadcaster.ToMany(members, event.Message, event.MessagePayload{Text: "The game has been reset. Next round!"})
	that.broadcaster.ToMany(members, event.GameReset, nil)

	return nil
}

// Leave removes the connection from its room, if any. An explicit leave and a
// dropped connection take exactly this path. The room is reset either way —
// an abandoned match is never resumed — and stays in the registry so its id
// remains joinable. Calling Leave for an unknown connection is a no-op.
func (that *SessionRouter) Leave(ctx context.Context, connID string) {
	log := that.logger.With("method", "Leave", "connID", connID)

	that.mu.Lock()
	roomID, ok := that.sessions[connID]
	if ok {
		delete(that.sessions, connID)
	}
	that.mu.Unlock()

	if !ok {
		return
	}

	room, err := that.registry.Get(roomID)
	if err != nil {
		log.Error("session pointed at a missing room", "roomID", roomID, "error", err)
		return
	}

	room.Lock()

	room.RemoveConn(connID)
	room.Game.RemovePlayer(connID)
	room.Game.Reset()

	if remaining := room.Conns(); len(remaining) > 0 {
		that.broadcaster.ToMany(remaining, event.Message, event.MessagePayload{
			Text: "Your opponent left. The game was reset, waiting for a new player...",
		})
		that.broadcaster.ToMany(remaining, event.GameState, room.Game.Snapshot())
	}

	summary := room.Summary()
	room.Unlock()

	that.broadcaster.ToAll(event.RoomsListChanged, nil)
	that.upsertDirectory(ctx, summary)

	log.Info("player left room", "roomID", roomID)
}

// HandleDisconnect is the transport's hook for a dropped connection.
func (that *SessionRouter) HandleDisconnect(ctx context.Context, connID string) {
	that.Leave(ctx, connID)
}

func (that *SessionRouter) roomOf(connID string) (*entity.Room, error) {
	that.mu.RLock()
	roomID, ok := that.sessions[connID]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrNotInRoom
	}

	room, err := that.registry.Get(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session room: %w", err)
	}

	return room, nil
}

func (that *SessionRouter) setSession(connID, roomID string) {
	that.mu.Lock()
	that.sessions[connID] = roomID
	that.mu.Unlock()
}

// upsertDirectory refreshes the Redis mirror. Best-effort: a directory
// failure must never fail or delay a room operation.
func (that *SessionRouter) upsertDirectory(ctx context.Context, summary entity.Summary) {
	if that.directory == nil {
		return
	}

	if err := that.directory.Upsert(ctx, summary); err != nil {
		that.logger.Error("failed to mirror room summary", "roomID", summary.ID, "error", err)
	}
}
