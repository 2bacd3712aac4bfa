package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/entity"
)

// Registry owns every room in the process. Rooms are created on demand and
// never removed; an emptied room is reset in place and stays joinable under
// the same id. The registry is injected wherever rooms are needed, never
// reached as a package global.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
	order []string
}

func New() *Registry {
	return &Registry{
		rooms: make(map[string]*entity.Room),
	}
}

// CreateRoom stores a new empty room under a fresh collision-resistant id.
func (that *Registry) CreateRoom(name string) *entity.Room {
	room := entity.NewRoom(uuid.NewString(), name)

	that.mu.Lock()
	that.rooms[room.ID] = room
	that.order = append(that.order, room.ID)
	that.mu.Unlock()

	return room
}

// Get resolves a room by id.
func (that *Registry) Get(id string) (*entity.Room, error) {
	that.mu.RLock()
	room, ok := that.rooms[id]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, id)
	}

	return room, nil
}

// ListJoinable returns the rooms with a free seat, in creation order.
func (that *Registry) ListJoinable() []entity.Summary {
	that.mu.RLock()
	defer that.mu.RUnlock()

	var summaries []entity.Summary

	for _, id := range that.order {
		room := that.rooms[id]

		room.Lock()
		summary := room.Summary()
		room.Unlock()

		if summary.PlayersCount < entity.MaxPlayers {
			summaries = append(summaries, summary)
		}
	}

	return summaries
}

// FindAnyJoinable returns the first room with a free seat, or nil.
func (that *Registry) FindAnyJoinable() *entity.Room {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, id := range that.order {
		room := that.rooms[id]

		room.Lock()
		count := room.PlayerCount()
		room.Unlock()

		if count < entity.MaxPlayers {
			return room
		}
	}

	return nil
}

// Len reports how many rooms exist, joinable or not.
func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
