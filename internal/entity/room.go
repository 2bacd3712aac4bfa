package entity

import "sync"

// Room is one match context: a game engine plus the connections currently
// joined to it. The embedded mutex guards the game and the member list
// together; callers lock the room around every read-modify-write and the
// broadcasts that report it, so members observe state changes in mutation
// order. Rooms are reset when they empty out, never deleted, so a room id
// stays joinable for its whole process lifetime.
type Room struct {
	sync.Mutex

	ID   string
	Name string
	Game *Game

	conns []string
}

func NewRoom(id, name string) *Room {
	return &Room{
		ID:   id,
		Name: name,
		Game: NewGame(),
	}
}

// Summary is the listing view of a room, shaped for the rooms_list event.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PlayersCount int    `json:"players_count"`
}

// AddConn records a joined connection. Caller must hold the room lock.
func (that *Room) AddConn(connID string) {
	that.conns = append(that.conns, connID)
}

// RemoveConn forgets a connection; reports whether it was a member.
// Caller must hold the room lock.
func (that *Room) RemoveConn(connID string) bool {
	for i, id := range that.conns {
		if id != connID {
			continue
		}

		that.conns = append(that.conns[:i], that.conns[i+1:]...)

		return true
	}

	return false
}

// Conns returns a copy of the member connection ids in join order.
// Caller must hold the room lock.
func (that *Room) Conns() []string {
	conns := make([]string, len(that.conns))
	copy(conns, that.conns)

	return conns
}

// PlayerCount reports the joined members. Caller must hold the room lock.
func (that *Room) PlayerCount() int {
	return len(that.conns)
}

// Summary captures the listing view. Caller must hold the room lock.
func (that *Room) Summary() Summary {
	return Summary{
		ID:           that.ID,
		Name:         that.Name,
		PlayersCount: len(that.conns),
	}
}
