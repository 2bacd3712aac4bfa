package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/entity"
)

func seat(t *testing.T, room *entity.Room, connID, name string) {
	t.Helper()

	room.Lock()
	defer room.Unlock()

	_, err := room.Game.AddPlayer(connID, name)
	require.NoError(t, err)
	room.AddConn(connID)
}

func TestRegistry_CreateRoomAndGet(t *testing.T) {
	// Given: an empty registry
	reg := New()

	// When: a room is created and resolved by id
	room := reg.CreateRoom("Friday night")
	found, err := reg.Get(room.ID)

	// Then: the same room comes back and ids are unique
	require.NoError(t, err)
	assert.Same(t, room, found)
	assert.NotEqual(t, room.ID, reg.CreateRoom("Another").ID)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := New()

	_, err := reg.Get("no-such-room")

	require.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestRegistry_ListJoinable(t *testing.T) {
	// Given: three rooms, one of them full
	reg := New()
	first := reg.CreateRoom("first")
	full := reg.CreateRoom("full")
	last := reg.CreateRoom("last")

	seat(t, full, "conn-a", "Alice")
	seat(t, full, "conn-b", "Bob")
	seat(t, last, "conn-c", "Carol")

	// When: listing joinable rooms
	summaries := reg.ListJoinable()

	// Then: the full room is filtered out and creation order is kept
	require.Len(t, summaries, 2)
	assert.Equal(t, first.ID, summaries[0].ID)
	assert.Equal(t, 0, summaries[0].PlayersCount)
	assert.Equal(t, last.ID, summaries[1].ID)
	assert.Equal(t, 1, summaries[1].PlayersCount)
}

func TestRegistry_FindAnyJoinable(t *testing.T) {
	t.Run("Returns the first room with a free seat", func(t *testing.T) {
		// Given: an older full room and a newer open one
		reg := New()
		full := reg.CreateRoom("full")
		open := reg.CreateRoom("open")

		seat(t, full, "conn-a", "Alice")
		seat(t, full, "conn-b", "Bob")

		// When: auto-matching
		room := reg.FindAnyJoinable()

		// Then: the open room is picked
		require.NotNil(t, room)
		assert.Equal(t, open.ID, room.ID)
	})

	t.Run("Returns nil when every room is full", func(t *testing.T) {
		reg := New()
		full := reg.CreateRoom("full")

		seat(t, full, "conn-a", "Alice")
		seat(t, full, "conn-b", "Bob")

		assert.Nil(t, reg.FindAnyJoinable())
	})
}

func TestRegistry_RoomsAreNeverRemoved(t *testing.T) {
	// Given: a room that filled up and then emptied out
	reg := New()
	room := reg.CreateRoom("sticky")

	seat(t, room, "conn-a", "Alice")
	seat(t, room, "conn-b", "Bob")

	room.Lock()
	room.RemoveConn("conn-a")
	room.RemoveConn("conn-b")
	room.Game.RemovePlayer("conn-a")
	room.Game.RemovePlayer("conn-b")
	room.Game.Reset()
	room.Unlock()

	// Then: the room is still registered and joinable again
	found, err := reg.Get(room.ID)
	require.NoError(t, err)
	assert.Same(t, room, found)
	require.Len(t, reg.ListJoinable(), 1)
	assert.Equal(t, 1, reg.Len())
}
