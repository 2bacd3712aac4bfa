package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms-backend/testing/suite"
)

func TestRoomDirectory_Upsert(t *testing.T) {
	ctx, st := suite.New(t)

	directory := NewRoomDirectory(st.Storage)

	// Given: a room summary with one seat taken
	summary := entity.Summary{ID: "room-1", Name: "Friday night", PlayersCount: 1}

	// When: it is mirrored twice with a changed seat count
	require.NoError(t, directory.Upsert(ctx, summary))

	summary.PlayersCount = 2
	require.NoError(t, directory.Upsert(ctx, summary))

	// Then: the listing reflects the latest write (full rooms are hidden)
	rooms, err := directory.ListJoinable(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestRoomDirectory_ListJoinable(t *testing.T) {
	ctx, st := suite.New(t)

	directory := NewRoomDirectory(st.Storage)

	// Given: two joinable rooms and one full room
	require.NoError(t, directory.Upsert(ctx, entity.Summary{ID: "room-b", Name: "Beta", PlayersCount: 1}))
	require.NoError(t, directory.Upsert(ctx, entity.Summary{ID: "room-a", Name: "Alpha", PlayersCount: 0}))
	require.NoError(t, directory.Upsert(ctx, entity.Summary{ID: "room-c", Name: "Gamma", PlayersCount: 2}))

	// When: listing joinable rooms
	rooms, err := directory.ListJoinable(ctx)

	// Then: only rooms with a free seat come back, ordered by id
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "room-a", rooms[0].ID)
	assert.Equal(t, "room-b", rooms[1].ID)
}

func TestRoomDirectory_ListJoinable_Empty(t *testing.T) {
	ctx, st := suite.New(t)

	directory := NewRoomDirectory(st.Storage)

	rooms, err := directory.ListJoinable(ctx)

	require.NoError(t, err)
	assert.Empty(t, rooms)
}
