package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/event"
)

type routerCall struct {
	method string
	args   []any
}

type fakeRouter struct {
	calls []routerCall
	err   error
}

func (that *fakeRouter) ListRooms(connID string) {
	that.calls = append(that.calls, routerCall{method: "ListRooms", args: []any{connID}})
}

func (that *fakeRouter) CreateRoom(_ context.Context, connID, roomName, playerName string) error {
	that.calls = append(that.calls, routerCall{method: "CreateRoom", args: []any{connID, roomName, playerName}})
	return that.err
}

func (that *fakeRouter) Join(_ context.Context, connID, playerName, roomID string) error {
	that.calls = append(that.calls, routerCall{method: "Join", args: []any{connID, playerName, roomID}})
	return that.err
}

func (that *fakeRouter) MakeMove(_ context.Context, connID string, row, col int) error {
	that.calls = append(that.calls, routerCall{method: "MakeMove", args: []any{connID, row, col}})
	return that.err
}

func (that *fakeRouter) ResetInRoom(_ context.Context, connID string) error {
	that.calls = append(that.calls, routerCall{method: "ResetInRoom", args: []any{connID}})
	return that.err
}

func (that *fakeRouter) Leave(_ context.Context, connID string) {
	that.calls = append(that.calls, routerCall{method: "Leave", args: []any{connID}})
}

func (that *fakeRouter) HandleDisconnect(_ context.Context, connID string) {
	that.calls = append(that.calls, routerCall{method: "HandleDisconnect", args: []any{connID}})
}

func newTestServer(t *testing.T) (*Server, *fakeRouter) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := &fakeRouter{}

	return New(logger, router, NewHub(logger)), router
}

func TestServer_RegistersAllInboundEvents(t *testing.T) {
	server, _ := newTestServer(t)

	for _, name := range []string{
		event.ListRooms,
		event.CreateRoom,
		event.JoinGame,
		event.MakeMove,
		event.ResetGameInRoom,
		event.LeaveRoom,
	} {
		assert.Contains(t, server.handlers, name)
	}
}

func TestServer_HandleCreateRoom(t *testing.T) {
	t.Run("Passes the parsed payload to the router", func(t *testing.T) {
		server, router := newTestServer(t)

		payload := json.RawMessage(`{"room_name":"My room","player_name":"Alice"}`)
		err := server.handleCreateRoom(context.Background(), "conn-a", payload)

		require.NoError(t, err)
		require.Len(t, router.calls, 1)
		assert.Equal(t, routerCall{method: "CreateRoom", args: []any{"conn-a", "My room", "Alice"}}, router.calls[0])
	})

	t.Run("Rejects a malformed payload before touching the router", func(t *testing.T) {
		server, router := newTestServer(t)

		err := server.handleCreateRoom(context.Background(), "conn-a", json.RawMessage(`{`))

		require.Error(t, err)
		assert.Empty(t, router.calls)
	})
}

func TestServer_HandleJoinGame(t *testing.T) {
	t.Run("An omitted room id means auto-match", func(t *testing.T) {
		server, router := newTestServer(t)

		payload := json.RawMessage(`{"player_name":"Bob"}`)
		err := server.handleJoinGame(context.Background(), "conn-b", payload)

		require.NoError(t, err)
		require.Len(t, router.calls, 1)
		assert.Equal(t, routerCall{method: "Join", args: []any{"conn-b", "Bob", ""}}, router.calls[0])
	})

	t.Run("A given room id is forwarded", func(t *testing.T) {
		server, router := newTestServer(t)

		payload := json.RawMessage(`{"player_name":"Bob","room_id":"room-1"}`)
		err := server.handleJoinGame(context.Background(), "conn-b", payload)

		require.NoError(t, err)
		assert.Equal(t, routerCall{method: "Join", args: []any{"conn-b", "Bob", "room-1"}}, router.calls[0])
	})
}

func TestServer_HandleMakeMove(t *testing.T) {
	server, router := newTestServer(t)

	payload := json.RawMessage(`{"row":2,"col":1}`)
	err := server.handleMakeMove(context.Background(), "conn-a", payload)

	require.NoError(t, err)
	assert.Equal(t, routerCall{method: "MakeMove", args: []any{"conn-a", 2, 1}}, router.calls[0])
}

func TestServer_HandleEventsWithoutPayload(t *testing.T) {
	server, router := newTestServer(t)

	require.NoError(t, server.handleListRooms(context.Background(), "conn-a", nil))
	require.NoError(t, server.handleResetGame(context.Background(), "conn-a", nil))
	require.NoError(t, server.handleLeaveRoom(context.Background(), "conn-a", nil))

	require.Len(t, router.calls, 3)
	assert.Equal(t, "ListRooms", router.calls[0].method)
	assert.Equal(t, "ResetInRoom", router.calls[1].method)
	assert.Equal(t, "Leave", router.calls[2].method)
}
