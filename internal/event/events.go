package event

import "github.com/rocketscienceinc/tictactoe-rooms-backend/internal/entity"

// Inbound event names, one per client action.
const (
	ListRooms       = "list_rooms"
	CreateRoom      = "create_room"
	JoinGame        = "join_game"
	MakeMove        = "make_move"
	ResetGameInRoom = "reset_game_in_room"
	LeaveRoom       = "leave_room"
)

// Outbound event names. RoomsListChanged is a signal only: clients re-issue
// list_rooms to fetch the fresh listing.
const (
	PlayerAssigned   = "player_assigned"
	RoomCreated      = "room_created"
	RoomsList        = "rooms_list"
	RoomsListChanged = "rooms_list_changed"
	GameStarted      = "game_started"
	GameState        = "game_state"
	GameEnded        = "game_ended"
	GameReset        = "game_reset"
	Message          = "message"
	Error            = "error"
)

type RoomCreatedPayload struct {
	RoomID   string `json:"room_id"`
	RoomName string `json:"room_name"`
}

type RoomsListPayload struct {
	Rooms []entity.Summary `json:"rooms"`
}

type GameStartedPayload struct {
	Players []*entity.Player `json:"players"`
}

type GameEndedPayload struct {
	Winner *entity.Player `json:"winner"`
	Board  entity.Board   `json:"board"`
}

type MessagePayload struct {
	Text string `json:"text"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
