package websocket

import "encoding/json"

// Message is the wire envelope: a named event plus its raw payload. The same
// shape is used in both directions.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type createRoomPayload struct {
	RoomName   string `json:"room_name"`
	PlayerName string `json:"player_name"`
}

type joinGamePayload struct {
	PlayerName string `json:"player_name"`
	RoomID     string `json:"room_id,omitempty"`
}

type makeMovePayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
