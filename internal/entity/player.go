package entity

// Player is one seat in a game. The ID is the opaque connection identifier
// handed in by the transport; the core never sees the connection itself.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
