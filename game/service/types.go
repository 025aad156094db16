package service

import (
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/engine"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/room"
)

// Outbound event names. Every message a client receives carries one of
// these in its envelope.
const (
	EventRoleAssigned     = "role_assigned"
	EventBoardState       = "board_state"
	EventMoveApplied      = "move_applied"
	EventInvalidMove      = "invalid_move"
	EventOccupancyChanged = "occupancy_changed"
	EventOpponentLeft     = "opponent_left"
	EventSeatAvailable    = "seat_available"
	EventError            = "error"
)

// Message is the envelope for every outbound message.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// RolePayload accompanies role_assigned.
type RolePayload struct {
	Role room.Role `json:"role"`
}

// BoardPayload accompanies board_state. Terminal is empty while the game is
// in progress.
type BoardPayload struct {
	Position engine.Position     `json:"position"`
	Terminal engine.TerminalKind `json:"terminal,omitempty"`
}

// MovePayload accompanies move_applied and invalid_move.
type MovePayload struct {
	Move engine.Move `json:"move"`
}

// OccupancyPayload accompanies occupancy_changed: 2 when both seats are
// filled, otherwise 1.
type OccupancyPayload struct {
	Count int `json:"count"`
}

// SeatPayload accompanies opponent_left and seat_available, naming the seat
// that vacated.
type SeatPayload struct {
	Seat engine.Seat `json:"seat"`
}

// ErrorPayload accompanies error.
type ErrorPayload struct {
	Reason string `json:"reason"`
}

// Fanout delivers outbound messages to connections. Implementations must be
// safe for concurrent use; the handler calls them from many connection
// goroutines.
type Fanout interface {
	// SendTo delivers msg to one specific connection.
	SendTo(connID string, msg Message)

	// Broadcast delivers msg to every connection subscribed to roomID.
	Broadcast(roomID string, msg Message)

	// Subscribe associates a connection with a room for Broadcast delivery.
	Subscribe(connID, roomID string)

	// Unsubscribe removes the association. Redundant calls are harmless.
	Unsubscribe(connID, roomID string)
}
