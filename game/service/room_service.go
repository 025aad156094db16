package service

import (
	"context"

	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/engine"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/room"
)

// RoomService defines all room coordination operations. The connection event
// methods never return errors: every outcome — including structural errors —
// is delivered to the relevant connections through the Fanout, and failures
// of one connection's request never affect another.
type RoomService interface {
	// Connection events
	CreateRoom(ctx context.Context, connID, roomID string)
	JoinRoom(ctx context.Context, connID, roomID string)
	Move(ctx context.Context, connID, roomID string, mv engine.Move)
	SeatResponse(ctx context.Context, connID, roomID string, accept bool)
	Disconnect(ctx context.Context, connID string)

	// Lobby surface
	CreateLobbyRoom(ctx context.Context, roomID string) (*room.Info, error)
	ListRooms(ctx context.Context) []room.Info
	GetRoom(ctx context.Context, roomID string) (*room.Info, error)
}
