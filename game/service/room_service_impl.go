package service

import (
	"context"
	"log"
	"sync"

	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/engine"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/room"
)

// roomServiceImpl implements the RoomService interface
type roomServiceImpl struct {
	registry *room.Registry
	fanout   Fanout

	// joined is the reverse index from connection to room, so disconnects
	// resolve without scanning every room.
	mu     sync.RWMutex
	joined map[string]string
}

// NewRoomService creates a new room service instance
func NewRoomService(registry *room.Registry, fanout Fanout) RoomService {
	return &roomServiceImpl{
		registry: registry,
		fanout:   fanout,
		joined:   make(map[string]string),
	}
}

// CreateRoom creates a room and admits the creator as its first member.
func (s *roomServiceImpl) CreateRoom(ctx context.Context, connID, roomID string) {
	r, err := s.registry.Create(roomID)
	if err != nil {
		s.sendError(connID, "Room already exists")
		return
	}
	s.admit(connID, r.ID())
}

// JoinRoom admits a connection to an existing room.
func (s *roomServiceImpl) JoinRoom(ctx context.Context, connID, roomID string) {
	if _, err := s.registry.Get(roomID); err != nil {
		s.sendError(connID, "Room does not exist")
		return
	}
	s.admit(connID, roomID)
}

// admit runs the shared join flow: detach from any previous room, seat or
// observe the connection, and emit the role, board, and occupancy messages.
func (s *roomServiceImpl) admit(connID, roomID string) {
	s.mu.Lock()
	prev, had := s.joined[connID]
	if had && prev != roomID {
		delete(s.joined, connID)
	}
	s.mu.Unlock()
	if had && prev != roomID {
		s.depart(connID, prev)
	}

	r, err := s.registry.Get(roomID)
	if err != nil {
		s.sendError(connID, "Room does not exist")
		return
	}

	res, err := r.Join(connID)
	if err != nil {
		// The room was emptied and removed between lookup and join.
		s.sendError(connID, "Room does not exist")
		return
	}

	s.mu.Lock()
	s.joined[connID] = roomID
	s.mu.Unlock()

	s.fanout.Subscribe(connID, roomID)
	s.fanout.SendTo(connID, Message{Event: EventRoleAssigned, Data: RolePayload{Role: res.Role}})
	s.fanout.SendTo(connID, Message{Event: EventBoardState, Data: BoardPayload{Position: res.Position}})
	s.fanout.Broadcast(roomID, Message{Event: EventOccupancyChanged, Data: OccupancyPayload{Count: res.Occupancy}})

	log.Printf("[JOIN] room=%s conn=%s role=%s occupancy=%d", roomID, connID, res.Role, res.Occupancy)
}

// Move attempts a move on behalf of a connection. Attempts without standing
// are dropped silently; see the package error policy.
func (s *roomServiceImpl) Move(ctx context.Context, connID, roomID string, mv engine.Move) {
	s.mu.RLock()
	joined := s.joined[connID]
	s.mu.RUnlock()
	if joined != roomID {
		return
	}

	r, err := s.registry.Get(roomID)
	if err != nil {
		return
	}

	res, err := r.AttemptMove(connID, mv)
	if err != nil {
		log.Printf("[MOVE] room=%s conn=%s engine fault: %v", roomID, connID, err)
	}

	switch res.Status {
	case room.MoveApplied:
		s.fanout.Broadcast(roomID, Message{Event: EventMoveApplied, Data: MovePayload{Move: res.Move}})
		s.fanout.Broadcast(roomID, Message{Event: EventBoardState, Data: BoardPayload{
			Position: res.Position,
			Terminal: res.Terminal,
		}})
		log.Printf("[MOVE] room=%s conn=%s move=%s terminal=%q", roomID, connID, res.Move, res.Terminal)
	case room.MoveRejected:
		s.fanout.SendTo(connID, Message{Event: EventInvalidMove, Data: MovePayload{Move: mv}})
	}
}

// SeatResponse promotes an accepting observer into a free seat.
func (s *roomServiceImpl) SeatResponse(ctx context.Context, connID, roomID string, accept bool) {
	if !accept {
		return
	}

	s.mu.RLock()
	joined := s.joined[connID]
	s.mu.RUnlock()
	if joined != roomID {
		return
	}

	r, err := s.registry.Get(roomID)
	if err != nil {
		return
	}

	res := r.PromoteObserver(connID)
	if !res.Promoted {
		return
	}

	s.fanout.SendTo(connID, Message{Event: EventRoleAssigned, Data: RolePayload{Role: res.Role}})
	s.fanout.Broadcast(roomID, Message{Event: EventOccupancyChanged, Data: OccupancyPayload{Count: res.Occupancy}})

	log.Printf("[PROMOTE] room=%s conn=%s role=%s", roomID, connID, res.Role)
}

// Disconnect removes the connection from its room, notifies the remaining
// seat-holder, offers the vacated seat to observers, and reclaims the room
// if it emptied.
func (s *roomServiceImpl) Disconnect(ctx context.Context, connID string) {
	s.mu.Lock()
	roomID, ok := s.joined[connID]
	if ok {
		delete(s.joined, connID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	s.depart(connID, roomID)
}

// depart runs the shared leave flow against one room.
func (s *roomServiceImpl) depart(connID, roomID string) {
	s.fanout.Unsubscribe(connID, roomID)

	r, err := s.registry.Get(roomID)
	if err != nil {
		return
	}

	res := r.Leave(connID)
	if !res.Present {
		return
	}

	if res.VacatedSeat != "" {
		if res.OpponentID != "" {
			s.fanout.SendTo(res.OpponentID, Message{Event: EventOpponentLeft, Data: SeatPayload{Seat: res.VacatedSeat}})
		}
		for _, observer := range res.Observers {
			s.fanout.SendTo(observer, Message{Event: EventSeatAvailable, Data: SeatPayload{Seat: res.VacatedSeat}})
		}
	}

	if res.Empty {
		s.registry.RemoveIfEmpty(roomID)
	}

	log.Printf("[LEAVE] room=%s conn=%s vacated=%q empty=%t", roomID, connID, res.VacatedSeat, res.Empty)
}

// CreateLobbyRoom creates a room over the REST/MCP surface without joining
// anyone. Never-joined rooms are reclaimed by the registry's idle cleanup.
func (s *roomServiceImpl) CreateLobbyRoom(ctx context.Context, roomID string) (*room.Info, error) {
	r, err := s.registry.Create(roomID)
	if err != nil {
		return nil, err
	}
	info := r.Snapshot()
	return &info, nil
}

// ListRooms returns snapshots of all live rooms.
func (s *roomServiceImpl) ListRooms(ctx context.Context) []room.Info {
	rooms := s.registry.List()
	result := make([]room.Info, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, r.Snapshot())
	}
	return result
}

// GetRoom returns a snapshot of one room.
func (s *roomServiceImpl) GetRoom(ctx context.Context, roomID string) (*room.Info, error) {
	r, err := s.registry.Get(roomID)
	if err != nil {
		return nil, err
	}
	info := r.Snapshot()
	return &info, nil
}

// sendError reports a structural failure to the requesting connection only.
func (s *roomServiceImpl) sendError(connID, reason string) {
	s.fanout.SendTo(connID, Message{Event: EventError, Data: ErrorPayload{Reason: reason}})
}
