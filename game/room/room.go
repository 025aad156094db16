package room

import (
	"sync"
	"time"

	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/engine"
)

// Role is a connection's standing within a room.
type Role string

const (
	RoleWhite    Role = "white"
	RoleBlack    Role = "black"
	RoleObserver Role = "observer"
)

// Seat maps a player role to its seat. Observers hold no seat.
func (r Role) Seat() (engine.Seat, bool) {
	switch r {
	case RoleWhite:
		return engine.SeatWhite, true
	case RoleBlack:
		return engine.SeatBlack, true
	}
	return "", false
}

// Room holds one game's mutable state. All access goes through its methods;
// the mutex linearizes concurrent joins, moves, and leaves.
type Room struct {
	id  string
	eng engine.Engine

	mu           sync.Mutex
	position     engine.Position
	white        string
	black        string
	observers    []string
	closed       bool
	createdAt    time.Time
	lastActiveAt time.Time
}

// newRoom allocates a room at the engine's starting position. Only the
// Registry creates rooms.
func newRoom(id string, eng engine.Engine) *Room {
	now := time.Now()
	return &Room{
		id:           id,
		eng:          eng,
		position:     eng.StartingPosition(),
		createdAt:    now,
		lastActiveAt: now,
	}
}

// ID returns the room identifier.
func (r *Room) ID() string {
	return r.id
}

// JoinResult reports the outcome of admitting a connection.
type JoinResult struct {
	Role      Role
	Position  engine.Position
	Occupancy int
	// Rejoined is true when the connection was already a member; no state
	// changed in that case.
	Rejoined bool
}

// Join admits a connection: first claimant takes white, second takes black,
// everyone after that observes. Re-joining is idempotent and reports the
// role already held.
func (r *Room) Join(connID string) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return JoinResult{}, ErrRoomClosed
	}

	if role, ok := r.roleLocked(connID); ok {
		return JoinResult{
			Role:      role,
			Position:  r.position,
			Occupancy: r.occupancyLocked(),
			Rejoined:  true,
		}, nil
	}

	var role Role
	switch {
	case r.white == "":
		r.white = connID
		role = RoleWhite
	case r.black == "":
		r.black = connID
		role = RoleBlack
	default:
		r.observers = append(r.observers, connID)
		role = RoleObserver
	}
	r.lastActiveAt = time.Now()

	return JoinResult{
		Role:      role,
		Position:  r.position,
		Occupancy: r.occupancyLocked(),
	}, nil
}

// MoveStatus classifies the outcome of an attempted move.
type MoveStatus int

const (
	// MoveIgnored: the mover held no seat or it was not their turn. Expected
	// under UI/server races, so it produces no outbound message.
	MoveIgnored MoveStatus = iota
	// MoveRejected: the engine refused the move; only the mover is told.
	MoveRejected
	// MoveApplied: the position advanced; the whole room is told.
	MoveApplied
)

// MoveResult reports the outcome of AttemptMove.
type MoveResult struct {
	Status   MoveStatus
	Move     engine.Move
	Position engine.Position
	Terminal engine.TerminalKind
}

// AttemptMove applies mv if connID holds the seat whose turn it is. The
// position mutates only when the engine accepts the move. A non-nil error is
// an engine fault; the result is still valid and degrades the attempt to a
// rejection per the caller's error policy.
func (r *Room) AttemptMove(connID string, mv engine.Move) (MoveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return MoveResult{Status: MoveIgnored}, nil
	}

	role, ok := r.roleLocked(connID)
	if !ok {
		return MoveResult{Status: MoveIgnored}, nil
	}
	seat, seated := role.Seat()
	if !seated {
		return MoveResult{Status: MoveIgnored}, nil
	}

	turn, err := r.eng.TurnHolder(r.position)
	if err != nil {
		return MoveResult{Status: MoveRejected, Move: mv}, err
	}
	if turn != seat {
		return MoveResult{Status: MoveIgnored}, nil
	}

	next, accepted, err := r.eng.ApplyMove(r.position, mv)
	if err != nil {
		return MoveResult{Status: MoveRejected, Move: mv}, err
	}
	if !accepted {
		return MoveResult{Status: MoveRejected, Move: mv}, nil
	}

	r.position = next
	r.lastActiveAt = time.Now()

	terminal, err := r.eng.TerminalStatus(next)
	if err != nil {
		// The move stands; the classification is relayed as in-progress.
		return MoveResult{Status: MoveApplied, Move: mv, Position: next}, err
	}

	return MoveResult{
		Status:   MoveApplied,
		Move:     mv,
		Position: next,
		Terminal: terminal,
	}, nil
}

// LeaveResult reports membership after removing a connection.
type LeaveResult struct {
	// Present is false when the connection was not a member; nothing changed.
	Present bool
	// VacatedSeat names the seat the connection held, empty for observers.
	VacatedSeat engine.Seat
	// OpponentID is the remaining seat-holder, if any.
	OpponentID string
	// Observers is a snapshot of the observers still present, in join order.
	Observers []string
	// Empty is true when the room has no members left.
	Empty bool
}

// Leave removes a connection from whichever slot it occupies. It is a no-op
// for non-members.
func (r *Room) Leave(connID string) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := LeaveResult{}
	switch {
	case connID != "" && connID == r.white:
		r.white = ""
		res.Present = true
		res.VacatedSeat = engine.SeatWhite
		res.OpponentID = r.black
	case connID != "" && connID == r.black:
		r.black = ""
		res.Present = true
		res.VacatedSeat = engine.SeatBlack
		res.OpponentID = r.white
	default:
		kept := r.observers[:0]
		for _, id := range r.observers {
			if id == connID {
				res.Present = true
				continue
			}
			kept = append(kept, id)
		}
		r.observers = kept
	}

	if res.Present {
		r.lastActiveAt = time.Now()
	}
	res.Observers = append([]string(nil), r.observers...)
	res.Empty = r.emptyLocked()
	return res
}

// PromoteResult reports the outcome of a seat promotion.
type PromoteResult struct {
	Promoted  bool
	Role      Role
	Occupancy int
	Position  engine.Position
}

// PromoteObserver moves an observer into the first free seat. It is a no-op
// when the connection is not an observer or both seats are taken.
func (r *Room) PromoteObserver(connID string) PromoteResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return PromoteResult{}
	}

	idx := -1
	for i, id := range r.observers {
		if id == connID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return PromoteResult{}
	}

	var role Role
	switch {
	case r.white == "":
		r.white = connID
		role = RoleWhite
	case r.black == "":
		r.black = connID
		role = RoleBlack
	default:
		return PromoteResult{}
	}

	r.observers = append(r.observers[:idx], r.observers[idx+1:]...)
	r.lastActiveAt = time.Now()

	return PromoteResult{
		Promoted:  true,
		Role:      role,
		Occupancy: r.occupancyLocked(),
		Position:  r.position,
	}
}

// Role reports the connection's current standing in the room.
func (r *Room) Role(connID string) (Role, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roleLocked(connID)
}

// Occupancy reports the seat count signal broadcast to the room: 2 when both
// seats are filled, otherwise 1.
func (r *Room) Occupancy() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.occupancyLocked()
}

// Position returns the current position.
func (r *Room) Position() engine.Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position
}

// Info is a point-in-time snapshot of a room for the lobby surface.
type Info struct {
	ID         string          `json:"id"`
	Position   engine.Position `json:"position"`
	WhiteTaken bool            `json:"white_taken"`
	BlackTaken bool            `json:"black_taken"`
	Observers  int             `json:"observers"`
	Occupancy  int             `json:"occupancy"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Snapshot captures the room's membership and position.
func (r *Room) Snapshot() Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Info{
		ID:         r.id,
		Position:   r.position,
		WhiteTaken: r.white != "",
		BlackTaken: r.black != "",
		Observers:  len(r.observers),
		Occupancy:  r.occupancyLocked(),
		CreatedAt:  r.createdAt,
	}
}

func (r *Room) roleLocked(connID string) (Role, bool) {
	if connID == "" {
		return "", false
	}
	if connID == r.white {
		return RoleWhite, true
	}
	if connID == r.black {
		return RoleBlack, true
	}
	for _, id := range r.observers {
		if id == connID {
			return RoleObserver, true
		}
	}
	return "", false
}

func (r *Room) occupancyLocked() int {
	if r.white != "" && r.black != "" {
		return 2
	}
	return 1
}

func (r *Room) emptyLocked() bool {
	return r.white == "" && r.black == "" && len(r.observers) == 0
}
