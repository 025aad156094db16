package engine

// Position is an opaque encoding of the full game state at a point in time.
// For the chess engine it is a FEN string.
type Position string

// Seat identifies one of the two player slots in a room. The first claimant
// of a room receives the white seat, the second receives black.
type Seat string

const (
	SeatWhite Seat = "white"
	SeatBlack Seat = "black"
)

// Opponent returns the other seat.
func (s Seat) Opponent() Seat {
	if s == SeatWhite {
		return SeatBlack
	}
	return SeatWhite
}

// Move is a proposed move as submitted by a client: origin and destination
// squares plus an optional promotion piece ("q", "r", "b", "n").
type Move struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// UCI renders the move in UCI notation, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	return m.From + m.To + m.Promotion
}

// String implements fmt.Stringer.
func (m Move) String() string {
	return m.UCI()
}

// TerminalKind classifies how a game has ended. TerminalNone means the game
// is still in progress.
type TerminalKind string

const (
	TerminalNone                 TerminalKind = ""
	TerminalCheckmate            TerminalKind = "checkmate"
	TerminalStalemate            TerminalKind = "stalemate"
	TerminalDraw                 TerminalKind = "draw"
	TerminalInsufficientMaterial TerminalKind = "insufficient_material"
	TerminalRepetition           TerminalKind = "repetition"
)

// Engine is the rules capability consumed by the room coordinator. All
// methods are pure with respect to their inputs; an Engine holds no game
// state of its own and is safe for concurrent use.
//
// Errors indicate internal faults (e.g. an undecodable position) and are
// handled at the per-event boundary by the caller. Rule-level outcomes such
// as an illegal move are reported through return values, not errors.
type Engine interface {
	// StartingPosition returns the game's standard initial position.
	StartingPosition() Position

	// TurnHolder reports which seat is permitted to move in pos.
	TurnHolder(pos Position) (Seat, error)

	// ApplyMove attempts mv against pos. If the move is legal it returns the
	// advanced position and true; otherwise it returns pos unchanged and
	// false. A malformed move is treated as illegal, not as a fault.
	ApplyMove(pos Position, mv Move) (Position, bool, error)

	// TerminalStatus classifies pos. TerminalNone means play continues.
	TerminalStatus(pos Position) (TerminalKind, error)
}
