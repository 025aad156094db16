package engine

import (
	"fmt"

	"github.com/notnil/chess"
)

// ChessEngine implements Engine for standard chess using notnil/chess.
// The zero value is ready to use.
type ChessEngine struct{}

// NewChessEngine creates a chess rules engine.
func NewChessEngine() *ChessEngine {
	return &ChessEngine{}
}

// gameFrom reconstructs a game from a FEN position.
func (e *ChessEngine) gameFrom(pos Position) (*chess.Game, error) {
	fen, err := chess.FEN(string(pos))
	if err != nil {
		return nil, fmt.Errorf("invalid position %q: %w", pos, err)
	}
	return chess.NewGame(fen), nil
}

// StartingPosition returns the standard chess starting position.
func (e *ChessEngine) StartingPosition() Position {
	return Position(chess.NewGame().Position().String())
}

// TurnHolder reports which color moves next in pos.
func (e *ChessEngine) TurnHolder(pos Position) (Seat, error) {
	game, err := e.gameFrom(pos)
	if err != nil {
		return "", err
	}
	if game.Position().Turn() == chess.White {
		return SeatWhite, nil
	}
	return SeatBlack, nil
}

// ApplyMove validates mv against pos. Malformed notation and illegal moves
// are both ordinary rejections.
func (e *ChessEngine) ApplyMove(pos Position, mv Move) (Position, bool, error) {
	game, err := e.gameFrom(pos)
	if err != nil {
		return pos, false, err
	}

	decoded, err := chess.UCINotation{}.Decode(game.Position(), mv.UCI())
	if err != nil {
		return pos, false, nil
	}
	if err := game.Move(decoded); err != nil {
		return pos, false, nil
	}

	return Position(game.Position().String()), true, nil
}

// TerminalStatus classifies pos using the game outcome notnil/chess derives
// when reconstructing from FEN. Repetition draws require move history and
// are only reported by engines that track it; from a bare FEN this engine
// detects checkmate, stalemate, insufficient material, and clock-based draws.
func (e *ChessEngine) TerminalStatus(pos Position) (TerminalKind, error) {
	game, err := e.gameFrom(pos)
	if err != nil {
		return TerminalNone, err
	}

	switch game.Method() {
	case chess.Checkmate:
		return TerminalCheckmate, nil
	case chess.Stalemate:
		return TerminalStalemate, nil
	case chess.InsufficientMaterial:
		return TerminalInsufficientMaterial, nil
	case chess.ThreefoldRepetition, chess.FivefoldRepetition:
		return TerminalRepetition, nil
	case chess.FiftyMoveRule, chess.SeventyFiveMoveRule:
		return TerminalDraw, nil
	}

	// Method can lag Status for positions loaded mid-game.
	switch game.Position().Status() {
	case chess.Checkmate:
		return TerminalCheckmate, nil
	case chess.Stalemate:
		return TerminalStalemate, nil
	}

	if game.Outcome() == chess.Draw {
		return TerminalDraw, nil
	}
	return TerminalNone, nil
}
