// Package engine defines the position engine contract for the chess room
// server and provides a concrete implementation backed by notnil/chess.
//
// The engine package implements:
//   - Opaque position encoding (FEN)
//   - Turn resolution from a position
//   - Move legality and position advancement
//   - Terminal-state classification
//
// Core Types:
//
// Engine is the rules capability the room coordinator delegates to. The
// coordinator never inspects a Position; it only threads positions through
// the engine and relays the results. ChessEngine is the standard-chess
// implementation.
//
// Positions:
//
// A Position is a FEN string. The zero-knowledge contract means any engine
// that can round-trip its own encoding can be swapped in; the coordinator
// stores whatever StartingPosition returns and replaces it with whatever
// ApplyMove returns.
//
// Moves:
//
// A Move is a from/to square pair with an optional promotion piece, matching
// what chess UIs submit. UCI() renders the engine-facing encoding ("e2e4",
// "e7e8q").
//
// Errors:
//
// Engine methods return an error only for internal faults such as a position
// that fails to decode. An illegal or malformed move is not an error; it is
// an ordinary rejection reported through ApplyMove's accepted flag.
package engine
